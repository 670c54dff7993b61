package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/styleselector/core/internal/adapters/host"
	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// StyleHandler handles style-related requests
type StyleHandler struct {
	ext    *host.Extension
	logger *logger.Logger
}

// NewStyleHandler creates a new style handler
func NewStyleHandler(ext *host.Extension, logger *logger.Logger) *StyleHandler {
	return &StyleHandler{
		ext:    ext,
		logger: logger,
	}
}

// ListStyles godoc
// @Summary List styles in a category
// @Description Sorted style names for a category. The "show all" category lists every style; an empty category lists unassigned styles.
// @Tags styles
// @Produce json
// @Param category query string false "Category key"
// @Success 200 {object} StyleListResponse
// @Router /styles [get]
func (h *StyleHandler) ListStyles(c echo.Context) error {
	category := c.QueryParam("category")

	fb, err := h.ext.SelectCategory(c.Request().Context(), category)
	if err != nil {
		h.logger.Errorw("List styles failed", "error", err, "category", category)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list styles")
	}

	styles := fb.Choices
	if styles == nil {
		styles = []string{}
	}
	return c.JSON(http.StatusOK, StyleListResponse{Category: category, Styles: styles})
}

// GetStyle godoc
// @Summary Get style details
// @Tags styles
// @Produce json
// @Param name query string true "Style name"
// @Success 200 {object} StyleDetailsResponse
// @Failure 404 {object} StyleDetailsResponse
// @Router /styles/details [get]
func (h *StyleHandler) GetStyle(c echo.Context) error {
	name := c.QueryParam("name")

	style, fb, err := h.ext.ExtractStyleDetails(c.Request().Context(), name)
	if err != nil {
		h.logger.Errorw("Get style failed", "error", err, "style", name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load style")
	}

	return c.JSON(feedbackStatus(fb, http.StatusOK), StyleDetailsResponse{Style: style, Feedback: fb})
}

// GetStyleImage godoc
// @Summary Get a style's preview image
// @Tags styles
// @Produce png
// @Param name query string true "Style name"
// @Success 200 {file} binary
// @Failure 404 {object} ports.ErrorResponse
// @Router /styles/image [get]
func (h *StyleHandler) GetStyleImage(c echo.Context) error {
	name := c.QueryParam("name")

	path, ok, err := h.ext.StyleImage(c.Request().Context(), name)
	if err != nil {
		h.logger.Errorw("Get style image failed", "error", err, "style", name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load style")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Style has no preview image")
	}

	return c.File(path)
}

// AddStyle godoc
// @Summary Add a style
// @Description Image is optional base64 data in any format the server can decode; it is stored as PNG.
// @Tags styles
// @Accept json
// @Produce json
// @Param request body ports.AddStyleRequest true "Style data"
// @Success 201 {object} ports.Feedback
// @Failure 400 {object} ports.Feedback
// @Failure 409 {object} ports.Feedback
// @Router /styles [post]
func (h *StyleHandler) AddStyle(c echo.Context) error {
	var req ports.AddStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.AddStyle(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Add style failed", "error", err, "style", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add style")
	}

	return c.JSON(feedbackStatus(fb, http.StatusCreated), fb)
}

// ModifyStyle godoc
// @Summary Update a style
// @Description Replaces templates and category. The image is replaced only when one is supplied.
// @Tags styles
// @Accept json
// @Produce json
// @Param request body ports.ModifyStyleRequest true "Style data"
// @Success 200 {object} ports.Feedback
// @Failure 404 {object} ports.Feedback
// @Router /styles [put]
func (h *StyleHandler) ModifyStyle(c echo.Context) error {
	var req ports.ModifyStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.ModifyStyle(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Modify style failed", "error", err, "style", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update style")
	}

	return c.JSON(feedbackStatus(fb, http.StatusOK), fb)
}

// DeleteStyle godoc
// @Summary Delete a style
// @Tags styles
// @Accept json
// @Produce json
// @Param request body ports.DeleteStyleRequest true "Style and the category it is listed under"
// @Success 200 {object} ports.Feedback
// @Failure 404 {object} ports.Feedback
// @Router /styles [delete]
func (h *StyleHandler) DeleteStyle(c echo.Context) error {
	var req ports.DeleteStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.DeleteStyle(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Delete style failed", "error", err, "style", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete style")
	}

	return c.JSON(feedbackStatus(fb, http.StatusOK), fb)
}

// ApplyStyle godoc
// @Summary Compose a style into prompt text
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body ports.ApplyStyleRequest true "Style and prompts"
// @Success 200 {object} PromptsResponse
// @Router /styles/apply [post]
func (h *StyleHandler) ApplyStyle(c echo.Context) error {
	var req ports.ApplyStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out, fb, err := h.ext.ApplyStyle(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Apply style failed", "error", err, "style", req.Style)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to apply style")
	}

	return c.JSON(http.StatusOK, PromptsResponse{ApplyStyleResponse: out, Feedback: fb})
}

// ExtractPrompts godoc
// @Summary Copy generation prompts into the style form
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body ports.ApplyStyleRequest true "Current prompts"
// @Success 200 {object} PromptsResponse
// @Router /prompts/extract [post]
func (h *StyleHandler) ExtractPrompts(c echo.Context) error {
	var req ports.ApplyStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	out, fb := h.ext.ExtractGenerationPrompts(req.Positive, req.Negative)
	return c.JSON(http.StatusOK, PromptsResponse{ApplyStyleResponse: out, Feedback: fb})
}

// ClearPrompt godoc
// @Summary Clear the positive or negative prompt box
// @Tags prompts
// @Produce json
// @Param target query string true "positive or negative"
// @Success 200 {object} ClearPromptResponse
// @Failure 400 {object} ports.ErrorResponse
// @Router /prompts/clear [post]
func (h *StyleHandler) ClearPrompt(c echo.Context) error {
	var (
		value string
		fb    ports.Feedback
	)
	switch target := c.QueryParam("target"); target {
	case "positive":
		value, fb = h.ext.ClearPositive()
	case "negative":
		value, fb = h.ext.ClearNegative()
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "target must be positive or negative")
	}

	return c.JSON(http.StatusOK, ClearPromptResponse{Value: value, Feedback: fb})
}

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	ext        *host.Extension
	categories ports.CategoryService
	logger     *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(ext *host.Extension, categories ports.CategoryService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		ext:        ext,
		categories: categories,
		logger:     logger,
	}
}

// ListCategories godoc
// @Summary List categories
// @Description Category keys in stored order, without the "show all" sentinel.
// @Tags categories
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List categories failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list categories")
	}

	return c.JSON(http.StatusOK, CategoryListResponse{
		Categories:   categories,
		AllCategory:  h.categories.AllCategory(),
		EmojiChoices: h.categories.EmojiChoices(),
	})
}

// AddCategory godoc
// @Summary Add a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ports.AddCategoryRequest true "Label and optional emoji prefix"
// @Success 201 {object} ports.Feedback
// @Failure 400 {object} ports.Feedback
// @Failure 409 {object} ports.Feedback
// @Router /categories [post]
func (h *CategoryHandler) AddCategory(c echo.Context) error {
	var req ports.AddCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.AddCategory(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Add category failed", "error", err, "label", req.Label)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add category")
	}

	return c.JSON(feedbackStatus(fb, http.StatusCreated), fb)
}

// RenameCategory godoc
// @Summary Rename a category
// @Description Renames the index entry and every style that references it.
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ports.RenameCategoryRequest true "Old and new names"
// @Success 200 {object} ports.Feedback
// @Failure 400 {object} ports.Feedback
// @Failure 404 {object} ports.Feedback
// @Failure 409 {object} ports.Feedback
// @Router /categories [put]
func (h *CategoryHandler) RenameCategory(c echo.Context) error {
	var req ports.RenameCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.RenameCategory(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Rename category failed", "error", err, "old_name", req.OldName, "new_name", req.NewName)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to rename category")
	}

	return c.JSON(feedbackStatus(fb, http.StatusOK), fb)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Styles in the category are kept and become unassigned.
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ports.DeleteCategoryRequest true "Category name"
// @Success 200 {object} ports.Feedback
// @Failure 404 {object} ports.Feedback
// @Router /categories [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	var req ports.DeleteCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.ext.DeleteCategory(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Delete category failed", "error", err, "category", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete category")
	}

	return c.JSON(feedbackStatus(fb, http.StatusOK), fb)
}

// Reconcile godoc
// @Summary Rebuild the category index from the catalog
// @Tags categories
// @Produce json
// @Success 200 {object} ReconcileResponse
// @Router /reconcile [post]
func (h *CategoryHandler) Reconcile(c echo.Context) error {
	report, fb, err := h.ext.Reconcile(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Reconcile failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to rebuild category index")
	}

	return c.JSON(http.StatusOK, ReconcileResponse{Report: report, Feedback: fb})
}

// HostHandler handles the host web UI's lifecycle calls
type HostHandler struct {
	ext    *host.Extension
	logger *logger.Logger
}

// NewHostHandler creates a new host handler
func NewHostHandler(ext *host.Extension, logger *logger.Logger) *HostHandler {
	return &HostHandler{
		ext:    ext,
		logger: logger,
	}
}

// BuildUI godoc
// @Summary Initial panel state for a generation tab
// @Tags host
// @Produce json
// @Param tab query string false "txt2img or img2img" default(txt2img)
// @Success 200 {object} ports.UIState
// @Failure 400 {object} ports.ErrorResponse
// @Router /ui [get]
func (h *HostHandler) BuildUI(c echo.Context) error {
	tab := ports.Tab(c.QueryParam("tab"))
	if tab == "" {
		tab = ports.TabTxt2Img
	}
	if !tab.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tab")
	}

	state, err := h.ext.BuildUI(c.Request().Context(), tab)
	if err != nil {
		h.logger.Errorw("Build UI failed", "error", err, "tab", tab)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build UI")
	}

	return c.JSON(http.StatusOK, state)
}

// RegisterComponent godoc
// @Summary Report a host component as it is created
// @Tags host
// @Accept json
// @Produce json
// @Param request body ComponentRequest true "Component element id"
// @Success 200 {object} ports.MessageResponse
// @Router /components [post]
func (h *HostHandler) RegisterComponent(c echo.Context) error {
	var req ComponentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.ext.OnComponentRegistered(req.ElemID)
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "ok"})
}

// Process godoc
// @Summary Rewrite a generation batch with the selected style
// @Description Returns the batch with prompts rewritten and style metadata added. Disabled requests come back unchanged.
// @Tags host
// @Accept json
// @Produce json
// @Param request body ports.GenerationRequest true "In-flight batch"
// @Success 200 {object} ports.GenerationRequest
// @Router /process [post]
func (h *HostHandler) Process(c echo.Context) error {
	var req ports.GenerationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.ext.OnGenerate(c.Request().Context(), &req); err != nil {
		h.logger.Errorw("Process batch failed", "error", err, "style", req.Style)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process generation request")
	}

	return c.JSON(http.StatusOK, req)
}

// feedbackStatus maps unsuccessful feedback to an HTTP status by its error code.
func feedbackStatus(fb ports.Feedback, okStatus int) int {
	if fb.Success {
		return okStatus
	}
	switch fb.Code {
	case entities.ErrorCode(entities.ErrNotFound):
		return http.StatusNotFound
	case entities.ErrorCode(entities.ErrDuplicateName), entities.ErrorCode(entities.ErrAlreadyExists):
		return http.StatusConflict
	case entities.ErrorCode(entities.ErrInvalidImage):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Request/Response types
type ComponentRequest struct {
	ElemID string `json:"elem_id" validate:"required,max=256"`
}

type StyleListResponse struct {
	Category string   `json:"category"`
	Styles   []string `json:"styles"`
}

type StyleDetailsResponse struct {
	Style    entities.StyleRecord `json:"style"`
	Feedback ports.Feedback       `json:"feedback"`
}

type PromptsResponse struct {
	ports.ApplyStyleResponse
	Feedback ports.Feedback `json:"feedback"`
}

type ClearPromptResponse struct {
	Value    string         `json:"value"`
	Feedback ports.Feedback `json:"feedback"`
}

type CategoryListResponse struct {
	Categories   []string `json:"categories"`
	AllCategory  string   `json:"all_category"`
	EmojiChoices []string `json:"emoji_choices"`
}

type ReconcileResponse struct {
	Report   *ports.ReconcileReport `json:"report"`
	Feedback ports.Feedback         `json:"feedback"`
}
