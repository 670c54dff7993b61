// Package host adapts the style store to the generation web UI that embeds it.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// Title is the panel title shown by the host
const Title = "🎨 Style Selector"

// Prompt box element ids the host registers
const (
	ElemTxt2ImgPrompt    = "txt2img_prompt"
	ElemImg2ImgPrompt    = "img2img_prompt"
	ElemTxt2ImgNegPrompt = "txt2img_neg_prompt"
	ElemImg2ImgNegPrompt = "img2img_neg_prompt"
)

var trackedElems = map[string]struct{}{
	ElemTxt2ImgPrompt:    {},
	ElemImg2ImgPrompt:    {},
	ElemTxt2ImgNegPrompt: {},
	ElemImg2ImgNegPrompt: {},
}

// Status messages
const (
	MsgRefreshed         = "🔄 Styles refreshed!"
	MsgApplied           = "✅ Prompts applied!"
	MsgPositiveCleared   = "✅ Positive prompt cleared!"
	MsgNegativeCleared   = "✅ Negative prompt cleared!"
	MsgDetailsExtracted  = "✅ Style details extracted!"
	MsgPromptsExtracted  = "✅ Generation prompts extracted!"
	MsgStyleAdded        = "✅ Style added!"
	MsgStyleUpdated      = "✅ Style updated!"
	MsgStyleDeleted      = "✅ Style deleted!"
	MsgCategoryAdded     = "✅ Category added!"
	MsgCategoryRenamed   = "✅ Category renamed!"
	MsgCategoryDeleted   = "✅ Category deleted!"
	MsgIndexRebuilt      = "✅ Category index rebuilt!"
	MsgIndexConsistent   = "✅ Category index already consistent!"
	MsgStyleExists       = "❌ Style name already exists!"
	MsgStyleNameEmpty    = "❌ Style name cannot be empty!"
	MsgStyleNotFound     = "❌ Style not found!"
	MsgInvalidImage      = "❌ Preview image could not be read!"
	MsgCategoryNameEmpty = "❌ Category name cannot be empty!"
	MsgCategoryExists    = "❌ Category already exists!"
	MsgCategoryNotFound  = "❌ Category not found!"
	MsgNewNameEmpty      = "❌ New category name cannot be empty!"
	MsgNewNameSame       = "❌ New category name is the same as the old one!"
	MsgOldNameMissing    = "❌ Original category does not exist!"
	MsgNewNameTaken      = "❌ New category name already exists!"
)

// Extension implements ports.HostExtension and the panel's button actions.
// Domain failures are reported as unsuccessful Feedback; only I/O faults return an error.
type Extension struct {
	styles     ports.StyleService
	categories ports.CategoryService
	compose    ports.ComposeService
	settle     time.Duration
	logger     *logger.Logger

	mu         sync.RWMutex
	components map[string]bool
}

// NewExtension creates a new host extension
func NewExtension(styles ports.StyleService, categories ports.CategoryService, compose ports.ComposeService, cfg config.StoreConfig, logger *logger.Logger) *Extension {
	return &Extension{
		styles:     styles,
		categories: categories,
		compose:    compose,
		settle:     cfg.SettleDelay,
		logger:     logger.WithComponent("host_extension"),
		components: make(map[string]bool),
	}
}

// Title returns the panel title
func (e *Extension) Title() string {
	return Title
}

// Init loads both documents once so a broken setup shows up at startup.
func (e *Extension) Init(ctx context.Context) error {
	categories, err := e.categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	styles, err := e.styles.ListAllStyleNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to load styles: %w", err)
	}

	e.logger.Infow("Style selector initialized",
		"categories", len(categories),
		"styles", len(styles),
	)
	return nil
}

// OnComponentRegistered remembers the host's prompt boxes as they are created.
func (e *Extension) OnComponentRegistered(elemID string) {
	if _, ok := trackedElems[elemID]; !ok {
		return
	}

	e.mu.Lock()
	e.components[elemID] = true
	e.mu.Unlock()

	e.logger.Debugw("Prompt component registered", "elem_id", elemID)
}

// BuildUI returns the initial panel state for a tab. The first category is preselected.
func (e *Extension) BuildUI(ctx context.Context, tab ports.Tab) (*ports.UIState, error) {
	if !tab.IsValid() {
		return nil, fmt.Errorf("unknown tab %q", tab)
	}

	categories, err := e.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	current := ""
	if len(categories) > 0 {
		current = categories[0]
	}
	styles, err := e.stylesFor(ctx, current)
	if err != nil {
		return nil, err
	}

	state := &ports.UIState{
		Title:           Title,
		Tab:             tab,
		Enabled:         false,
		Categories:      categories,
		CurrentCategory: current,
		Styles:          styles,
		EmojiChoices:    e.categories.EmojiChoices(),
	}
	if len(styles) > 0 {
		state.SelectedStyle = styles[0]
	}

	positive, negative := ElemTxt2ImgPrompt, ElemTxt2ImgNegPrompt
	if tab == ports.TabImg2Img {
		positive, negative = ElemImg2ImgPrompt, ElemImg2ImgNegPrompt
	}
	e.mu.RLock()
	if e.components[positive] {
		state.PositiveTarget = positive
	}
	if e.components[negative] {
		state.NegativeTarget = negative
	}
	e.mu.RUnlock()

	return state, nil
}

// OnGenerate rewrites the batch prompts when the selector is enabled and a style is chosen.
func (e *Extension) OnGenerate(ctx context.Context, req *ports.GenerationRequest) error {
	if req == nil || !req.Enabled || req.Style == "" {
		return nil
	}

	params, err := e.compose.ApplyToBatch(ctx, req.Style, req.AllPrompts, req.AllNegativePrompts)
	if err != nil {
		return err
	}

	if req.ExtraGenerationParams == nil {
		req.ExtraGenerationParams = make(map[string]interface{}, len(params))
	}
	for k, v := range params {
		req.ExtraGenerationParams[k] = v
	}
	return nil
}

// Refresh reloads the style choices of category
func (e *Extension) Refresh(ctx context.Context, category string) (ports.Feedback, error) {
	styles, err := e.stylesFor(ctx, category)
	if err != nil {
		return ports.Feedback{}, err
	}
	return success(MsgRefreshed, orEmpty(styles)), nil
}

// SelectCategory returns the style choices for a newly selected category
func (e *Extension) SelectCategory(ctx context.Context, category string) (ports.Feedback, error) {
	styles, err := e.stylesFor(ctx, category)
	if err != nil {
		return ports.Feedback{}, err
	}
	return success("", orEmpty(styles)), nil
}

// ApplyStyle composes the selected style into the prompt boxes
func (e *Extension) ApplyStyle(ctx context.Context, req ports.ApplyStyleRequest) (ports.ApplyStyleResponse, ports.Feedback, error) {
	positive, err := e.compose.ComposePositive(ctx, req.Style, req.Positive)
	if err != nil {
		return ports.ApplyStyleResponse{}, ports.Feedback{}, err
	}
	negative, err := e.compose.ComposeNegative(ctx, req.Style, req.Negative)
	if err != nil {
		return ports.ApplyStyleResponse{}, ports.Feedback{}, err
	}
	return ports.ApplyStyleResponse{Positive: positive, Negative: negative}, success(MsgApplied, nil), nil
}

// ClearPositive empties the positive prompt box
func (e *Extension) ClearPositive() (string, ports.Feedback) {
	return "", success(MsgPositiveCleared, nil)
}

// ClearNegative empties the negative prompt box
func (e *Extension) ClearNegative() (string, ports.Feedback) {
	return "", success(MsgNegativeCleared, nil)
}

// ExtractStyleDetails copies a style into the edit form
func (e *Extension) ExtractStyleDetails(ctx context.Context, name string) (entities.StyleRecord, ports.Feedback, error) {
	style, err := e.styles.GetStyleDetails(ctx, name)
	if err != nil {
		return entities.StyleRecord{}, ports.Feedback{}, err
	}
	if style.Name == "" {
		return style, failure(MsgStyleNotFound, entities.ErrNotFound, nil), nil
	}
	return style, success(MsgDetailsExtracted, nil), nil
}

// ExtractGenerationPrompts copies the current prompt boxes into the edit form
func (e *Extension) ExtractGenerationPrompts(positive, negative string) (ports.ApplyStyleResponse, ports.Feedback) {
	return ports.ApplyStyleResponse{Positive: positive, Negative: negative}, success(MsgPromptsExtracted, nil)
}

// StyleImage returns the preview path for a style
func (e *Extension) StyleImage(ctx context.Context, name string) (string, bool, error) {
	return e.styles.GetStyleImage(ctx, name)
}

// AddStyle saves a new style from the edit form
func (e *Extension) AddStyle(ctx context.Context, req ports.AddStyleRequest) (ports.Feedback, error) {
	_, err := e.styles.AddStyle(ctx, req)
	return e.afterStyleMutation(ctx, req.Category, MsgStyleAdded, err, map[error]string{
		entities.ErrDuplicateName: MsgStyleExists,
		entities.ErrEmptyName:     MsgStyleNameEmpty,
		entities.ErrInvalidImage:  MsgInvalidImage,
	})
}

// ModifyStyle saves the edit form over the selected style
func (e *Extension) ModifyStyle(ctx context.Context, req ports.ModifyStyleRequest) (ports.Feedback, error) {
	_, err := e.styles.ModifyStyle(ctx, req)
	return e.afterStyleMutation(ctx, req.Category, MsgStyleUpdated, err, map[error]string{
		entities.ErrNotFound:     MsgStyleNotFound,
		entities.ErrInvalidImage: MsgInvalidImage,
	})
}

// DeleteStyle removes the selected style from the selected category
func (e *Extension) DeleteStyle(ctx context.Context, req ports.DeleteStyleRequest) (ports.Feedback, error) {
	err := e.styles.DeleteStyle(ctx, req.Name, req.Category)
	return e.afterStyleMutation(ctx, req.Category, MsgStyleDeleted, err, map[error]string{
		entities.ErrNotFound: MsgStyleNotFound,
	})
}

// AddCategory creates a category from the label and optional emoji
func (e *Extension) AddCategory(ctx context.Context, req ports.AddCategoryRequest) (ports.Feedback, error) {
	_, err := e.categories.AddCategory(ctx, req.Label, req.Emoji)
	return e.afterCategoryMutation(ctx, MsgCategoryAdded, err, map[error]string{
		entities.ErrEmptyName:     MsgCategoryNameEmpty,
		entities.ErrAlreadyExists: MsgCategoryExists,
	})
}

// RenameCategory renames the selected category
func (e *Extension) RenameCategory(ctx context.Context, req ports.RenameCategoryRequest) (ports.Feedback, error) {
	err := e.categories.RenameCategory(ctx, req.OldName, req.NewName)
	return e.afterCategoryMutation(ctx, MsgCategoryRenamed, err, map[error]string{
		entities.ErrEmptyName:     MsgNewNameEmpty,
		entities.ErrNoChange:      MsgNewNameSame,
		entities.ErrNotFound:      MsgOldNameMissing,
		entities.ErrAlreadyExists: MsgNewNameTaken,
	})
}

// DeleteCategory removes the selected category
func (e *Extension) DeleteCategory(ctx context.Context, req ports.DeleteCategoryRequest) (ports.Feedback, error) {
	err := e.categories.DeleteCategory(ctx, req.Name)
	return e.afterCategoryMutation(ctx, MsgCategoryDeleted, err, map[error]string{
		entities.ErrNotFound: MsgCategoryNotFound,
	})
}

// Reconcile rebuilds the category index from the catalog
func (e *Extension) Reconcile(ctx context.Context) (*ports.ReconcileReport, ports.Feedback, error) {
	report, err := e.categories.Reconcile(ctx)
	if err != nil {
		return nil, ports.Feedback{}, err
	}

	categories, err := e.categories.ListCategories(ctx)
	if err != nil {
		return nil, ports.Feedback{}, err
	}
	if !report.Changed() {
		return report, success(MsgIndexConsistent, orEmpty(categories)), nil
	}
	e.pause(ctx)
	return report, success(MsgIndexRebuilt, orEmpty(categories)), nil
}

// stylesFor lists every style for the "show all" sentinel, otherwise the category's own.
func (e *Extension) stylesFor(ctx context.Context, category string) ([]string, error) {
	if category != "" && category == e.categories.AllCategory() {
		return e.styles.ListAllStyleNames(ctx)
	}
	return e.styles.ListStyleNames(ctx, category)
}

func (e *Extension) afterStyleMutation(ctx context.Context, category, okMsg string, err error, messages map[error]string) (ports.Feedback, error) {
	if err == nil {
		e.pause(ctx)
	} else if _, known := domainMessage(err, messages); !known {
		e.logger.Errorw("Style action failed", "error", err)
		return ports.Feedback{}, err
	}

	styles, listErr := e.stylesFor(ctx, category)
	if listErr != nil {
		return ports.Feedback{}, listErr
	}
	styles = orEmpty(styles)
	if msg, known := domainMessage(err, messages); known {
		return failure(msg, err, styles), nil
	}
	return success(okMsg, styles), nil
}

func (e *Extension) afterCategoryMutation(ctx context.Context, okMsg string, err error, messages map[error]string) (ports.Feedback, error) {
	if err == nil {
		e.pause(ctx)
	} else if _, known := domainMessage(err, messages); !known {
		e.logger.Errorw("Category action failed", "error", err)
		return ports.Feedback{}, err
	}

	categories, listErr := e.categories.ListCategories(ctx)
	if listErr != nil {
		return ports.Feedback{}, listErr
	}
	categories = orEmpty(categories)
	if msg, known := domainMessage(err, messages); known {
		return failure(msg, err, categories), nil
	}
	return success(okMsg, categories), nil
}

// pause lets the host UI settle before it refreshes dependent widgets.
func (e *Extension) pause(ctx context.Context) {
	if e.settle <= 0 {
		return
	}
	timer := time.NewTimer(e.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func domainMessage(err error, messages map[error]string) (string, bool) {
	if err == nil {
		return "", false
	}
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}

// orEmpty turns a nil list into an empty one so the host replaces its choices.
func orEmpty(choices []string) []string {
	if choices == nil {
		return []string{}
	}
	return choices
}

func success(msg string, choices []string) ports.Feedback {
	return ports.Feedback{Success: true, Message: msg, Variant: ports.VariantSuccess, Choices: choices}
}

func failure(msg string, err error, choices []string) ports.Feedback {
	return ports.Feedback{Success: false, Message: msg, Variant: ports.VariantError, Code: entities.ErrorCode(err), Choices: choices}
}

// Ensure Extension implements ports.HostExtension.
var _ ports.HostExtension = (*Extension)(nil)
