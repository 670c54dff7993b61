package ports

import (
	"context"

	"github.com/styleselector/core/internal/domain/entities"
)

// StyleService interface for style catalog operations
type StyleService interface {
	ListStyleNames(ctx context.Context, category string) ([]string, error)
	ListAllStyleNames(ctx context.Context) ([]string, error)
	GetStyleDetails(ctx context.Context, name string) (entities.StyleRecord, error)
	GetStyleImage(ctx context.Context, name string) (string, bool, error)
	AddStyle(ctx context.Context, req AddStyleRequest) (*entities.StyleRecord, error)
	ModifyStyle(ctx context.Context, req ModifyStyleRequest) (*entities.StyleRecord, error)
	DeleteStyle(ctx context.Context, name, category string) error
}

// CategoryService interface for category index operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, label, emoji string) (string, error)
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
	Reconcile(ctx context.Context) (*ReconcileReport, error)
	EmojiChoices() []string
	AllCategory() string
}

// ComposeService interface for merging style templates into prompts
type ComposeService interface {
	ComposePositive(ctx context.Context, styleName, prompt string) (string, error)
	ComposeNegative(ctx context.Context, styleName, prompt string) (string, error)
	ApplyToBatch(ctx context.Context, styleName string, positives, negatives []string) (map[string]interface{}, error)
}

// HostExtension is the capability contract the host web UI drives.
type HostExtension interface {
	Title() string
	Init(ctx context.Context) error
	BuildUI(ctx context.Context, tab Tab) (*UIState, error)
	OnGenerate(ctx context.Context, req *GenerationRequest) error
	OnComponentRegistered(elemID string)
}

// Request/Response Types

// Style related types
type AddStyleRequest struct {
	Name           string `json:"name" validate:"max=256"`
	Prompt         string `json:"prompt" validate:"max=20000"`
	NegativePrompt string `json:"negative_prompt" validate:"max=20000"`
	Category       string `json:"category" validate:"max=256"`
	Image          []byte `json:"image,omitempty"`
}

type ModifyStyleRequest struct {
	Name           string `json:"name" validate:"max=256"`
	Prompt         string `json:"prompt" validate:"max=20000"`
	NegativePrompt string `json:"negative_prompt" validate:"max=20000"`
	Category       string `json:"category" validate:"max=256"`
	Image          []byte `json:"image,omitempty"`
}

type DeleteStyleRequest struct {
	Name     string `json:"name" validate:"max=256"`
	Category string `json:"category" validate:"max=256"`
}

type ApplyStyleRequest struct {
	Style    string `json:"style" validate:"max=256"`
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

type ApplyStyleResponse struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

// Category related types
type AddCategoryRequest struct {
	Label string `json:"label" validate:"max=256"`
	Emoji string `json:"emoji" validate:"max=32"`
}

type RenameCategoryRequest struct {
	OldName string `json:"old_name" validate:"max=256"`
	NewName string `json:"new_name" validate:"max=256"`
}

type DeleteCategoryRequest struct {
	Name string `json:"name" validate:"max=256"`
}

// ReconcileReport describes what a category index rebuild changed
type ReconcileReport struct {
	Added   map[string][]string `json:"added"`
	Removed map[string][]string `json:"removed"`
	Created []string            `json:"created"`
}

// Changed reports whether the rebuild touched the index
func (r *ReconcileReport) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Created) > 0
}

// Host related types

// Tab identifies which host generation tab a UI is built for
type Tab string

const (
	TabTxt2Img Tab = "txt2img"
	TabImg2Img Tab = "img2img"
)

// IsValid checks if the tab is known
func (t Tab) IsValid() bool {
	return t == TabTxt2Img || t == TabImg2Img
}

// GenerationRequest is the part of an in-flight host batch the extension rewrites
type GenerationRequest struct {
	Enabled               bool                   `json:"enabled"`
	Style                 string                 `json:"style" validate:"max=256"`
	AllPrompts            []string               `json:"all_prompts"`
	AllNegativePrompts    []string               `json:"all_negative_prompts"`
	ExtraGenerationParams map[string]interface{} `json:"extra_generation_params"`
}

// UIState is the initial widget state the host renders for one tab
type UIState struct {
	Title           string   `json:"title"`
	Tab             Tab      `json:"tab"`
	Enabled         bool     `json:"enabled"`
	Categories      []string `json:"categories"`
	CurrentCategory string   `json:"current_category"`
	Styles          []string `json:"styles"`
	SelectedStyle   string   `json:"selected_style"`
	EmojiChoices    []string `json:"emoji_choices"`
	PositiveTarget  string   `json:"positive_target,omitempty"`
	NegativeTarget  string   `json:"negative_target,omitempty"`
}

// Feedback is the status a UI action reports back to the host.
// Choices is null when the action leaves the dropdown alone and [] when the list is now empty.
type Feedback struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Variant string   `json:"variant"`
	Code    string   `json:"code,omitempty"`
	Choices []string `json:"choices"`
}

// Feedback variants
const (
	VariantSuccess = "success"
	VariantError   = "error"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
