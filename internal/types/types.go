// Package types defines core data types and enums shared across the
// document translator application.
package types

// Config holds the persisted application configuration.
type Config struct {
	SourceLang string `json:"source_lang"` // "auto", "en" or "fr"
	TargetLang string `json:"target_lang"` // default "fa"

	// PDF layout fitting
	FontPath    string  `json:"font_path"` // TTF with Persian glyph coverage
	MinFontSize float64 `json:"min_font_size"`
	MaxFontSize float64 `json:"max_font_size"`
	LineGap     float64 `json:"line_gap"`
	ShrinkToFit bool    `json:"shrink_to_fit"`

	// Block filtering
	MaxCharsPerChunk int  `json:"max_chars_per_chunk"`
	MinBlockChars    int  `json:"min_block_chars"`
	SkipSmallBlocks  bool `json:"skip_small_blocks"`

	// DOCX marker aggregation
	AggMaxChars int `json:"agg_max_chars"`
	AggMaxItems int `json:"agg_max_items"`

	// Translation backend
	Backend       string `json:"backend"` // "google" or "llm"
	CachePath     string `json:"cache_path"`
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`
	OpenAIModel   string `json:"openai_model"`
}

// ErrorCode enumerates application error categories.
type ErrorCode string

const (
	ErrNetwork      ErrorCode = "NETWORK_ERROR"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrFontLoad     ErrorCode = "FONT_LOAD_ERROR"
	ErrExtract      ErrorCode = "EXTRACT_ERROR"
	ErrRender       ErrorCode = "RENDER_ERROR"
	ErrCache        ErrorCode = "CACHE_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
)

// AppError is the application-level error type. Local failures
// (one block, one paragraph) are absorbed by callers; AppError is for
// failures that abort a whole document.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
