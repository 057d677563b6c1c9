package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// Size limits (in bytes)
const (
	MaxJSONSize  = 1 * 1024 * 1024 // 1MB - maximum JSON request body
	MaxQuerySize = 256             // search query length limit
)

// String length limits
const (
	MaxIDLength = 128
)

// Regular expressions for validation
var (
	// CategoryIDPattern allows alphanumeric, dots, hyphens, underscores
	CategoryIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// DefaultJSONValidator returns a validator with the default 1MB limit
func DefaultJSONValidator() *JSONSizeValidator {
	return NewJSONSizeValidator(MaxJSONSize)
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	size := len(data)
	if size > v.maxSize {
		return fmt.Errorf("JSON size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateJSON validates both size and JSON structure
func (v *JSONSizeValidator) ValidateJSON(data []byte) error {
	// Check size first (faster than parsing)
	if err := v.ValidateSize(data); err != nil {
		return err
	}

	if !sonic.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}

	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateCategoryID validates a blueprint category id taken from a request
// path. Ids name a single directory below the blueprint root.
func ValidateCategoryID(id string) error {
	if err := ValidateString(id, "category", 1, MaxIDLength, true); err != nil {
		return err
	}

	if !CategoryIDPattern.MatchString(id) {
		return fmt.Errorf("category contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)")
	}

	if id == "." || id == ".." {
		return fmt.Errorf("category must not be a relative path element")
	}

	return nil
}

// ValidateQuery validates a search query
func ValidateQuery(query string) error {
	return ValidateString(query, "query", 0, MaxQuerySize, false)
}
