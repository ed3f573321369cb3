package errors

import (
	"strings"
	"unicode"
)

// ValidateChromosome validates a chromosome name taken from user input
// (query parameters, CLI flags). Records inside a payload are not validated
// here; a record without a chromosome is rejected by the pretreater.
func ValidateChromosome(chr string) error {
	if chr == "" {
		return New(ErrCodeInvalidInput, "chromosome cannot be empty")
	}
	if len(chr) > 64 {
		return New(ErrCodeInvalidInput, "chromosome name too long (max 64 characters)")
	}
	for _, r := range chr {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "chromosome name contains invalid characters: %q", chr)
		}
	}
	return nil
}

// ValidatePath validates a payload or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string.
// It only checks the scheme; the driver does the full parsing.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "MongoDB URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "MongoDB URI must use mongodb or mongodb+srv scheme")
	}
	return nil
}
