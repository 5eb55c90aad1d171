package errors

import (
	"strings"
	"unicode"
)

// ValidateLabel validates a process or resource display name.
// Labels end up in DOT attributes, SVG output and JSON responses, so the
// rules are intentionally conservative:
//   - No empty labels
//   - No control characters
//   - No null bytes
//   - Maximum length of 128 characters
//
// kind names the field being validated ("process" or "resource") and is used
// in the error message only.
func ValidateLabel(kind, label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "%s name cannot be empty", kind)
	}

	if len(label) > 128 {
		return New(ErrCodeInvalidLabel, "%s name too long (max 128 characters)", kind)
	}

	// Check for control characters and null bytes
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "%s name contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateScenarioFilename validates a scenario filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateScenarioFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidScenario, "scenario filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidScenario, "scenario filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidScenario, "scenario filename cannot be a hidden file")
	}

	return nil
}
