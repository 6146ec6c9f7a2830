package backup

import (
	"fmt"
	"unicode/utf8"
)

// MinPasswordLength is the minimum password length when encryption is
// requested.
const MinPasswordLength = 8

// Validation is the structured result of validating export options.
// Returned rather than thrown so callers can render field-level messages.
type Validation struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// ValidateExportOptions checks an export request before assembly.
//
// Rules: at least one section must be selected, and if encryption is
// requested the password must be at least MinPasswordLength characters.
// A password is not required (and not inspected) when encryption is off.
func ValidateExportOptions(opts ExportOptions) Validation {
	var errs []string

	if len(opts.Selected()) == 0 {
		errs = append(errs, "at least one backup section must be selected")
	}

	// The minimum counts characters, not bytes, so multibyte passwords
	// are measured the same way users count them.
	if opts.EncryptSensitive && utf8.RuneCountInString(opts.Password) < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("encryption password must be at least %d characters", MinPasswordLength))
	}

	return Validation{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
