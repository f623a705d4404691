package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validation messages shown next to each field.
const (
	MsgNameRequired       = "Name is required"
	MsgPhoneRequired      = "Phone number is required"
	MsgPhoneInvalid       = "Phone number must be 10-15 digits"
	MsgEmailRequired      = "Email is required"
	MsgEmailInvalid       = "Please enter a valid email address"
	MsgCollegeRequired    = "College is required"
	MsgNationalIDRequired = "National ID is required"
	MsgInvalidOption      = "Please select a valid option"
)

// Validate returns the error message for a single field value, or "" when
// the value is acceptable.
func Validate(field model.Field, raw string) string {
	blank := strings.TrimSpace(raw) == ""
	switch field {
	case model.FieldName:
		if blank {
			return MsgNameRequired
		}
	case model.FieldPhone:
		if blank {
			return MsgPhoneRequired
		}
		if !phonePattern.MatchString(raw) {
			return MsgPhoneInvalid
		}
	case model.FieldEmail:
		if blank {
			return MsgEmailRequired
		}
		// \s in the pattern is ASCII only.
		if strings.IndexFunc(raw, unicode.IsSpace) >= 0 || !emailPattern.MatchString(raw) {
			return MsgEmailInvalid
		}
	case model.FieldCollege:
		if blank {
			return MsgCollegeRequired
		}
	case model.FieldNationalID:
		if blank {
			return MsgNationalIDRequired
		}
	case model.FieldGender:
		if !isOption(model.GenderOptions, raw) {
			return MsgInvalidOption
		}
	case model.FieldStatus:
		if !isOption(model.StatusOptions, raw) {
			return MsgInvalidOption
		}
	}
	return ""
}

// ValidateForm revalidates every field of the form and returns only the
// fields that failed.
func ValidateForm(f model.RegistrationForm) model.FieldErrors {
	errs := model.FieldErrors{}
	for _, field := range model.Fields {
		if msg := Validate(field, f.Get(field)); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func isOption(options []model.Option, v string) bool {
	for _, o := range options {
		if o.Value == v {
			return true
		}
	}
	return false
}
