package service

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		field model.Field
		value string
		want  string
	}{
		{model.FieldName, "Ada Lovelace", ""},
		{model.FieldName, "   ", MsgNameRequired},
		{model.FieldPhone, "", MsgPhoneRequired},
		{model.FieldPhone, "1234567890", ""},
		{model.FieldPhone, "123456789012345", ""},
		{model.FieldPhone, "123456789", MsgPhoneInvalid},
		{model.FieldPhone, "1234567890123456", MsgPhoneInvalid},
		{model.FieldPhone, "+201234567890", MsgPhoneInvalid},
		{model.FieldPhone, " 1234567890", MsgPhoneInvalid},
		{model.FieldEmail, "", MsgEmailRequired},
		{model.FieldEmail, "a@b.co", ""},
		{model.FieldEmail, "a@b", MsgEmailInvalid},
		{model.FieldEmail, "a@@b.co", MsgEmailInvalid},
		{model.FieldEmail, "a b@c.co", MsgEmailInvalid},
		{model.FieldEmail, "@b.co", MsgEmailInvalid},
		{model.FieldEmail, "a\v@b.co", MsgEmailInvalid},
		{model.FieldEmail, "a\u00a0b@c.co", MsgEmailInvalid},
		{model.FieldEmail, "a@b\u2003.co", MsgEmailInvalid},
		{model.FieldCollege, "MIT", ""},
		{model.FieldCollege, "\t", MsgCollegeRequired},
		{model.FieldNationalID, "29912345678901", ""},
		{model.FieldNationalID, "", MsgNationalIDRequired},
		{model.FieldGender, model.GenderFemale, ""},
		{model.FieldGender, "other", MsgInvalidOption},
		{model.FieldStatus, model.StatusGraduate, ""},
		{model.FieldStatus, "", MsgInvalidOption},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.field, tt.value))
		})
	}
}

func TestValidateFormCollectsEveryMessage(t *testing.T) {
	errs := ValidateForm(model.NewRegistrationForm())
	assert.Equal(t, model.FieldErrors{
		model.FieldName:       MsgNameRequired,
		model.FieldPhone:      MsgPhoneRequired,
		model.FieldEmail:      MsgEmailRequired,
		model.FieldCollege:    MsgCollegeRequired,
		model.FieldNationalID: MsgNationalIDRequired,
	}, errs)
}

func TestValidateFormClean(t *testing.T) {
	errs := ValidateForm(validForm())
	assert.False(t, errs.HasErrors())
	assert.Empty(t, errs)
}

func allASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// TestProperty_PhoneDigits checks phone acceptance against an independent
// oracle: 10 to 15 ASCII digits and nothing else.
func TestProperty_PhoneDigits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringOfN(rapid.RuneFrom([]rune("0123456789 a+-٣")), 0, 20, -1).Draw(t, "phone")
		want := len(s) >= 10 && len(s) <= 15 && allASCIIDigits(s)
		got := Validate(model.FieldPhone, s) == ""
		if got != want {
			t.Fatalf("Validate(phone, %q) valid=%v, want %v", s, got, want)
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[0-9]{10,15}`).Draw(t, "phone")
		if msg := Validate(model.FieldPhone, s); msg != "" {
			t.Fatalf("Validate(phone, %q) = %q, want valid", s, msg)
		}
	})
}

func emailOracle(s string) bool {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	parts := strings.Split(s, "@")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	domain := parts[1]
	for i := 1; i < len(domain)-1; i++ {
		if domain[i] == '.' {
			return true
		}
	}
	return false
}

// TestProperty_EmailShape checks email acceptance against a split-based
// oracle: one @, a non-empty local part, and a dot inside the domain.
func TestProperty_EmailShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringOfN(rapid.RuneFrom([]rune("ab1@. \t\v\u00a0\u2003")), 0, 12, -1).Draw(t, "email")
		want := emailOracle(s)
		got := Validate(model.FieldEmail, s) == ""
		if got != want {
			t.Fatalf("Validate(email, %q) valid=%v, want %v", s, got, want)
		}
	})
}
