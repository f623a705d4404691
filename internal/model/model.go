// Package model defines the core domain types for the event registration form.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatusDisabled is the value the backend uses for an administratively
// closed event or organization.
const StatusDisabled = "disabled"

// Event is a read-only snapshot of a registrable event as returned by the
// event-listing endpoint.
type Event struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Image         string            `json:"image,omitempty"`
	Description   string            `json:"description"`
	Date          string            `json:"date"`
	Registrations RegistrationCount `json:"registrations"`
	Status        string            `json:"status,omitempty"`
	CompanyStatus string            `json:"companyStatus,omitempty"`
}

// Disabled reports whether registration for the event itself is closed.
func (e *Event) Disabled() bool {
	return e.Status == StatusDisabled
}

// OrganizationDisabled reports whether the owning organization is closed.
func (e *Event) OrganizationDisabled() bool {
	return e.CompanyStatus == StatusDisabled
}

// RegistrationCount is the number of registrations already recorded for an
// event. The backend sends either a plain number or the list of
// registrations itself; both decode to a count.
type RegistrationCount int

// UnmarshalJSON implements json.Unmarshaler.
func (c *RegistrationCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode registrations list: %w", err)
		}
		*c = RegistrationCount(len(items))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode registrations count: %w", err)
	}
	*c = RegistrationCount(n)
	return nil
}

// Field names a form input. The values double as the JSON keys of the
// submission payload.
type Field string

const (
	FieldName       Field = "name"
	FieldPhone      Field = "phone"
	FieldEmail      Field = "email"
	FieldGender     Field = "gender"
	FieldCollege    Field = "college"
	FieldStatus     Field = "status"
	FieldNationalID Field = "nationalId"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldName, FieldPhone, FieldEmail, FieldGender, FieldCollege, FieldStatus, FieldNationalID,
}

// ParseField maps a raw input name to a Field.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Gender options offered by the form.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Attendee status options offered by the form.
const (
	StatusStudent  = "student"
	StatusGraduate = "graduate"
)

// Option is a single choice of a constrained field.
type Option struct {
	Value string
	Label string
}

// GenderOptions and StatusOptions are the only accepted values of the two
// choice fields; the first entry of each is the default.
var (
	GenderOptions = []Option{{GenderMale, "Male"}, {GenderFemale, "Female"}}
	StatusOptions = []Option{{StatusStudent, "Student"}, {StatusGraduate, "Graduate"}}
)

// RegistrationForm holds the attendee's input while the page is open.
type RegistrationForm struct {
	Name       string
	Phone      string
	Email      string
	Gender     string
	College    string
	Status     string
	NationalID string
}

// NewRegistrationForm returns a form with empty defaults.
func NewRegistrationForm() RegistrationForm {
	return RegistrationForm{
		Gender: GenderOptions[0].Value,
		Status: StatusOptions[0].Value,
	}
}

// Reset restores the empty defaults.
func (f *RegistrationForm) Reset() {
	*f = NewRegistrationForm()
}

// Get returns the current value of a field.
func (f *RegistrationForm) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldPhone:
		return f.Phone
	case FieldEmail:
		return f.Email
	case FieldGender:
		return f.Gender
	case FieldCollege:
		return f.College
	case FieldStatus:
		return f.Status
	case FieldNationalID:
		return f.NationalID
	}
	return ""
}

// Set stores a raw value for a field. Unknown fields are ignored.
func (f *RegistrationForm) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldPhone:
		f.Phone = value
	case FieldEmail:
		f.Email = value
	case FieldGender:
		f.Gender = value
	case FieldCollege:
		f.College = value
	case FieldStatus:
		f.Status = value
	case FieldNationalID:
		f.NationalID = value
	}
}

// FieldErrors maps a field to its current validation message. A missing or
// empty entry means the field is valid.
type FieldErrors map[Field]string

// Get returns the message for a field, or "".
func (e FieldErrors) Get(field Field) string {
	return e[field]
}

// HasErrors reports whether any field carries a message.
func (e FieldErrors) HasErrors() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// RegistrationRequest is the payload sent to the registration-submission
// endpoint.
type RegistrationRequest struct {
	CompanyName string `json:"companyName"`
	EventName   string `json:"eventName"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	College     string `json:"college"`
	Status      string `json:"status"`
	NationalID  string `json:"nationalId"`
}

// NewRegistrationRequest builds the payload for a form bound to an event.
func NewRegistrationRequest(organization, eventID string, f RegistrationForm) RegistrationRequest {
	return RegistrationRequest{
		CompanyName: organization,
		EventName:   eventID,
		Name:        f.Name,
		Phone:       f.Phone,
		Email:       f.Email,
		Gender:      f.Gender,
		College:     f.College,
		Status:      f.Status,
		NationalID:  f.NationalID,
	}
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidateRequest is the payload of the per-keystroke validation endpoint.
type ValidateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ValidateResponse carries the validation message for one field; an empty
// Error means the value is valid.
type ValidateResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}
