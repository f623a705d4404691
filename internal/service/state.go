package service

import "github.com/Shivanand-hulikatti/event-reg-form/internal/model"

// Phase tags the active State.
type Phase string

const (
	PhaseLoading       Phase = "loading"
	PhaseFetchError    Phase = "fetch-error"
	PhaseEventDisabled Phase = "event-disabled"
	PhaseOrgDisabled   Phase = "org-disabled"
	PhaseEditing       Phase = "editing"
	PhaseSubmitting    Phase = "submitting"
	PhaseSuccess       Phase = "success"
)

// Messages shown by the blocking views and the submission banner.
const (
	MsgNotAvailable    = "This event is not available."
	MsgOrgDisabled     = "Registration for this company is currently disabled."
	MsgEventDisabled   = "Registration for this event is currently closed."
	MsgSubmitFailed    = "Registration failed. Please try again."
	MsgSubmitSucceeded = "Registration successful!"
)

// State is one of the phases of a registration page. The concrete types
// below are the only implementations.
type State interface {
	Phase() Phase
	state()
}

// Loading is the initial phase while the event is being resolved.
type Loading struct{}

// FetchError means the event does not exist or could not be read.
type FetchError struct {
	Message string
}

// OrganizationDisabled means the owning organization is closed. Event is nil
// when the backend refused the lookup outright.
type OrganizationDisabled struct {
	Event   *model.Event
	Message string
}

// EventDisabled means the event exists but registration is closed.
type EventDisabled struct {
	Event   model.Event
	Message string
}

// Editing is the interactive form. Banner holds the last submission failure.
type Editing struct {
	Event  model.Event
	Form   model.RegistrationForm
	Errors model.FieldErrors
	Banner string
}

// Submitting is active while the registration write is in flight.
type Submitting struct {
	Event model.Event
	Form  model.RegistrationForm
}

// Success is terminal; Form holds the cleared defaults.
type Success struct {
	Event   model.Event
	Form    model.RegistrationForm
	Message string
}

func (Loading) Phase() Phase              { return PhaseLoading }
func (FetchError) Phase() Phase           { return PhaseFetchError }
func (OrganizationDisabled) Phase() Phase { return PhaseOrgDisabled }
func (EventDisabled) Phase() Phase        { return PhaseEventDisabled }
func (Editing) Phase() Phase              { return PhaseEditing }
func (Submitting) Phase() Phase           { return PhaseSubmitting }
func (Success) Phase() Phase              { return PhaseSuccess }

func (Loading) state()              {}
func (FetchError) state()           {}
func (OrganizationDisabled) state() {}
func (EventDisabled) state()        {}
func (Editing) state()              {}
func (Submitting) state()           {}
func (Success) state()              {}

// Blocking reports whether a phase replaces the form with a dedicated view.
func (p Phase) Blocking() bool {
	return p == PhaseFetchError || p == PhaseOrgDisabled || p == PhaseEventDisabled
}
