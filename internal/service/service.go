// Package service implements field validation, event resolution and the
// submission state machine behind a registration page.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/repository"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// current phase.
var ErrInvalidTransition = errors.New("invalid state transition")

// EventResolver resolves the event a page is addressed to.
type EventResolver interface {
	Resolve(ctx context.Context, organization, eventID string) Resolution
}

// Submitter is the write side of the backend.
type Submitter interface {
	Create(ctx context.Context, req model.RegistrationRequest) error
}

// Observer is notified of every phase change.
type Observer func(from, to Phase)

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// WithLogger sets the logger used for transition and failure logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller drives one registration page from load to success. It is not
// safe for concurrent use; a page owns exactly one.
type Controller struct {
	resolver     EventResolver
	submitter    Submitter
	organization string
	eventID      string
	state        State
	observers    []Observer
	log          *slog.Logger
}

// NewController returns a Controller in the Loading phase.
func NewController(resolver EventResolver, submitter Submitter, organization, eventID string, opts ...Option) *Controller {
	c := &Controller{
		resolver:     resolver,
		submitter:    submitter,
		organization: organization,
		eventID:      eventID,
		state:        Loading{},
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the active state.
func (c *Controller) State() State {
	return c.state
}

// Organization returns the organization identifier the page is bound to.
func (c *Controller) Organization() string { return c.organization }

// EventID returns the requested event identifier.
func (c *Controller) EventID() string { return c.eventID }

func (c *Controller) transition(next State) {
	from := c.state.Phase()
	c.state = next
	c.log.Debug("registration state changed",
		"organization", c.organization, "event", c.eventID,
		"from", string(from), "to", string(next.Phase()))
	for _, o := range c.observers {
		o(from, next.Phase())
	}
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, c.state.Phase())
}

// Load resolves the event. It is only valid while Loading.
func (c *Controller) Load(ctx context.Context) (State, error) {
	if _, ok := c.state.(Loading); !ok {
		return c.state, c.invalid("load")
	}

	res := c.resolver.Resolve(ctx, c.organization, c.eventID)
	switch res.Outcome {
	case OutcomeOrganizationDisabled:
		c.transition(OrganizationDisabled{Event: res.Event, Message: MsgOrgDisabled})
	case OutcomeEventDisabled:
		c.transition(EventDisabled{Event: *res.Event, Message: MsgEventDisabled})
	case OutcomeAvailable:
		c.transition(Editing{
			Event:  *res.Event,
			Form:   model.NewRegistrationForm(),
			Errors: model.FieldErrors{},
		})
	default:
		c.transition(FetchError{Message: MsgNotAvailable})
	}
	return c.state, nil
}

// Retarget rebinds the page to another event. The controller only returns to
// Loading when an identifier actually changed.
func (c *Controller) Retarget(organization, eventID string) bool {
	if strings.TrimSpace(organization) == strings.TrimSpace(c.organization) &&
		strings.TrimSpace(eventID) == strings.TrimSpace(c.eventID) {
		return false
	}
	c.organization = organization
	c.eventID = eventID
	c.transition(Loading{})
	return true
}

// Change stores one field value and revalidates only that field.
func (c *Controller) Change(field model.Field, value string) (State, error) {
	ed, ok := c.state.(Editing)
	if !ok {
		return c.state, c.invalid("change " + string(field))
	}

	ed.Form.Set(field, value)
	ed.Errors = maps.Clone(ed.Errors)
	if ed.Errors == nil {
		ed.Errors = model.FieldErrors{}
	}
	if msg := Validate(field, value); msg != "" {
		ed.Errors[field] = msg
	} else {
		delete(ed.Errors, field)
	}
	ed.Banner = ""
	c.transition(ed)
	return c.state, nil
}

// Submit revalidates every field and, when the form is clean, writes the
// registration. A rejected form stays in Editing without any network call.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	ed, ok := c.state.(Editing)
	if !ok {
		return c.state, c.invalid("submit")
	}

	if errs := ValidateForm(ed.Form); errs.HasErrors() {
		ed.Errors = errs
		ed.Banner = ""
		c.transition(ed)
		return c.state, nil
	}

	c.transition(Submitting{Event: ed.Event, Form: ed.Form})

	req := model.NewRegistrationRequest(c.organization, ed.Event.ID, ed.Form)
	if err := c.submitter.Create(ctx, req); err != nil {
		c.log.WarnContext(ctx, "registration rejected",
			"organization", c.organization, "event", ed.Event.ID, "error", err)
		c.transition(Editing{
			Event:  ed.Event,
			Form:   ed.Form,
			Errors: model.FieldErrors{},
			Banner: failureMessage(err),
		})
		return c.state, nil
	}

	c.log.InfoContext(ctx, "registration submitted",
		"organization", c.organization, "event", ed.Event.ID)
	c.transition(Success{
		Event:   ed.Event,
		Form:    model.NewRegistrationForm(),
		Message: MsgSubmitSucceeded,
	})
	return c.state, nil
}

// failureMessage prefers the reason given by the backend.
func failureMessage(err error) string {
	var remote *repository.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return MsgSubmitFailed
}
