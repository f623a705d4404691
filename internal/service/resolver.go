package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/repository"
)

// EventLister is the read side of the backend used by the Resolver.
type EventLister interface {
	ListByOrganization(ctx context.Context, organization string) ([]model.Event, error)
}

// Outcome classifies the result of resolving an event.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeOrganizationDisabled
	OutcomeEventDisabled
	OutcomeAvailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not-found"
	case OutcomeOrganizationDisabled:
		return "org-disabled"
	case OutcomeEventDisabled:
		return "event-disabled"
	case OutcomeAvailable:
		return "available"
	default:
		return "unknown"
	}
}

// Resolution is the result of one lookup. Event is nil when nothing matched
// or the lookup was refused.
type Resolution struct {
	Outcome Outcome
	Event   *model.Event
}

// Resolver finds the event a registration page is addressed to.
type Resolver struct {
	events EventLister
	log    *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(events EventLister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{events: events, log: logger}
}

// Resolve issues a single lookup scoped to the organization and picks the
// event whose identifier matches eventID, ignoring case and surrounding
// whitespace.
func (r *Resolver) Resolve(ctx context.Context, organization, eventID string) Resolution {
	events, err := r.events.ListByOrganization(ctx, organization)
	if err != nil {
		if errors.Is(err, repository.ErrAccessDenied) {
			r.log.InfoContext(ctx, "organization disabled", "organization", organization)
			return Resolution{Outcome: OutcomeOrganizationDisabled}
		}
		r.log.WarnContext(ctx, "event lookup failed",
			"organization", organization, "event", eventID, "error", err)
		return Resolution{Outcome: OutcomeNotFound}
	}

	want := strings.TrimSpace(eventID)
	for i := range events {
		ev := events[i]
		if !strings.EqualFold(strings.TrimSpace(ev.ID), want) {
			continue
		}
		switch {
		case ev.OrganizationDisabled():
			return Resolution{Outcome: OutcomeOrganizationDisabled, Event: &ev}
		case ev.Disabled():
			return Resolution{Outcome: OutcomeEventDisabled, Event: &ev}
		default:
			return Resolution{Outcome: OutcomeAvailable, Event: &ev}
		}
	}

	r.log.InfoContext(ctx, "event not found",
		"organization", organization, "event", eventID, "candidates", len(events))
	return Resolution{Outcome: OutcomeNotFound}
}
