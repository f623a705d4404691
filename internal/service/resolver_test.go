package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/repository"
)

type fakeLister struct {
	events []model.Event
	err    error
	calls  int
	orgs   []string
}

func (f *fakeLister) ListByOrganization(_ context.Context, organization string) ([]model.Event, error) {
	f.calls++
	f.orgs = append(f.orgs, organization)
	return f.events, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveMatchesIgnoringCaseAndWhitespace(t *testing.T) {
	lister := &fakeLister{events: []model.Event{
		{ID: "kickoff", Name: "Kickoff"},
		{ID: " launch-party ", Name: "Launch Party"},
	}}
	r := NewResolver(lister, quietLogger())

	res := r.Resolve(context.Background(), "Acme", "Launch-Party")

	assert.Equal(t, OutcomeAvailable, res.Outcome)
	require.NotNil(t, res.Event)
	assert.Equal(t, "Launch Party", res.Event.Name)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, []string{"Acme"}, lister.orgs)
}

func TestResolveOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		lister  *fakeLister
		want    Outcome
		wantEvt bool
	}{
		{
			name:   "access denied beats not found",
			lister: &fakeLister{err: fmt.Errorf("list events: %w", repository.ErrAccessDenied)},
			want:   OutcomeOrganizationDisabled,
		},
		{
			name:   "lookup failure",
			lister: &fakeLister{err: errors.New("connection refused")},
			want:   OutcomeNotFound,
		},
		{
			name:   "no match",
			lister: &fakeLister{events: []model.Event{{ID: "other"}}},
			want:   OutcomeNotFound,
		},
		{
			name:   "empty listing",
			lister: &fakeLister{},
			want:   OutcomeNotFound,
		},
		{
			name:    "event disabled",
			lister:  &fakeLister{events: []model.Event{{ID: "launch-party", Status: model.StatusDisabled}}},
			want:    OutcomeEventDisabled,
			wantEvt: true,
		},
		{
			name:    "organization flag",
			lister:  &fakeLister{events: []model.Event{{ID: "launch-party", CompanyStatus: model.StatusDisabled}}},
			want:    OutcomeOrganizationDisabled,
			wantEvt: true,
		},
		{
			name: "organization flag wins over event flag",
			lister: &fakeLister{events: []model.Event{{
				ID: "launch-party", Status: model.StatusDisabled, CompanyStatus: model.StatusDisabled,
			}}},
			want:    OutcomeOrganizationDisabled,
			wantEvt: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolver(tt.lister, quietLogger()).Resolve(context.Background(), "Acme", "launch-party")
			assert.Equal(t, tt.want, res.Outcome, "outcome %s", res.Outcome)
			assert.Equal(t, tt.wantEvt, res.Event != nil)
			assert.Equal(t, 1, tt.lister.calls)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "org-disabled", OutcomeOrganizationDisabled.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
