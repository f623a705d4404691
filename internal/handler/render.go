package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/service"
)

// pageView is the template input for every phase.
type pageView struct {
	Phase       string
	Blocking    bool
	Message     string
	Banner      string
	Success     string
	Event       *model.Event
	Values      map[string]string
	Errors      map[string]string
	Disabled    bool
	Token       string
	ActionURL   string
	BackURL     string
	ValidateURL string

	GenderOptions []model.Option
	StatusOptions []model.Option
}

func (h *RegistrationHandler) backURL(organization, eventID string) string {
	return h.eventBase + "/" + url.PathEscape(organization) + "/" + url.PathEscape(eventID)
}

func newPageView(state service.State) pageView {
	v := pageView{
		Phase:         string(state.Phase()),
		Blocking:      state.Phase().Blocking(),
		Values:        map[string]string{},
		Errors:        map[string]string{},
		GenderOptions: model.GenderOptions,
		StatusOptions: model.StatusOptions,
	}

	fill := func(f model.RegistrationForm) {
		for _, field := range model.Fields {
			v.Values[string(field)] = f.Get(field)
		}
	}

	switch s := state.(type) {
	case service.FetchError:
		v.Message = s.Message
	case service.OrganizationDisabled:
		v.Message = s.Message
		v.Event = s.Event
	case service.EventDisabled:
		v.Message = s.Message
		v.Event = &s.Event
	case service.Editing:
		v.Event = &s.Event
		v.Banner = s.Banner
		fill(s.Form)
		for field, msg := range s.Errors {
			if msg != "" {
				v.Errors[string(field)] = msg
			}
		}
	case service.Submitting:
		v.Event = &s.Event
		v.Disabled = true
		fill(s.Form)
	case service.Success:
		v.Event = &s.Event
		v.Success = s.Message
		v.Disabled = true
		fill(s.Form)
	}
	return v
}

// statusFor maps the rendered state to an HTTP status.
func statusFor(state service.State, banner string) int {
	switch s := state.(type) {
	case service.FetchError:
		return http.StatusNotFound
	case service.OrganizationDisabled, service.EventDisabled:
		return http.StatusForbidden
	case service.Editing:
		if banner == MsgSubmissionInProgress {
			return http.StatusConflict
		}
		if s.Banner != "" || len(s.Errors) > 0 {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusOK
}

// render writes the page for a state. A non-empty banner overrides the one
// carried by the state.
func (h *RegistrationHandler) render(w http.ResponseWriter, r *http.Request, ctrl *service.Controller, state service.State, token, banner string) {
	v := newPageView(state)
	if banner != "" {
		v.Banner = banner
	}
	v.Token = token
	v.ActionURL = r.URL.EscapedPath()
	v.BackURL = h.backURL(ctrl.Organization(), ctrl.EventID())
	v.ValidateURL = "/api/validate"

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "register.html", v); err != nil {
		h.log.ErrorContext(r.Context(), "render registration page", "phase", v.Phase, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusFor(state, banner))
	_, _ = buf.WriteTo(w)
}
