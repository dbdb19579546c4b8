package server

import (
	"net/http"

	"github.com/jrsteele09/cares-session/screening"
)

// ViewData is the payload every view hands to the front end. Rendering is
// the front end's concern.
type ViewData struct {
	View        string         `json:"view"`
	UserName    string         `json:"user_name,omitempty"`
	IsSuperuser bool           `json:"is_superuser,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// EntryViewHandler serves the unguarded entry points (login, unauthorized).
func (s *Server) EntryViewHandler(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ViewData{View: view})
	}
}

// guardedView builds ViewData from the session the guard admitted.
func guardedView(r *http.Request, view string) ViewData {
	data := ViewData{View: view}
	if sess, ok := SessionFromContext(r.Context()); ok && sess.User != nil {
		data.UserName = sess.User.DisplayName()
		data.IsSuperuser = sess.User.IsSuperuser
	}
	return data
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, guardedView(r, "dashboard"))
	}
}

func (s *Server) OnboardingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, guardedView(r, "onboarding"))
	}
}

func (s *Server) PartnerActivitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := guardedView(r, "partner_activities")
		if sess, ok := SessionFromContext(r.Context()); ok && sess.User != nil {
			view.Data = map[string]any{"is_private": sess.User.IsPrivate}
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) BeneficiaryHomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, guardedView(r, "beneficiary_home"))
	}
}

// AdminDashboardHandler renders the admin review dashboard
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, guardedView(r, "admin_dashboard"))
	}
}

// ScreeningProgressHandler maps a case status onto the progress stepper
// (GET /screening/progress?status=...)
func (s *Server) ScreeningProgressHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := screening.ParseStatus(r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		step, ok := status.Step()
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		view := guardedView(r, "screening_progress")
		view.Data = map[string]any{
			"status": status,
			"step":   step,
			"steps":  screening.Statuses(),
		}
		writeJSON(w, http.StatusOK, view)
	}
}
