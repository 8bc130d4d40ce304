package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/pershin-daniil/followups/pkg/pgstore"
	"github.com/pershin-daniil/followups/pkg/scheduler"
	"github.com/pershin-daniil/followups/pkg/service"
)

type App interface {
	Rules() []models.SchedulingRule
	Suggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule) []models.SchedulingSuggestion
	Schedule(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, autoSchedule bool) models.ProcessResult
	Book(ctx context.Context, access models.CalendarAccess, meetingID string, suggestion models.SchedulingSuggestion) (models.BookingResult, error)
	Meeting(ctx context.Context, id string) (models.Meeting, error)
	ActionItems(ctx context.Context, meetingID string) ([]models.ActionItem, error)
	CreateActionItem(ctx context.Context, meetingID string, item models.ActionItem) (models.ActionItem, error)
	UpdateActionItemStatus(ctx context.Context, id string, status models.ActionItemStatus) (models.ActionItem, error)
}

var ErrNoAccessToken = errors.New("accessToken is required")

type calendarRequest struct {
	AccessToken string                  `json:"accessToken"`
	CalendarID  string                  `json:"calendarId,omitempty"`
	Rules       []models.SchedulingRule `json:"rules,omitempty"`
}

type scheduleRequest struct {
	calendarRequest
	AutoSchedule bool `json:"autoSchedule"`
}

type bookRequest struct {
	AccessToken string                      `json:"accessToken"`
	CalendarID  string                      `json:"calendarId,omitempty"`
	Suggestion  models.SchedulingSuggestion `json:"suggestion"`
}

type statusRequest struct {
	Status models.ActionItemStatus `json:"status"`
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_, err := fmt.Fprintf(w, "%s\n", s.version)
	if err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}

func (s *Server) rulesHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeResponse(w, http.StatusOK, s.app.Rules())
}

// access builds the caller's calendar access. The authenticated email becomes the owner.
func (s *Server) access(ctx context.Context, token, calendarID string) models.CalendarAccess {
	access := models.CalendarAccess{AccessToken: token, CalendarID: calendarID}
	if claims := s.getClaims(ctx); claims != nil {
		access.Owner = claims.Email
	}
	return access
}

func (s *Server) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if req.AccessToken == "" {
		s.writeResponse(w, http.StatusBadRequest, ErrNoAccessToken)
		return
	}
	access := s.access(ctx, req.AccessToken, req.CalendarID)
	s.writeResponse(w, http.StatusOK, s.app.Suggestions(ctx, access, chi.URLParam(r, "id"), req.Rules))
}

func (s *Server) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if req.AccessToken == "" {
		s.writeResponse(w, http.StatusBadRequest, ErrNoAccessToken)
		return
	}
	access := s.access(ctx, req.AccessToken, req.CalendarID)
	s.writeResponse(w, http.StatusOK, s.app.Schedule(ctx, access, chi.URLParam(r, "id"), req.Rules, req.AutoSchedule))
}

func (s *Server) bookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if req.AccessToken == "" {
		s.writeResponse(w, http.StatusBadRequest, ErrNoAccessToken)
		return
	}
	access := s.access(ctx, req.AccessToken, req.CalendarID)
	booking, err := s.app.Book(ctx, access, chi.URLParam(r, "id"), req.Suggestion)
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case errors.Is(err, scheduler.ErrCalendarCreate):
		s.log.Warnf("err during booking: %v", err)
		s.writeResponse(w, http.StatusBadGateway, booking)
		return
	case errors.Is(err, scheduler.ErrMeetingNotPersisted):
		s.log.Warnf("err during booking: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, booking)
		return
	case err != nil:
		s.log.Warnf("err during booking: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, booking)
}

func (s *Server) getMeetingHandler(w http.ResponseWriter, r *http.Request) {
	meeting, err := s.app.Meeting(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during getting meeting: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, meeting)
}

func (s *Server) getActionItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.ActionItems(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during getting action items: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, items)
}

func (s *Server) createActionItemHandler(w http.ResponseWriter, r *http.Request) {
	var item models.ActionItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	created, err := s.app.CreateActionItem(r.Context(), chi.URLParam(r, "id"), item)
	switch {
	case errors.Is(err, service.ErrEmptyTask), errors.Is(err, service.ErrInvalidPriority), errors.Is(err, service.ErrInvalidStatus):
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during creating action item: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) updateActionItemHandler(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateActionItemStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, pgstore.ErrActionItemNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during updating action item: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if x, ok := data.(error); ok {
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: x.Error()}); err != nil {
			s.log.Warnf("err during encoding error: %v", err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnf("err during encoding response: %v", err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
