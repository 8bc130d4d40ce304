package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

var access = models.CalendarAccess{AccessToken: "secret-token"}

func newTestCalendar(t *testing.T, handler http.HandlerFunc) (*Calendar, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	log, _ := test.NewNullLogger()
	return New(log, WithEndpoint(srv.URL+"/")), &calls
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestEvents(t *testing.T) {
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	c, calls := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "true", q.Get("singleEvents"))
		require.Equal(t, start.Format(time.RFC3339), q.Get("timeMin"))
		require.Equal(t, end.Format(time.RFC3339), q.Get("timeMax"))
		if q.Get("pageToken") == "" {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"nextPageToken": "p2",
				"items": []map[string]any{
					{"id": "1", "summary": "Standup", "status": "confirmed",
						"start": map[string]string{"dateTime": "2026-10-19T10:00:00Z"},
						"end":   map[string]string{"dateTime": "2026-10-19T10:30:00Z"}},
					{"id": "2", "summary": "Dropped", "status": "cancelled",
						"start": map[string]string{"dateTime": "2026-10-19T11:00:00Z"},
						"end":   map[string]string{"dateTime": "2026-10-19T12:00:00Z"}},
				},
			})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": "3", "summary": "Offsite", "status": "confirmed",
					"start": map[string]string{"date": "2026-10-21"},
					"end":   map[string]string{"date": "2026-10-22"}},
				{"id": "4", "summary": "Broken", "status": "confirmed",
					"start": map[string]string{}, "end": map[string]string{}},
			},
		})
	})

	events, err := c.Events(context.Background(), access, start, end)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(calls))
	require.Len(t, events, 2)
	require.Equal(t, "Standup", events[0].Title)
	require.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), events[0].Start.UTC())
	require.False(t, events[0].AllDay)
	require.Equal(t, "Offsite", events[1].Title)
	require.True(t, events[1].AllDay)
	require.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), events[1].Start)
	require.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), events[1].End)
}

func TestEventsCustomCalendar(t *testing.T) {
	c, _ := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/team@example.com/events", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{}})
	})
	events, err := c.Events(context.Background(), models.CalendarAccess{AccessToken: "secret-token", CalendarID: "team@example.com"}, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestCreateEvent(t *testing.T) {
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	c, _ := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		require.Equal(t, "all", r.URL.Query().Get("sendUpdates"))
		var body struct {
			Summary string `json:"summary"`
			Start   struct {
				DateTime string `json:"dateTime"`
				TimeZone string `json:"timeZone"`
			} `json:"start"`
			Attendees []struct {
				Email string `json:"email"`
			} `json:"attendees"`
			ConferenceData struct {
				CreateRequest struct {
					RequestID string `json:"requestId"`
				} `json:"createRequest"`
			} `json:"conferenceData"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Follow-up", body.Summary)
		require.Equal(t, "2026-10-20T09:00:00Z", body.Start.DateTime)
		require.Equal(t, "Europe/Moscow", body.Start.TimeZone)
		require.Len(t, body.Attendees, 2)
		require.NotEmpty(t, body.ConferenceData.CreateRequest.RequestID)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": "evt-1", "summary": body.Summary, "hangoutLink": "https://meet.google.com/abc-defg-hij",
		})
	})

	created, err := c.CreateEvent(context.Background(), access, models.EventRequest{
		Summary:   "Follow-up",
		Start:     start,
		End:       start.Add(30 * time.Minute),
		TimeZone:  "Europe/Moscow",
		Attendees: []string{"a@example.com", "b@example.com"},
	})
	require.NoError(t, err)
	require.Equal(t, models.CreatedEvent{ID: "evt-1", MeetLink: "https://meet.google.com/abc-defg-hij"}, created)
}

func TestCreateEventRejected(t *testing.T) {
	c, _ := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]any{"error": map[string]any{"code": 403, "message": "forbidden"}})
	})
	_, err := c.CreateEvent(context.Background(), access, models.EventRequest{Summary: "x", Start: time.Now(), End: time.Now().Add(time.Hour)})
	require.Error(t, err)
}

func TestMissingToken(t *testing.T) {
	c, calls := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := c.Events(context.Background(), models.CalendarAccess{}, time.Now(), time.Now().Add(time.Hour))
	require.ErrorIs(t, err, ErrNoAccessToken)
	require.Zero(t, atomic.LoadInt32(calls))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	c, calls := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusServiceUnavailable, map[string]any{"error": map[string]any{"code": 503, "message": "down"}})
	})
	ctx := context.Background()
	for i := 0; i < failureThreshold; i++ {
		_, err := c.Events(ctx, access, time.Now(), time.Now().Add(time.Hour))
		require.Error(t, err)
	}
	_, err := c.Events(ctx, access, time.Now(), time.Now().Add(time.Hour))
	require.True(t, errors.Is(err, gobreaker.ErrOpenState))
	require.EqualValues(t, failureThreshold, atomic.LoadInt32(calls))
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	c, calls := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "message": "invalid credentials"}})
	})
	ctx := context.Background()
	for i := 0; i < failureThreshold+2; i++ {
		_, err := c.Events(ctx, access, time.Now(), time.Now().Add(time.Hour))
		require.Error(t, err)
		require.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}
	require.EqualValues(t, failureThreshold+2, atomic.LoadInt32(calls))
}
