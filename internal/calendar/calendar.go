package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pershin-daniil/followups/pkg/metrics"
	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	defaultCalendarID = "primary"
	maxResults        = 250
	failureThreshold  = 5
)

var ErrNoAccessToken = errors.New("calendar access token is empty")

// Calendar reads and writes Google Calendar on behalf of the caller whose access
// token comes with each request.
type Calendar struct {
	log      *logrus.Entry
	endpoint string
	loc      *time.Location
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[any]
}

type Option func(*Calendar)

// WithEndpoint points the client at another API root, e.g. a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Calendar) {
		c.endpoint = endpoint
	}
}

// WithLocation sets the zone all-day events are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func New(log *logrus.Logger, opts ...Option) *Calendar {
	c := Calendar{
		log:     log.WithField("component", "calendar"),
		loc:     time.UTC,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "google-calendar",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		// A rejected token belongs to one caller and says nothing about the API.
		IsSuccessful: func(err error) bool {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) {
				return apiErr.Code < http.StatusInternalServerError && apiErr.Code != http.StatusTooManyRequests
			}
			return err == nil || errors.Is(err, ErrNoAccessToken)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &c
}

func (c *Calendar) service(ctx context.Context, access models.CalendarAccess) (*calendar.Service, error) {
	if access.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: access.AccessToken, TokenType: "Bearer"})
	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   c.timeout,
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		}),
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("err creating calendar service: %w", err)
	}
	return srv, nil
}

func calendarID(access models.CalendarAccess) string {
	if access.CalendarID == "" {
		return defaultCalendarID
	}
	return access.CalendarID
}

func (c *Calendar) execute(method string, fn func() (any, error)) (any, error) {
	started := time.Now()
	result, err := c.breaker.Execute(fn)
	metrics.CalendarDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
	return result, err
}

// Events lists the events overlapping [start, end) in one paged request.
// Cancelled events are skipped.
func (c *Calendar) Events(ctx context.Context, access models.CalendarAccess, start, end time.Time) ([]models.Event, error) {
	result, err := c.execute("events", func() (any, error) {
		srv, err := c.service(ctx, access)
		if err != nil {
			return nil, err
		}
		events := make([]models.Event, 0)
		call := srv.Events.List(calendarID(access)).
			ShowDeleted(false).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			MaxResults(maxResults)
		err = call.Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				if item.Status == "cancelled" {
					continue
				}
				event, err := c.toEvent(item)
				if err != nil {
					c.log.Warnf("skipping event %s: %v", item.Id, err)
					continue
				}
				events = append(events, event)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return events, nil
	})
	if err != nil {
		return nil, fmt.Errorf("err listing calendar events: %w", err)
	}
	return result.([]models.Event), nil
}

func (c *Calendar) toEvent(item *calendar.Event) (models.Event, error) {
	if item.Start == nil || item.End == nil {
		return models.Event{}, fmt.Errorf("missing start or end")
	}
	start, allDay, err := c.parseEventTime(item.Start)
	if err != nil {
		return models.Event{}, err
	}
	end, _, err := c.parseEventTime(item.End)
	if err != nil {
		return models.Event{}, err
	}
	return models.Event{
		ID:      item.Id,
		Title:   item.Summary,
		Start:   start,
		End:     end,
		AllDay:  allDay,
		Status:  item.Status,
		Created: item.Created,
	}, nil
}

// parseEventTime handles timed events and all-day events, which only carry a date.
func (c *Calendar) parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		return parsed, false, err
	}
	if t.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, c.loc)
		return parsed, true, err
	}
	return time.Time{}, false, fmt.Errorf("event time has neither dateTime nor date")
}

// CreateEvent inserts the event with a Meet conference and invites the attendees.
func (c *Calendar) CreateEvent(ctx context.Context, access models.CalendarAccess, req models.EventRequest) (models.CreatedEvent, error) {
	result, err := c.execute("insert", func() (any, error) {
		srv, err := c.service(ctx, access)
		if err != nil {
			return nil, err
		}
		event := &calendar.Event{
			Summary:     req.Summary,
			Description: req.Description,
			Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: req.TimeZone},
			End:         &calendar.EventDateTime{DateTime: req.End.Format(time.RFC3339), TimeZone: req.TimeZone},
			ConferenceData: &calendar.ConferenceData{
				CreateRequest: &calendar.CreateConferenceRequest{
					RequestId:             uuid.NewString(),
					ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
				},
			},
		}
		for _, email := range req.Attendees {
			event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
		}
		return srv.Events.Insert(calendarID(access), event).
			ConferenceDataVersion(1).
			SendUpdates("all").
			Context(ctx).
			Do()
	})
	if err != nil {
		return models.CreatedEvent{}, fmt.Errorf("err creating calendar event: %w", err)
	}
	created := result.(*calendar.Event)
	c.log.WithField("event_id", created.Id).Debugf("created calendar event %q", created.Summary)
	return models.CreatedEvent{ID: created.Id, MeetLink: created.HangoutLink}, nil
}
