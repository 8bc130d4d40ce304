package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var errUpstream = errors.New("upstream unavailable")

type fakeCalendar struct {
	events      []models.Event
	eventsErr   error
	eventsCalls int
	createErrs  map[int]error
	created     []models.EventRequest
	createCalls int
}

func (c *fakeCalendar) Events(_ context.Context, _ models.CalendarAccess, start, end time.Time) ([]models.Event, error) {
	c.eventsCalls++
	if c.eventsErr != nil {
		return nil, c.eventsErr
	}
	return c.events, nil
}

func (c *fakeCalendar) CreateEvent(_ context.Context, _ models.CalendarAccess, req models.EventRequest) (models.CreatedEvent, error) {
	c.createCalls++
	if err := c.createErrs[c.createCalls]; err != nil {
		return models.CreatedEvent{}, err
	}
	c.created = append(c.created, req)
	return models.CreatedEvent{ID: fmt.Sprintf("evt-%d", c.createCalls), MeetLink: "https://meet.example/abc"}, nil
}

type fakeStore struct {
	items      []models.ActionItem
	itemsErr   error
	original   models.Meeting
	getErr     error
	createErr  error
	meetings   []models.Meeting
	panicItems bool
}

func (s *fakeStore) GetActionItemsForMeeting(_ context.Context, _ string) ([]models.ActionItem, error) {
	if s.panicItems {
		panic("corrupt action item")
	}
	return s.items, s.itemsErr
}

func (s *fakeStore) GetMeeting(_ context.Context, id string) (models.Meeting, error) {
	if s.getErr != nil {
		return models.Meeting{}, s.getErr
	}
	return s.original, nil
}

func (s *fakeStore) CreateMeeting(_ context.Context, meeting models.Meeting) (models.Meeting, error) {
	if s.createErr != nil {
		return models.Meeting{}, s.createErr
	}
	meeting.ID = fmt.Sprintf("mtg-%d", len(s.meetings)+1)
	s.meetings = append(s.meetings, meeting)
	return meeting, nil
}

type fakeLocker struct {
	err      error
	acquired []string
	released int
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

// monday is 2026-10-19, a Monday.
var monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func newTestScheduler(cal *fakeCalendar, store *fakeStore, opts ...Option) *Scheduler {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithClock(func() time.Time { return monday.Add(8 * time.Hour) })}, opts...)
	return New(log, cal, store, store, opts...)
}

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
