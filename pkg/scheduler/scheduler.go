// Package scheduler proposes and books follow-up meetings for the action items
// of a past meeting.
//
// A scheduling pass runs every enabled rule on its own: the rule's trigger picks
// the relevant action items, the calendar is scanned once for free slots in the
// rule's working hours, and the best slot becomes a scored suggestion.
// Suggestions are best effort: upstream failures shrink the result, they are
// never returned to the caller.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pershin-daniil/followups/pkg/metrics"
	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrCalendarCreate      = errors.New("calendar event not created")
	ErrMeetingNotPersisted = errors.New("calendar event created but meeting record not saved")
	ErrInvalidWorkingHours = errors.New("invalid working hours")
)

type Calendar interface {
	Events(ctx context.Context, access models.CalendarAccess, start, end time.Time) ([]models.Event, error)
	CreateEvent(ctx context.Context, access models.CalendarAccess, req models.EventRequest) (models.CreatedEvent, error)
}

type ActionItemStore interface {
	GetActionItemsForMeeting(ctx context.Context, meetingID string) ([]models.ActionItem, error)
}

type MeetingStore interface {
	CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	GetMeeting(ctx context.Context, id string) (models.Meeting, error)
}

// Locker serialises auto-booking per source meeting. The returned func releases the lock.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(ctx context.Context) error, error)
}

type Config struct {
	Location           *time.Location
	SlotStep           time.Duration
	LookaheadDays      int
	AutoBookConfidence float64
	MaxAutoBookings    int
}

func DefaultConfig() Config {
	return Config{
		Location:           time.UTC,
		SlotStep:           30 * time.Minute,
		LookaheadDays:      14,
		AutoBookConfidence: 0.8,
		MaxAutoBookings:    2,
	}
}

type Option func(*Scheduler)

func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		if cfg.Location == nil {
			cfg.Location = time.UTC
		}
		if cfg.SlotStep <= 0 {
			cfg.SlotStep = 30 * time.Minute
		}
		if cfg.LookaheadDays <= 0 {
			cfg.LookaheadDays = 14
		}
		s.cfg = cfg
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func WithCategoryMatcher(m CategoryMatcher) Option {
	return func(s *Scheduler) {
		s.matcher = m
	}
}

func WithLocker(l Locker) Option {
	return func(s *Scheduler) {
		s.locker = l
	}
}

type Scheduler struct {
	log         *logrus.Entry
	calendar    Calendar
	actionItems ActionItemStore
	meetings    MeetingStore
	matcher     CategoryMatcher
	locker      Locker
	cfg         Config
	now         func() time.Time
}

func New(log *logrus.Logger, calendar Calendar, actionItems ActionItemStore, meetings MeetingStore, opts ...Option) *Scheduler {
	s := Scheduler{
		log:         log.WithField("component", "scheduler"),
		calendar:    calendar,
		actionItems: actionItems,
		meetings:    meetings,
		matcher:     DefaultKeywordMatcher(),
		cfg:         DefaultConfig(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// GenerateSuggestions runs one scheduling pass over the enabled rules and returns
// the suggestions ordered by priority, then confidence. Any failure yields an
// empty list.
func (s *Scheduler) GenerateSuggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule) []models.SchedulingSuggestion {
	original := s.originalMeeting(ctx, meetingID)
	return s.suggest(ctx, access, meetingID, rules, original)
}

func (s *Scheduler) suggest(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, original models.Meeting) (result []models.SchedulingSuggestion) {
	log := s.log.WithField("meeting_id", meetingID)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("scheduling pass panicked: %v", r)
			result = []models.SchedulingSuggestion{}
		}
	}()
	suggestions, err := s.generate(ctx, log, access, meetingID, rules, original)
	if err != nil {
		log.Errorf("err generating scheduling suggestions: %v", err)
		return []models.SchedulingSuggestion{}
	}
	metrics.SuggestionsGenerated.Add(float64(len(suggestions)))
	return suggestions
}

func (s *Scheduler) generate(ctx context.Context, log *logrus.Entry, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, original models.Meeting) ([]models.SchedulingSuggestion, error) {
	items, err := s.actionItems.GetActionItemsForMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("err getting action items for meeting %s: %w", meetingID, err)
	}
	pending := make([]models.ActionItem, 0, len(items))
	for _, item := range items {
		if item.Status != models.StatusCompleted {
			pending = append(pending, item)
		}
	}
	suggestions := make([]models.SchedulingSuggestion, 0, len(rules))
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		ruleLog := log.WithField("rule", rule.ID)
		matched := MatchActionItems(rule.Trigger, pending, s.matcher, s.now())
		if len(matched) == 0 {
			ruleLog.Debug("no action items matched")
			continue
		}
		windowStart := s.now().Add(time.Duration(rule.Scheduling.MinimumAdvanceNotice) * time.Hour)
		windowEnd := windowStart.AddDate(0, 0, s.cfg.LookaheadDays)
		slots := s.FindAvailableSlots(ctx, access, windowStart, windowEnd, rule.MeetingTemplate.Duration,
			rule.Scheduling.WorkingHours, rule.Scheduling.ExcludeWeekends)
		participants := ResolveParticipants(rule.Participants, original.Attendees)
		suggestion, ok := RankSuggestion(rule, matched, slots, participants, s.cfg.Location)
		if !ok {
			ruleLog.Debugf("no free slot for %d matched action items", len(matched))
			continue
		}
		ruleLog.Debugf("suggesting %s with confidence %.2f", suggestion.SuggestedTime.Format(time.RFC3339), suggestion.Confidence)
		suggestions = append(suggestions, suggestion)
	}
	SortSuggestions(suggestions)
	return suggestions, nil
}

// originalMeeting returns the zero meeting when the record cannot be read; the
// pass then proceeds without the original attendees.
func (s *Scheduler) originalMeeting(ctx context.Context, meetingID string) models.Meeting {
	if s.meetings == nil {
		return models.Meeting{ID: meetingID}
	}
	meeting, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		s.log.WithField("meeting_id", meetingID).Warnf("err getting original meeting: %v", err)
		return models.Meeting{ID: meetingID}
	}
	return meeting
}

// SortSuggestions orders by priority rank descending, then confidence descending.
// Equal elements keep their relative order.
func SortSuggestions(suggestions []models.SchedulingSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		pi, pj := suggestions[i].Priority.Rank(), suggestions[j].Priority.Rank()
		if pi != pj {
			return pi > pj
		}
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
}
