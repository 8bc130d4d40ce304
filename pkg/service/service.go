package service

import (
	"context"
	"fmt"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/pershin-daniil/followups/pkg/scheduler"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type Store interface {
	GetActionItemsForMeeting(ctx context.Context, meetingID string) ([]models.ActionItem, error)
	CreateActionItem(ctx context.Context, item models.ActionItem) (models.ActionItem, error)
	UpdateActionItemStatus(ctx context.Context, id string, status models.ActionItemStatus) (models.ActionItem, error)
	GetMeeting(ctx context.Context, id string) (models.Meeting, error)
}

type Scheduler interface {
	GenerateSuggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule) []models.SchedulingSuggestion
	ProcessSuggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, autoSchedule bool) models.ProcessResult
	ScheduleMeeting(ctx context.Context, access models.CalendarAccess, suggestion models.SchedulingSuggestion, original scheduler.MeetingContext) (models.BookingResult, error)
}

var (
	ErrInvalidPriority = fmt.Errorf("invalid action item priority")
	ErrInvalidStatus   = fmt.Errorf("invalid action item status")
	ErrEmptyTask       = fmt.Errorf("action item task is empty")
)

type ScheduleService struct {
	log        *logrus.Entry
	store      Store
	scheduler  Scheduler
	notifier   Notifier
	calendarID string
}

func NewScheduleService(log *logrus.Logger, store Store, scheduler Scheduler, notifier Notifier, calendarID string) *ScheduleService {
	s := ScheduleService{
		log:        log.WithField("component", "service"),
		store:      store,
		scheduler:  scheduler,
		notifier:   notifier,
		calendarID: calendarID,
	}
	return &s
}

// Rules returns the rule set used when a request brings none.
func (s *ScheduleService) Rules() []models.SchedulingRule {
	return scheduler.DefaultRules()
}

func (s *ScheduleService) rules(rules []models.SchedulingRule) []models.SchedulingRule {
	if rules == nil {
		return s.Rules()
	}
	return rules
}

func (s *ScheduleService) access(access models.CalendarAccess) models.CalendarAccess {
	if access.CalendarID == "" {
		access.CalendarID = s.calendarID
	}
	return access
}

func (s *ScheduleService) Suggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule) []models.SchedulingSuggestion {
	return s.scheduler.GenerateSuggestions(ctx, s.access(access), meetingID, s.rules(rules))
}

// Schedule runs one pass and announces whatever was booked automatically.
func (s *ScheduleService) Schedule(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, autoSchedule bool) models.ProcessResult {
	result := s.scheduler.ProcessSuggestions(ctx, s.access(access), meetingID, s.rules(rules), autoSchedule)
	if n := len(result.ScheduledMeetings); n > 0 {
		msg := fmt.Sprintf("Booked %d follow-up meeting(s) for meeting %s", n, meetingID)
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.log.Errorf("err notifying about bookings: %v", err)
		}
	}
	return result
}

// Book confirms a single suggestion for an existing meeting.
func (s *ScheduleService) Book(ctx context.Context, access models.CalendarAccess, meetingID string, suggestion models.SchedulingSuggestion) (models.BookingResult, error) {
	original, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("err getting meeting: %w", err)
	}
	return s.scheduler.ScheduleMeeting(ctx, s.access(access), suggestion, scheduler.MeetingContext{
		MeetingID: original.ID,
		Organizer: original.Organizer,
	})
}

func (s *ScheduleService) Meeting(ctx context.Context, id string) (models.Meeting, error) {
	return s.store.GetMeeting(ctx, id)
}

func (s *ScheduleService) ActionItems(ctx context.Context, meetingID string) ([]models.ActionItem, error) {
	if _, err := s.store.GetMeeting(ctx, meetingID); err != nil {
		return nil, fmt.Errorf("err getting meeting: %w", err)
	}
	items, err := s.store.GetActionItemsForMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("err getting action items: %w", err)
	}
	return items, nil
}

func (s *ScheduleService) CreateActionItem(ctx context.Context, meetingID string, item models.ActionItem) (models.ActionItem, error) {
	if item.Task == "" {
		return models.ActionItem{}, ErrEmptyTask
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	if !item.Priority.Valid() {
		return models.ActionItem{}, fmt.Errorf("%w: %q", ErrInvalidPriority, item.Priority)
	}
	if item.Status == "" {
		item.Status = models.StatusPending
	}
	if !item.Status.Valid() {
		return models.ActionItem{}, fmt.Errorf("%w: %q", ErrInvalidStatus, item.Status)
	}
	item.MeetingID = meetingID
	created, err := s.store.CreateActionItem(ctx, item)
	if err != nil {
		return models.ActionItem{}, fmt.Errorf("err creating action item: %w", err)
	}
	return created, nil
}

func (s *ScheduleService) UpdateActionItemStatus(ctx context.Context, id string, status models.ActionItemStatus) (models.ActionItem, error) {
	if !status.Valid() {
		return models.ActionItem{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.store.UpdateActionItemStatus(ctx, id, status)
}
