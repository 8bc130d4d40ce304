package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/pershin-daniil/followups/pkg/metrics"
	"github.com/pershin-daniil/followups/pkg/models"
)

var ErrBookingInProgress = errors.New("auto-booking already in progress")

// MeetingContext describes the meeting a follow-up is booked for.
type MeetingContext struct {
	MeetingID     string
	Organizer     string
	AutoScheduled bool
}

// ScheduleMeeting creates the calendar event for a suggestion and then saves the
// meeting record. When the save fails the event is left in the calendar: the
// result reports the failure together with the orphaned event id.
func (s *Scheduler) ScheduleMeeting(ctx context.Context, access models.CalendarAccess, suggestion models.SchedulingSuggestion, original MeetingContext) (models.BookingResult, error) {
	log := s.log.WithField("meeting_id", original.MeetingID)
	start := suggestion.SuggestedTime
	end := suggestion.EndTime()

	created, err := s.calendar.CreateEvent(ctx, access, models.EventRequest{
		Summary:     suggestion.Title,
		Description: suggestion.Description,
		Start:       start,
		End:         end,
		TimeZone:    s.cfg.Location.String(),
		Attendees:   suggestion.Participants,
	})
	if err != nil {
		metrics.Bookings.WithLabelValues("calendar_error").Inc()
		metrics.CalendarErrCount.WithLabelValues("insert").Inc()
		err = fmt.Errorf("%w: %w", ErrCalendarCreate, err)
		return models.BookingResult{Success: false, Error: err.Error()}, err
	}

	organizer := access.Owner
	if organizer == "" {
		organizer = original.Organizer
	}
	var source *string
	if original.MeetingID != "" {
		id := original.MeetingID
		source = &id
	}
	meeting, err := s.meetings.CreateMeeting(ctx, models.Meeting{
		Title:           suggestion.Title,
		Description:     suggestion.Description,
		StartTime:       start,
		EndTime:         end,
		CalendarEventID: created.ID,
		MeetingLink:     created.MeetLink,
		Organizer:       organizer,
		Attendees:       suggestion.Participants,
		Status:          models.MeetingStatusScheduled,
		AutoScheduled:   original.AutoScheduled,
		SourceMeetingID: source,
	})
	if err != nil {
		metrics.Bookings.WithLabelValues("persist_error").Inc()
		metrics.OrphanedEvents.Inc()
		log.WithField("event_id", created.ID).Warnf("calendar event left without meeting record: %v", err)
		err = fmt.Errorf("%w: %w", ErrMeetingNotPersisted, err)
		return models.BookingResult{Success: false, CalendarEventID: created.ID, Error: err.Error()}, err
	}

	metrics.Bookings.WithLabelValues("success").Inc()
	log.WithField("event_id", created.ID).Infof("booked %q at %s", suggestion.Title, start)
	return models.BookingResult{
		Success:         true,
		MeetingID:       meeting.ID,
		CalendarEventID: created.ID,
	}, nil
}

// ProcessSuggestions generates suggestions and, with autoSchedule, books the
// high-priority ones above the confidence threshold, at most MaxAutoBookings of
// them, one after another. A failed booking does not stop the others.
func (s *Scheduler) ProcessSuggestions(ctx context.Context, access models.CalendarAccess, meetingID string, rules []models.SchedulingRule, autoSchedule bool) models.ProcessResult {
	original := s.originalMeeting(ctx, meetingID)
	result := models.ProcessResult{
		Suggestions:       s.suggest(ctx, access, meetingID, rules, original),
		ScheduledMeetings: []models.BookingResult{},
		Errors:            []string{},
	}
	if !autoSchedule {
		return result
	}
	candidates := s.AutoBookable(result.Suggestions)
	if len(candidates) == 0 {
		return result
	}

	log := s.log.WithField("meeting_id", meetingID)
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, meetingID)
		switch {
		case errors.Is(err, ErrBookingInProgress):
			log.Infof("skipping auto-booking: %v", err)
			result.Errors = append(result.Errors, ErrBookingInProgress.Error())
			return result
		case err != nil:
			log.Warnf("err acquiring booking lock, booking without it: %v", err)
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					log.Warnf("err releasing booking lock: %v", err)
				}
			}()
		}
	}

	mc := MeetingContext{MeetingID: meetingID, Organizer: original.Organizer, AutoScheduled: true}
	for _, suggestion := range candidates {
		booking, err := s.ScheduleMeeting(ctx, access, suggestion, mc)
		if err != nil {
			log.Warnf("err auto-booking %q: %v", suggestion.Title, err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to schedule %q: %s", suggestion.Title, booking.Error))
			continue
		}
		result.ScheduledMeetings = append(result.ScheduledMeetings, booking)
	}
	return result
}

// AutoBookable returns the first MaxAutoBookings high-priority suggestions whose
// confidence exceeds the auto-book threshold.
func (s *Scheduler) AutoBookable(suggestions []models.SchedulingSuggestion) []models.SchedulingSuggestion {
	result := make([]models.SchedulingSuggestion, 0, s.cfg.MaxAutoBookings)
	for _, suggestion := range suggestions {
		if len(result) >= s.cfg.MaxAutoBookings {
			break
		}
		if suggestion.Confidence > s.cfg.AutoBookConfidence && suggestion.Priority == models.PriorityHigh {
			result = append(result, suggestion)
		}
	}
	return result
}
