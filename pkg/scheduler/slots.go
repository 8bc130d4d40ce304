package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/pershin-daniil/followups/pkg/metrics"
	"github.com/pershin-daniil/followups/pkg/models"
)

type clock struct {
	hour   int
	minute int
}

func (c clock) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, day.Location())
}

func (c clock) minutes() int {
	return c.hour*60 + c.minute
}

func parseClock(value string) (clock, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return clock{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidWorkingHours, value)
	}
	return clock{hour: t.Hour(), minute: t.Minute()}, nil
}

func parseWorkingHours(hours models.WorkingHours) (clock, clock, error) {
	open, err := parseClock(hours.Start)
	if err != nil {
		return clock{}, clock{}, err
	}
	closing, err := parseClock(hours.End)
	if err != nil {
		return clock{}, clock{}, err
	}
	if open.minutes() >= closing.minutes() {
		return clock{}, clock{}, fmt.Errorf("%w: %s-%s", ErrInvalidWorkingHours, hours.Start, hours.End)
	}
	return open, closing, nil
}

// FindAvailableSlots returns the free slots of durationMinutes between start and
// end, inside working hours, in chronological order. Events are fetched once for
// the whole range. A failed fetch or invalid input yields an empty list.
func (s *Scheduler) FindAvailableSlots(
	ctx context.Context,
	access models.CalendarAccess,
	start, end time.Time,
	durationMinutes int,
	hours models.WorkingHours,
	excludeWeekends bool,
) []models.TimeSlot {
	open, closing, err := parseWorkingHours(hours)
	if err != nil {
		s.log.Warnf("err finding slots: %v", err)
		return []models.TimeSlot{}
	}
	if durationMinutes <= 0 || !start.Before(end) {
		s.log.Warnf("err finding slots: empty range %s-%s or duration %d", start, end, durationMinutes)
		return []models.TimeSlot{}
	}
	events, err := s.calendar.Events(ctx, access, start, end)
	if err != nil {
		metrics.CalendarErrCount.WithLabelValues("events").Inc()
		s.log.Warnf("err fetching calendar events: %v", err)
		return []models.TimeSlot{}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	candidates := generateSlots(start.In(s.cfg.Location), end.In(s.cfg.Location), duration, open, closing, excludeWeekends, s.cfg.SlotStep)
	available := make([]models.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		slot = markConflicts(slot, events)
		if slot.Available {
			available = append(available, slot)
		}
	}
	return available
}

// generateSlots walks the days of [start, end) in start's location. Slots begin
// every step from the opening time; the last one ends no later than closing.
// Slots outside [start, end) are dropped.
func generateSlots(start, end time.Time, duration time.Duration, open, closing clock, excludeWeekends bool, step time.Duration) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		if excludeWeekends && isWeekend(day.Weekday()) {
			continue
		}
		dayClose := closing.on(day)
		for slotStart := open.on(day); !slotStart.Add(duration).After(dayClose); slotStart = slotStart.Add(step) {
			slotEnd := slotStart.Add(duration)
			if slotStart.Before(start) || slotEnd.After(end) {
				continue
			}
			slots = append(slots, models.TimeSlot{Start: slotStart, End: slotEnd, Available: true})
		}
	}
	return slots
}

func markConflicts(slot models.TimeSlot, events []models.Event) models.TimeSlot {
	for _, event := range events {
		if overlaps(slot.Start, slot.End, event.Start, event.End) {
			slot.Conflicts = append(slot.Conflicts, event.Title)
		}
	}
	slot.Available = len(slot.Conflicts) == 0
	return slot
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}
