package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/stretchr/testify/require"
)

// now is monday 08:00 (see newTestScheduler).
func sampleItems() []models.ActionItem {
	now := monday.Add(8 * time.Hour)
	return []models.ActionItem{
		{ID: "1", MeetingID: "m1", Task: "Complete the budget report", Priority: models.PriorityHigh, DueDate: timePtr(now.Add(48 * time.Hour)), Status: models.StatusPending},
		{ID: "2", MeetingID: "m1", Task: "Decide on the vendor", Priority: models.PriorityMedium, DueDate: timePtr(now.Add(5 * 24 * time.Hour)), Status: models.StatusInProgress},
		{ID: "3", MeetingID: "m1", Task: "Review onboarding docs", Priority: models.PriorityLow, Status: models.StatusPending},
		{ID: "4", MeetingID: "m1", Task: "Complete the hiring plan", Priority: models.PriorityHigh, Status: models.StatusCompleted},
	}
}

func TestGenerateSuggestionsDefaultRules(t *testing.T) {
	cal := &fakeCalendar{}
	store := &fakeStore{
		items:    sampleItems(),
		original: models.Meeting{ID: "m1", Organizer: "lead@example.com", Attendees: []string{"lead@example.com", "dev@example.com"}},
	}
	s := newTestScheduler(cal, store)
	tuesday := monday.AddDate(0, 0, 1)
	thursday := monday.AddDate(0, 0, 3)

	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{AccessToken: "t"}, "m1", DefaultRules())
	require.Len(t, got, 3)

	require.Equal(t, "high-priority-followup", got[0].RuleID)
	require.Equal(t, tuesday.Add(9*time.Hour), got[0].SuggestedTime)
	require.Equal(t, models.PriorityHigh, got[0].Priority)
	require.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	require.Equal(t, []string{"Complete the budget report"}, got[0].ActionItems)
	require.Equal(t, []string{"lead@example.com", "dev@example.com"}, got[0].Participants)

	require.Equal(t, "weekly-review", got[1].RuleID)
	require.Equal(t, thursday.Add(13*time.Hour), got[1].SuggestedTime)
	require.Equal(t, []string{"Complete the budget report", "Review onboarding docs"}, got[1].ActionItems)
	require.InDelta(t, 0.9, got[1].Confidence, 1e-9)

	require.Equal(t, "decision-followup", got[2].RuleID)
	require.Equal(t, tuesday.Add(10*time.Hour), got[2].SuggestedTime)
	require.Equal(t, models.PriorityMedium, got[2].Priority)
	require.InDelta(t, 0.8, got[2].Confidence, 1e-9)

	require.Equal(t, 3, cal.eventsCalls, "one calendar read per rule")
}

func TestGenerateSuggestionsSkipsDisabledAndUnmatched(t *testing.T) {
	cal := &fakeCalendar{}
	store := &fakeStore{items: sampleItems()}
	s := newTestScheduler(cal, store)
	rules := DefaultRules()
	rules[0].Enabled = false
	rules[2].Trigger.Priorities = []models.Priority{models.PriorityLow}

	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", rules)
	require.Len(t, got, 1)
	require.Equal(t, "weekly-review", got[0].RuleID)
	require.Equal(t, 1, cal.eventsCalls, "unmatched rules never hit the calendar")
}

func TestGenerateSuggestionsBusyCalendar(t *testing.T) {
	cal := &fakeCalendar{events: []models.Event{{Title: "Conference", Start: monday, End: monday.AddDate(0, 1, 0), AllDay: true}}}
	s := newTestScheduler(cal, &fakeStore{items: sampleItems()})
	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", DefaultRules())
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGenerateSuggestionsFailures(t *testing.T) {
	tests := []struct {
		name  string
		cal   *fakeCalendar
		store *fakeStore
	}{
		{name: "action item store fails", cal: &fakeCalendar{}, store: &fakeStore{itemsErr: errUpstream}},
		{name: "calendar fails", cal: &fakeCalendar{eventsErr: errUpstream}, store: &fakeStore{items: sampleItems()}},
		{name: "panic inside the pass", cal: &fakeCalendar{}, store: &fakeStore{panicItems: true}},
		{name: "no action items", cal: &fakeCalendar{}, store: &fakeStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(tt.cal, tt.store)
			got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", DefaultRules())
			require.NotNil(t, got)
			require.Empty(t, got)
		})
	}
}

func TestGenerateSuggestionsWithoutOriginalMeeting(t *testing.T) {
	store := &fakeStore{items: sampleItems(), getErr: errUpstream}
	s := newTestScheduler(&fakeCalendar{}, store)
	rules := DefaultRules()[:1]
	rules[0].Participants.AdditionalParticipants = []string{"pm@example.com"}
	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", rules)
	require.Len(t, got, 1)
	require.Equal(t, []string{"pm@example.com"}, got[0].Participants)
}

func TestGenerateSuggestionsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	cfg := DefaultConfig()
	cfg.Location = loc
	s := newTestScheduler(&fakeCalendar{}, &fakeStore{items: sampleItems()}, WithConfig(cfg))
	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", DefaultRules()[:1])
	require.Len(t, got, 1)
	// 24h notice from monday 11:00 local leaves tuesday from 11:00 on.
	local := got[0].SuggestedTime.In(loc)
	require.Equal(t, 11, local.Hour())
	require.Equal(t, time.Tuesday, local.Weekday())
}

func TestGenerateSuggestionsCustomMatcher(t *testing.T) {
	items := []models.ActionItem{{ID: "1", Task: "Über das Budget entscheiden", Priority: models.PriorityMedium}}
	s := newTestScheduler(&fakeCalendar{}, &fakeStore{items: items}, WithCategoryMatcher(KeywordMatcher{"decision": {"entscheiden"}}))
	got := s.GenerateSuggestions(context.Background(), models.CalendarAccess{}, "m1", DefaultRules()[2:])
	require.Len(t, got, 1)
	require.Equal(t, "decision-followup", got[0].RuleID)
}

func TestDefaultRulesAreFresh(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 3)
	rules[0].Enabled = false
	*rules[0].Trigger.DaysBeforeDue = 99
	again := DefaultRules()
	require.True(t, again[0].Enabled)
	require.Equal(t, 3, *again[0].Trigger.DaysBeforeDue)
}
