package scheduler

import (
	"testing"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestMatchActionItems(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	items := []models.ActionItem{
		{ID: "1", Task: "Complete the budget report", Priority: models.PriorityHigh, DueDate: timePtr(now.Add(48 * time.Hour))},
		{ID: "2", Task: "Decide on the vendor", Priority: models.PriorityMedium, DueDate: timePtr(now.Add(5*24*time.Hour + time.Hour))},
		{ID: "3", Task: "Review onboarding docs", Priority: models.PriorityLow},
	}

	tests := []struct {
		name    string
		trigger models.Trigger
		want    []string
	}{
		{
			name:    "empty trigger matches everything",
			trigger: models.Trigger{Condition: models.TriggerManual},
			want:    []string{"1", "2", "3"},
		},
		{
			name:    "priority filter",
			trigger: models.Trigger{Priorities: []models.Priority{models.PriorityHigh}},
			want:    []string{"1"},
		},
		{
			name:    "several priorities",
			trigger: models.Trigger{Priorities: []models.Priority{models.PriorityHigh, models.PriorityLow}},
			want:    []string{"1", "3"},
		},
		{
			name:    "decision keywords",
			trigger: models.Trigger{ActionItemCategories: []string{"decision"}},
			want:    []string{"2"},
		},
		{
			name:    "any of several categories",
			trigger: models.Trigger{ActionItemCategories: []string{"task", "follow-up"}},
			want:    []string{"1", "3"},
		},
		{
			name:    "unknown category matches nothing",
			trigger: models.Trigger{ActionItemCategories: []string{"budget"}},
			want:    []string{},
		},
		{
			name:    "due threshold keeps undated items",
			trigger: models.Trigger{DaysBeforeDue: intPtr(3)},
			want:    []string{"1", "3"},
		},
		{
			name:    "partial days round up",
			trigger: models.Trigger{DaysBeforeDue: intPtr(5)},
			want:    []string{"1", "3"},
		},
		{
			name:    "all fields must hold",
			trigger: models.Trigger{DaysBeforeDue: intPtr(7), ActionItemCategories: []string{"decision"}, Priorities: []models.Priority{models.PriorityHigh}},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchActionItems(tt.trigger, items, DefaultKeywordMatcher(), now)
			ids := make([]string, 0, len(got))
			for _, item := range got {
				ids = append(ids, item.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestMatchActionItemsOverdue(t *testing.T) {
	now := monday
	items := []models.ActionItem{{ID: "late", Task: "x", Priority: models.PriorityLow, DueDate: timePtr(now.Add(-72 * time.Hour))}}
	got := MatchActionItems(models.Trigger{DaysBeforeDue: intPtr(0)}, items, DefaultKeywordMatcher(), now)
	require.Len(t, got, 1)
}

func TestKeywordMatcher(t *testing.T) {
	m := DefaultKeywordMatcher()
	require.True(t, m.Match("task", "Please WORK ON the deck"))
	require.True(t, m.Match("follow-up", "check in with legal"))
	require.False(t, m.Match("decision", "check in with legal"))

	custom := KeywordMatcher{"decision": {"entscheiden"}}
	require.True(t, custom.Match("decision", "Über Budget entscheiden"))
	require.False(t, custom.Match("decision", "Decide on budget"))
}
