package scheduler

import (
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
)

// DefaultRules returns a fresh copy of the built-in rule set: a quick follow-up
// for urgent items, a weekly review and a decision follow-up.
func DefaultRules() []models.SchedulingRule {
	threeDays := 3
	sevenDays := 7
	return []models.SchedulingRule{
		{
			ID:      "high-priority-followup",
			Name:    "High Priority Follow-up",
			Enabled: true,
			Trigger: models.Trigger{
				Condition:     models.TriggerActionItemDue,
				DaysBeforeDue: &threeDays,
				Priorities:    []models.Priority{models.PriorityHigh},
			},
			MeetingTemplate: models.MeetingTemplate{
				Duration:     30,
				Title:        "High Priority Action Items Follow-up",
				Description:  "Follow-up meeting to review progress on high priority action items.",
				BufferBefore: 5,
				BufferAfter:  5,
			},
			Scheduling: models.SchedulingPreferences{
				WorkingHours:         models.WorkingHours{Start: "09:00", End: "17:00"},
				ExcludeWeekends:      true,
				TimeSlotPreference:   models.PreferMorning,
				MinimumAdvanceNotice: 24,
			},
			Participants: models.ParticipantPolicy{
				IncludeOriginalAttendees: true,
			},
		},
		{
			ID:      "weekly-review",
			Name:    "Weekly Action Items Review",
			Enabled: true,
			Trigger: models.Trigger{
				Condition:            models.TriggerMeetingCompletion,
				ActionItemCategories: []string{"task", "follow-up"},
			},
			MeetingTemplate: models.MeetingTemplate{
				Duration:    60,
				Title:       "Weekly Action Items Review",
				Description: "Weekly review of outstanding action items and next steps.",
			},
			Scheduling: models.SchedulingPreferences{
				WorkingHours:         models.WorkingHours{Start: "09:00", End: "17:00"},
				ExcludeWeekends:      true,
				PreferredDays:        []time.Weekday{time.Tuesday, time.Thursday},
				TimeSlotPreference:   models.PreferAfternoon,
				MinimumAdvanceNotice: 48,
			},
			Participants: models.ParticipantPolicy{
				IncludeOriginalAttendees: true,
			},
		},
		{
			ID:      "decision-followup",
			Name:    "Decision Follow-up",
			Enabled: true,
			Trigger: models.Trigger{
				Condition:            models.TriggerDeadlineApproaching,
				DaysBeforeDue:        &sevenDays,
				ActionItemCategories: []string{"decision"},
			},
			MeetingTemplate: models.MeetingTemplate{
				Duration:    45,
				Title:       "Decision Follow-up",
				Description: "Meeting to finalize pending decisions from the previous meeting.",
			},
			Scheduling: models.SchedulingPreferences{
				WorkingHours:         models.WorkingHours{Start: "10:00", End: "16:00"},
				ExcludeWeekends:      true,
				TimeSlotPreference:   models.PreferAny,
				MinimumAdvanceNotice: 24,
			},
			Participants: models.ParticipantPolicy{
				IncludeOriginalAttendees: true,
			},
		},
	}
}
