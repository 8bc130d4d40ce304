package models

import "time"

type TriggerCondition string

const (
	TriggerActionItemDue       TriggerCondition = "action_item_due"
	TriggerMeetingCompletion   TriggerCondition = "meeting_completion"
	TriggerDeadlineApproaching TriggerCondition = "deadline_approaching"
	TriggerManual              TriggerCondition = "manual"
)

type TimePreference string

const (
	PreferMorning   TimePreference = "morning"
	PreferAfternoon TimePreference = "afternoon"
	PreferAny       TimePreference = "any"
)

// Trigger fields left nil/empty do not restrict matching.
type Trigger struct {
	Condition            TriggerCondition `json:"condition"`
	DaysBeforeDue        *int             `json:"daysBeforeDue,omitempty"`
	ActionItemCategories []string         `json:"actionItemCategories,omitempty"`
	Priorities           []Priority       `json:"priorities,omitempty"`
}

type MeetingTemplate struct {
	Duration     int    `json:"duration"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	BufferBefore int    `json:"bufferBefore,omitempty"`
	BufferAfter  int    `json:"bufferAfter,omitempty"`
}

// WorkingHours holds "HH:MM" times of day.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SchedulingPreferences struct {
	WorkingHours         WorkingHours   `json:"workingHours"`
	ExcludeWeekends      bool           `json:"excludeWeekends"`
	PreferredDays        []time.Weekday `json:"preferredDays,omitempty"`
	TimeSlotPreference   TimePreference `json:"timeSlotPreference"`
	MinimumAdvanceNotice int            `json:"minimumAdvanceNotice"`
}

type ParticipantPolicy struct {
	IncludeOriginalAttendees bool     `json:"includeOriginalAttendees"`
	AdditionalParticipants   []string `json:"additionalParticipants,omitempty"`
	ExcludeParticipants      []string `json:"excludeParticipants,omitempty"`
}

type SchedulingRule struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Enabled         bool                  `json:"enabled"`
	Trigger         Trigger               `json:"trigger"`
	MeetingTemplate MeetingTemplate       `json:"meetingTemplate"`
	Scheduling      SchedulingPreferences `json:"scheduling"`
	Participants    ParticipantPolicy     `json:"participants"`
}
