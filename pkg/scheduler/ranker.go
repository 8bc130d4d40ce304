package scheduler

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
)

const (
	baseConfidence = 0.70
	maxConfidence  = 0.95
	confidenceStep = 0.10
)

// RankSuggestion turns a rule, its matched items and the available slots into a
// suggestion. ok is false when nothing matched or no slot is free.
func RankSuggestion(rule models.SchedulingRule, matched []models.ActionItem, slots []models.TimeSlot, participants []string, loc *time.Location) (models.SchedulingSuggestion, bool) {
	if len(matched) == 0 || len(slots) == 0 {
		return models.SchedulingSuggestion{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	preferred := preferredSlots(slots, rule.Scheduling, loc)
	best := slots[0]
	if len(preferred) > 0 {
		best = preferred[0]
	}

	highCount := 0
	tasks := make([]string, 0, len(matched))
	for _, item := range matched {
		if item.Priority == models.PriorityHigh {
			highCount++
		}
		tasks = append(tasks, item.Task)
	}

	title := rule.MeetingTemplate.Title
	if highCount > 0 {
		title = fmt.Sprintf("%s (%d High Priority)", title, highCount)
	}

	return models.SchedulingSuggestion{
		RuleID:        rule.ID,
		SuggestedTime: best.Start,
		Duration:      rule.MeetingTemplate.Duration,
		Title:         title,
		Description:   describe(rule.MeetingTemplate.Description, tasks),
		Participants:  participants,
		Reason:        reason(rule, len(matched), len(preferred) > 0),
		Priority:      derivePriority(matched),
		ActionItems:   tasks,
		Confidence:    Confidence(matched, len(preferred) > 0),
	}, true
}

// Confidence is additive: 0.70 base, +0.10 for more than two items, +0.10 for any
// high-priority item, +0.10 for a preferred slot, capped at 0.95.
func Confidence(matched []models.ActionItem, preferredFound bool) float64 {
	confidence := baseConfidence
	if len(matched) > 2 {
		confidence += confidenceStep
	}
	if slices.ContainsFunc(matched, func(item models.ActionItem) bool { return item.Priority == models.PriorityHigh }) {
		confidence += confidenceStep
	}
	if preferredFound {
		confidence += confidenceStep
	}
	return math.Round(math.Min(confidence, maxConfidence)*100) / 100
}

func derivePriority(matched []models.ActionItem) models.Priority {
	result := models.PriorityLow
	for _, item := range matched {
		if item.Priority.Rank() > result.Rank() {
			result = item.Priority
		}
	}
	return result
}

func preferredSlots(slots []models.TimeSlot, prefs models.SchedulingPreferences, loc *time.Location) []models.TimeSlot {
	preferred := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		local := slot.Start.In(loc)
		if len(prefs.PreferredDays) > 0 && !slices.Contains(prefs.PreferredDays, local.Weekday()) {
			continue
		}
		if !matchesTimeOfDay(prefs.TimeSlotPreference, local.Hour()) {
			continue
		}
		preferred = append(preferred, slot)
	}
	return preferred
}

func matchesTimeOfDay(pref models.TimePreference, hour int) bool {
	switch pref {
	case models.PreferMorning:
		return hour >= 9 && hour < 12
	case models.PreferAfternoon:
		return hour >= 13 && hour < 17
	}
	return true
}

func describe(template string, tasks []string) string {
	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\nAction items to discuss:")
	for _, task := range tasks {
		b.WriteString("\n- ")
		b.WriteString(task)
	}
	return b.String()
}

func reason(rule models.SchedulingRule, matched int, preferredFound bool) string {
	noun := "action items"
	if matched == 1 {
		noun = "action item"
	}
	msg := fmt.Sprintf("%s: %d %s matched", rule.Name, matched, noun)
	if rule.Trigger.DaysBeforeDue != nil {
		msg += fmt.Sprintf(", due within %d day(s)", *rule.Trigger.DaysBeforeDue)
	}
	if preferredFound {
		msg += ", preferred time available"
	}
	return msg
}

// ResolveParticipants merges the original attendees (when the policy asks for
// them) with the additional ones and drops the excluded, ignoring case.
func ResolveParticipants(policy models.ParticipantPolicy, original []string) []string {
	excluded := make(map[string]struct{}, len(policy.ExcludeParticipants))
	for _, email := range policy.ExcludeParticipants {
		excluded[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	seen := make(map[string]struct{})
	result := make([]string, 0)
	add := func(emails []string) {
		for _, email := range emails {
			email = strings.TrimSpace(email)
			key := strings.ToLower(email)
			if key == "" {
				continue
			}
			if _, ok := excluded[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, email)
		}
	}
	if policy.IncludeOriginalAttendees {
		add(original)
	}
	add(policy.AdditionalParticipants)
	return result
}
