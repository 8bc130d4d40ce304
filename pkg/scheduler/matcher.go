package scheduler

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
)

// CategoryMatcher decides whether an action item's text belongs to a named category.
type CategoryMatcher interface {
	Match(category, text string) bool
}

// KeywordMatcher maps a category to keywords; a text matches when it contains any
// of them, case-insensitively. It is a substring heuristic, not a classifier:
// synonyms and other languages are missed.
type KeywordMatcher map[string][]string

func DefaultKeywordMatcher() KeywordMatcher {
	return KeywordMatcher{
		"task":      {"task", "complete", "work on"},
		"decision":  {"decide", "decision", "approve"},
		"follow-up": {"follow", "check", "review"},
	}
}

func (m KeywordMatcher) Match(category, text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range m[category] {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// MatchActionItems keeps the items that satisfy every trigger field that is set.
func MatchActionItems(trigger models.Trigger, items []models.ActionItem, matcher CategoryMatcher, now time.Time) []models.ActionItem {
	matched := make([]models.ActionItem, 0, len(items))
	for _, item := range items {
		if matchesTrigger(trigger, item, matcher, now) {
			matched = append(matched, item)
		}
	}
	return matched
}

func matchesTrigger(trigger models.Trigger, item models.ActionItem, matcher CategoryMatcher, now time.Time) bool {
	if len(trigger.Priorities) > 0 && !slices.Contains(trigger.Priorities, item.Priority) {
		return false
	}
	if len(trigger.ActionItemCategories) > 0 {
		found := false
		for _, category := range trigger.ActionItemCategories {
			if matcher != nil && matcher.Match(category, item.Task) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	// Undated items pass the due-date check.
	if trigger.DaysBeforeDue != nil && item.DueDate != nil {
		if daysUntil(now, *item.DueDate) > *trigger.DaysBeforeDue {
			return false
		}
	}
	return true
}

// daysUntil rounds up partial days, so a deadline 25 hours away is 2 days out.
func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
