package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus"
)

type Store interface {
	UpcomingUnnotified(ctx context.Context, from, to time.Time) ([]models.Meeting, error)
	MarkNotified(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type Settings struct {
	// Interval between passes.
	Interval time.Duration
	// Lead is how far ahead a meeting is announced.
	Lead     time.Duration
	Location *time.Location
}

// Worker announces auto-scheduled follow-ups shortly before they start.
type Worker struct {
	log      *logrus.Entry
	store    Store
	notifier Notifier
	settings Settings
	now      func() time.Time
}

func New(log *logrus.Logger, store Store, notifier Notifier, settings Settings) *Worker {
	if settings.Interval <= 0 {
		settings.Interval = 5 * time.Minute
	}
	if settings.Lead <= 0 {
		settings.Lead = time.Hour
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &Worker{
		log:      log.WithField("component", "worker"),
		store:    store,
		notifier: notifier,
		settings: settings,
		now:      time.Now,
	}
}

// Run reminds on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.settings.Interval)
	defer ticker.Stop()
	w.log.Infof("reminding every %s about meetings within %s", w.settings.Interval, w.settings.Lead)
	for {
		if err := w.RemindUpcoming(ctx); err != nil {
			w.log.Errorf("err reminding: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RemindUpcoming notifies about every unannounced meeting starting within the lead
// time and marks it notified. A failed notification is retried on the next pass.
func (w *Worker) RemindUpcoming(ctx context.Context) error {
	now := w.now()
	meetings, err := w.store.UpcomingUnnotified(ctx, now, now.Add(w.settings.Lead))
	if err != nil {
		return fmt.Errorf("err getting upcoming meetings: %w", err)
	}
	for _, meeting := range meetings {
		log := w.log.WithField("meeting_id", meeting.ID)
		if err = w.notifier.Notify(ctx, w.message(meeting)); err != nil {
			log.Warnf("err sending reminder: %v", err)
			continue
		}
		if err = w.store.MarkNotified(ctx, meeting.ID); err != nil {
			log.Warnf("err marking meeting notified: %v", err)
		}
	}
	return nil
}

func (w *Worker) message(meeting models.Meeting) string {
	msg := fmt.Sprintf("Follow-up %q starts at %s", meeting.Title,
		meeting.StartTime.In(w.settings.Location).Format("Mon 02 Jan 15:04 MST"))
	if meeting.MeetingLink != "" {
		msg += "\n" + meeting.MeetingLink
	}
	return msg
}
