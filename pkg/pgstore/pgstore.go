package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pershin-daniil/followups/pkg/metrics"
	"github.com/pershin-daniil/followups/pkg/models"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

const retries = 3

const meetingColumns = `id, title, description, start_at, end_at, calendar_event_id, meeting_link,
organizer, attendees, status, auto_scheduled, source_meeting_id, notified, created_at, updated_at`

type Store struct {
	log *logrus.Entry
	db  *sqlx.DB
}

var (
	ErrMeetingNotFound    = fmt.Errorf("meeting not found")
	ErrActionItemNotFound = fmt.Errorf("action item not found")
)

func NewStore(ctx context.Context, log *logrus.Logger, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{
		log: log.WithField("component", "pgstore"),
		db:  db,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(direction migrate.MigrationDirection) error {
	assetDir := func() func(string) ([]string, error) {
		return func(path string) ([]string, error) {
			dirEntry, er := migrations.ReadDir(path)
			if er != nil {
				return nil, er
			}
			entries := make([]string, 0)
			for _, e := range dirEntry {
				entries = append(entries, e.Name())
			}

			return entries, nil
		}
	}()
	asset := migrate.AssetMigrationSource{
		Asset:    migrations.ReadFile,
		AssetDir: assetDir,
		Dir:      "migrations",
	}
	n, err := migrate.Exec(s.db.DB, "postgres", asset, direction)
	if err != nil {
		return fmt.Errorf("err applying migrations: %w", err)
	}
	s.log.Infof("applied %d migrations", n)
	return nil
}

func observe(method string, started time.Time, err error) {
	metrics.PgDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		metrics.PgErrCount.WithLabelValues(method).Inc()
	}
}

func (s *Store) GetActionItemsForMeeting(ctx context.Context, meetingID string) (items []models.ActionItem, err error) {
	defer func(started time.Time) { observe("GetActionItemsForMeeting", started, err) }(time.Now())
	if _, err = uuid.Parse(meetingID); err != nil {
		return nil, fmt.Errorf("err invalid meeting id %q: %w", meetingID, err)
	}
	query := `
SELECT id, meeting_id, task, assignee, priority, due_date, status, created_at
FROM action_items
WHERE meeting_id = $1
ORDER BY created_at, id;`
	for i := 0; i < retries; i++ {
		items = make([]models.ActionItem, 0)
		if err = s.db.SelectContext(ctx, &items, query, meetingID); err != nil {
			continue
		}
		return items, nil
	}
	return nil, fmt.Errorf("err getting action items for meeting %s: %w", meetingID, err)
}

func (s *Store) CreateActionItem(ctx context.Context, item models.ActionItem) (created models.ActionItem, err error) {
	defer func(started time.Time) { observe("CreateActionItem", started, err) }(time.Now())
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.StatusPending
	}
	query := `
INSERT INTO action_items (id, meeting_id, task, assignee, priority, due_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, meeting_id, task, assignee, priority, due_date, status, created_at;`
	for i := 0; i < retries; i++ {
		if err = s.db.GetContext(ctx, &created, query,
			item.ID, item.MeetingID, item.Task, item.Assignee, item.Priority, item.DueDate, item.Status); err != nil {
			continue
		}
		return created, nil
	}
	return models.ActionItem{}, fmt.Errorf("err creating action item: %w", err)
}

func (s *Store) UpdateActionItemStatus(ctx context.Context, id string, status models.ActionItemStatus) (updated models.ActionItem, err error) {
	defer func(started time.Time) { observe("UpdateActionItemStatus", started, err) }(time.Now())
	query := `
UPDATE action_items
SET status = $2
WHERE id = $1
RETURNING id, meeting_id, task, assignee, priority, due_date, status, created_at;`
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &updated, query, id, status)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.ActionItem{}, ErrActionItemNotFound
		case err != nil:
			continue
		}
		return updated, nil
	}
	return models.ActionItem{}, fmt.Errorf("err updating action item %s: %w", id, err)
}

func (s *Store) CreateMeeting(ctx context.Context, meeting models.Meeting) (created models.Meeting, err error) {
	defer func(started time.Time) { observe("CreateMeeting", started, err) }(time.Now())
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.Status == "" {
		meeting.Status = models.MeetingStatusScheduled
	}
	if meeting.Attendees == nil {
		meeting.Attendees = []string{}
	}
	query := `
INSERT INTO meetings (id, title, description, start_at, end_at, calendar_event_id, meeting_link,
                      organizer, attendees, status, auto_scheduled, source_meeting_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + meetingColumns + `;`
	for i := 0; i < retries; i++ {
		if err = s.db.GetContext(ctx, &created, query,
			meeting.ID, meeting.Title, meeting.Description, meeting.StartTime, meeting.EndTime,
			meeting.CalendarEventID, meeting.MeetingLink, meeting.Organizer, meeting.Attendees,
			meeting.Status, meeting.AutoScheduled, meeting.SourceMeetingID); err != nil {
			continue
		}
		return created, nil
	}
	return models.Meeting{}, fmt.Errorf("err creating meeting: %w", err)
}

func (s *Store) GetMeeting(ctx context.Context, id string) (meeting models.Meeting, err error) {
	defer func(started time.Time) { observe("GetMeeting", started, err) }(time.Now())
	if _, err = uuid.Parse(id); err != nil {
		return models.Meeting{}, ErrMeetingNotFound
	}
	query := `
SELECT ` + meetingColumns + `
FROM meetings
WHERE id = $1;`
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &meeting, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Meeting{}, ErrMeetingNotFound
		case err != nil:
			continue
		}
		return meeting, nil
	}
	return models.Meeting{}, fmt.Errorf("err getting meeting %s: %w", id, err)
}

// UpcomingUnnotified returns auto-scheduled meetings starting in [from, to) that
// have not been announced yet.
func (s *Store) UpcomingUnnotified(ctx context.Context, from, to time.Time) (meetings []models.Meeting, err error) {
	defer func(started time.Time) { observe("UpcomingUnnotified", started, err) }(time.Now())
	query := `
SELECT ` + meetingColumns + `
FROM meetings
WHERE auto_scheduled AND NOT notified AND status = $3
  AND start_at >= $1 AND start_at < $2
ORDER BY start_at;`
	for i := 0; i < retries; i++ {
		meetings = make([]models.Meeting, 0)
		if err = s.db.SelectContext(ctx, &meetings, query, from, to, models.MeetingStatusScheduled); err != nil {
			continue
		}
		return meetings, nil
	}
	return nil, fmt.Errorf("err getting upcoming meetings: %w", err)
}

func (s *Store) MarkNotified(ctx context.Context, id string) (err error) {
	defer func(started time.Time) { observe("MarkNotified", started, err) }(time.Now())
	query := `
UPDATE meetings
SET notified = TRUE,
    updated_at = now()
WHERE id = $1;`
	var res sql.Result
	for i := 0; i < retries; i++ {
		if res, err = s.db.ExecContext(ctx, query, id); err != nil {
			continue
		}
		n, er := res.RowsAffected()
		if er == nil && n == 0 {
			return ErrMeetingNotFound
		}
		return nil
	}
	return fmt.Errorf("err marking meeting %s notified: %w", id, err)
}

func (s *Store) ResetTables(ctx context.Context, tables []string) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE TABLE `+strings.Join(tables, `, `)+` CASCADE`)
	return err
}
