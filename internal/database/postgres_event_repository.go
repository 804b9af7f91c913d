package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// CandidateWindowDays bounds how far back event candidates reach for
// duplicate checks. Older events are assumed to have happened and cannot
// collide with a new submission.
const CandidateWindowDays = 30

// PostgresEventRepository implements models.EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

const eventColumns = `id, slug, title, venue, area, description, event_type, date,
       creator_id, creator_name, status, view_count, created_at, updated_at`

// Create inserts a new event. ID, slug and timestamps are assigned here.
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Slug == "" {
		event.Slug = models.Slugify(event.Title)
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = models.ListingStatusActive
	}

	query := `
		INSERT INTO events (
			id, slug, title, venue, area, description, event_type, date,
			creator_id, creator_name, status, view_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Slug,
		event.Title,
		event.Venue,
		nullString(event.Area),
		nullString(event.Description),
		nullString(event.EventType),
		event.Date,
		event.CreatorID,
		nullString(event.CreatorName),
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID. Missing events return (nil, nil).
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves an event by its URL slug. Missing events return (nil, nil).
func (r *PostgresEventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *PostgresEventRepository) getOne(ctx context.Context, column, value string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE %s = $1", eventColumns, column)

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return event, nil
}

// List retrieves events matching the query plus the total count before
// pagination.
func (r *PostgresEventRepository) List(ctx context.Context, query models.ListQuery) ([]models.Event, int, error) {
	query.Normalize()

	where, args := buildEventFilters(query)

	countQuery := "SELECT COUNT(*) FROM events" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	orderBy := eventOrderClause(query)
	listQuery := fmt.Sprintf("SELECT %s FROM events%s%s LIMIT $%d OFFSET $%d",
		eventColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0, query.Limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read events: %w", err)
	}

	return events, total, nil
}

// Update rewrites the mutable fields of an event.
func (r *PostgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE events
		SET title = $2, venue = $3, area = $4, description = $5, event_type = $6,
		    date = $7, status = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Venue,
		nullString(event.Area),
		nullString(event.Description),
		nullString(event.EventType),
		event.Date,
		event.Status,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireRowAffected(res, "event", event.ID)
}

// SetStatus transitions an event's lifecycle state.
func (r *PostgresEventRepository) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to set event status: %w", err)
	}
	return requireRowAffected(res, "event", id)
}

// IncrementViews bumps the view counter.
func (r *PostgresEventRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE events SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment event views: %w", err)
	}
	return nil
}

// RecentCandidates returns active events inside the comparison window:
// anything dated from CandidateWindowDays ago onward, soonest first. Undated
// events are included since they could still collide with any submission.
func (r *PostgresEventRepository) RecentCandidates(ctx context.Context, limit int) ([]models.Candidate, error) {
	query := `
		SELECT id, title, venue, date, slug, creator_name, created_at
		FROM events
		WHERE status = 'active'
		  AND (date IS NULL OR date >= NOW() - ($1 * INTERVAL '1 day'))
		ORDER BY date ASC NULLS LAST, created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, CandidateWindowDays, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query event candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, limit)
	for rows.Next() {
		var c models.Candidate
		var creatorName sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Venue, &c.Date, &c.Slug, &creatorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event candidate: %w", err)
		}
		c.CreatorName = creatorName.String
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event candidates: %w", err)
	}

	return candidates, nil
}

func buildEventFilters(q models.ListQuery) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if q.Status != nil {
		add("status = $%d", *q.Status)
	} else {
		add("status = $%d", models.ListingStatusActive)
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR venue ILIKE $%d)", n, n))
	}
	if q.Area != "" {
		add("area = $%d", q.Area)
	}
	if q.Venue != "" {
		add("venue ILIKE $%d", q.Venue)
	}
	if q.From != nil {
		add("date >= $%d", *q.From)
	}
	if q.Until != nil {
		add("date <= $%d", *q.Until)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func eventOrderClause(q models.ListQuery) string {
	column := "created_at"
	switch q.SortBy {
	case models.SortByDate:
		column = "date"
	case models.SortByViews:
		column = "view_count"
	}
	direction := "DESC"
	if q.SortOrder == models.SortOrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event
	var area, description, eventType, creatorName sql.NullString

	err := row.Scan(
		&event.ID,
		&event.Slug,
		&event.Title,
		&event.Venue,
		&area,
		&description,
		&eventType,
		&event.Date,
		&event.CreatorID,
		&creatorName,
		&event.Status,
		&event.ViewCount,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Area = area.String
	event.Description = description.String
	event.EventType = eventType.String
	event.CreatorName = creatorName.String
	return &event, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}
