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

// PostgresPromotionRepository implements models.PromotionRepository using
// PostgreSQL.
type PostgresPromotionRepository struct {
	db *sql.DB
}

// NewPostgresPromotionRepository creates a new PostgreSQL promotion repository.
func NewPostgresPromotionRepository(db *sql.DB) *PostgresPromotionRepository {
	return &PostgresPromotionRepository{db: db}
}

const promoColumns = `id, slug, title, venue, area, description, promo_type,
       creator_id, creator_name, status, view_count, created_at, updated_at`

// Create inserts a new promotion. ID, slug and timestamps are assigned here.
func (r *PostgresPromotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	if promo.ID == "" {
		promo.ID = uuid.NewString()
	}
	if promo.Slug == "" {
		promo.Slug = models.Slugify(promo.Title)
	}
	now := time.Now().UTC()
	promo.CreatedAt = now
	promo.UpdatedAt = now
	if promo.Status == "" {
		promo.Status = models.ListingStatusActive
	}

	query := `
		INSERT INTO promotions (
			id, slug, title, venue, area, description, promo_type,
			creator_id, creator_name, status, view_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		promo.ID,
		promo.Slug,
		promo.Title,
		promo.Venue,
		nullString(promo.Area),
		nullString(promo.Description),
		nullString(promo.PromoType),
		promo.CreatorID,
		nullString(promo.CreatorName),
		promo.Status,
		promo.CreatedAt,
		promo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert promotion: %w", err)
	}
	return nil
}

// GetByID retrieves a promotion by its ID. Missing promotions return (nil, nil).
func (r *PostgresPromotionRepository) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a promotion by its URL slug. Missing promotions return (nil, nil).
func (r *PostgresPromotionRepository) GetBySlug(ctx context.Context, slug string) (*models.Promotion, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *PostgresPromotionRepository) getOne(ctx context.Context, column, value string) (*models.Promotion, error) {
	query := fmt.Sprintf("SELECT %s FROM promotions WHERE %s = $1", promoColumns, column)

	promo, err := scanPromotion(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}
	return promo, nil
}

// List retrieves promotions matching the query plus the total count before
// pagination.
func (r *PostgresPromotionRepository) List(ctx context.Context, query models.ListQuery) ([]models.Promotion, int, error) {
	query.Normalize()

	where, args := buildPromoFilters(query)

	countQuery := "SELECT COUNT(*) FROM promotions" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	column := "created_at"
	if query.SortBy == models.SortByViews {
		column = "view_count"
	}
	direction := "DESC"
	if query.SortOrder == models.SortOrderAsc {
		direction = "ASC"
	}

	listQuery := fmt.Sprintf("SELECT %s FROM promotions%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		promoColumns, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promos := make([]models.Promotion, 0, query.Limit)
	for rows.Next() {
		promo, err := scanPromotion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promos = append(promos, *promo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read promotions: %w", err)
	}

	return promos, total, nil
}

// Update rewrites the mutable fields of a promotion.
func (r *PostgresPromotionRepository) Update(ctx context.Context, promo *models.Promotion) error {
	promo.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE promotions
		SET title = $2, venue = $3, area = $4, description = $5, promo_type = $6,
		    status = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		promo.ID,
		promo.Title,
		promo.Venue,
		nullString(promo.Area),
		nullString(promo.Description),
		nullString(promo.PromoType),
		promo.Status,
		promo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}
	return requireRowAffected(res, "promotion", promo.ID)
}

// SetStatus transitions a promotion's lifecycle state.
func (r *PostgresPromotionRepository) SetStatus(ctx context.Context, id string, status models.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE promotions SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to set promotion status: %w", err)
	}
	return requireRowAffected(res, "promotion", id)
}

// IncrementViews bumps the view counter.
func (r *PostgresPromotionRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE promotions SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment promotion views: %w", err)
	}
	return nil
}

// RecentCandidates returns the most recently created active promotions.
// Promotions have no date, so recency of creation is the comparison window.
func (r *PostgresPromotionRepository) RecentCandidates(ctx context.Context, limit int) ([]models.Candidate, error) {
	query := `
		SELECT id, title, venue, promo_type, slug, creator_name, created_at
		FROM promotions
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotion candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, limit)
	for rows.Next() {
		var c models.Candidate
		var promoType, creatorName sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Venue, &promoType, &c.Slug, &creatorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan promotion candidate: %w", err)
		}
		c.PromoType = promoType.String
		c.CreatorName = creatorName.String
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read promotion candidates: %w", err)
	}

	return candidates, nil
}

func buildPromoFilters(q models.ListQuery) (string, []interface{}) {
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

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanPromotion(row rowScanner) (*models.Promotion, error) {
	var promo models.Promotion
	var area, description, promoType, creatorName sql.NullString

	err := row.Scan(
		&promo.ID,
		&promo.Slug,
		&promo.Title,
		&promo.Venue,
		&area,
		&description,
		&promoType,
		&promo.CreatorID,
		&creatorName,
		&promo.Status,
		&promo.ViewCount,
		&promo.CreatedAt,
		&promo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	promo.Area = area.String
	promo.Description = description.String
	promo.PromoType = promoType.String
	promo.CreatorName = creatorName.String
	return &promo, nil
}
