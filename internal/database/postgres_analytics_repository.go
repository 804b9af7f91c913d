package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// PostgresAnalyticsRepository implements models.AnalyticsRepository using
// PostgreSQL aggregate queries.
type PostgresAnalyticsRepository struct {
	db *sql.DB
}

// NewPostgresAnalyticsRepository creates a new PostgreSQL analytics repository.
func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

// Summary computes platform-wide aggregate figures in a single round trip per
// concern.
func (r *PostgresAnalyticsRepository) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	summary := &models.AnalyticsSummary{GeneratedAt: time.Now().UTC()}

	totalsQuery := `
		SELECT
			(SELECT COUNT(*) FROM events WHERE status = 'active'),
			(SELECT COUNT(*) FROM promotions WHERE status = 'active'),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM events WHERE created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM promotions WHERE created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COALESCE(AVG(rating), 0) FROM reviews)
	`
	err := r.db.QueryRowContext(ctx, totalsQuery).Scan(
		&summary.TotalEvents,
		&summary.TotalPromotions,
		&summary.TotalReviews,
		&summary.EventsLast7Days,
		&summary.PromosLast7Days,
		&summary.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics totals: %w", err)
	}

	topAreas, err := r.topAreas(ctx, 5)
	if err != nil {
		return nil, err
	}
	summary.TopAreas = topAreas

	return summary, nil
}

func (r *PostgresAnalyticsRepository) topAreas(ctx context.Context, limit int) ([]models.AreaCount, error) {
	query := `
		SELECT area, COUNT(*) AS n FROM (
			SELECT area FROM events WHERE status = 'active' AND area IS NOT NULL
			UNION ALL
			SELECT area FROM promotions WHERE status = 'active' AND area IS NOT NULL
		) listings
		GROUP BY area
		ORDER BY n DESC, area ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top areas: %w", err)
	}
	defer rows.Close()

	areas := []models.AreaCount{}
	for rows.Next() {
		var ac models.AreaCount
		if err := rows.Scan(&ac.Area, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan area count: %w", err)
		}
		areas = append(areas, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top areas: %w", err)
	}

	return areas, nil
}
