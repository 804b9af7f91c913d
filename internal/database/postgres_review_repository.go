package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// PostgresReviewRepository implements models.ReviewRepository using PostgreSQL.
type PostgresReviewRepository struct {
	db *sql.DB
}

// NewPostgresReviewRepository creates a new PostgreSQL review repository.
func NewPostgresReviewRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// Create inserts a new review. ID and timestamp are assigned here.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO reviews (id, kind, subject_id, author_id, author_name, rating, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.Kind,
		review.SubjectID,
		review.AuthorID,
		nullString(review.AuthorName),
		review.Rating,
		nullString(review.Body),
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// ListBySubject retrieves all reviews for one listing, newest first.
func (r *PostgresReviewRepository) ListBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) ([]models.Review, error) {
	query := `
		SELECT id, kind, subject_id, author_id, author_name, rating, body, created_at
		FROM reviews
		WHERE kind = $1 AND subject_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, kind, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		var authorName, body sql.NullString
		if err := rows.Scan(
			&review.ID,
			&review.Kind,
			&review.SubjectID,
			&review.AuthorID,
			&authorName,
			&review.Rating,
			&body,
			&review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		review.AuthorName = authorName.String
		review.Body = body.String
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}

	return reviews, nil
}

// Delete removes a review.
func (r *PostgresReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRowAffected(res, "review", id)
}
