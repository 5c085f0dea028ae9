package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learncamera/backend/internal/models"
)

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *sql.DB) *purchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

// Exists checks if the user has purchased the course
func (r *purchaseRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM course_purchases WHERE user_id = ? AND course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check purchase existence: %w", err)
	}

	return exists, nil
}

// GetOrCreate records a purchase unless one already exists for (user, course).
// It reports whether a row was created; an existing row keeps its provider references.
func (r *purchaseRepository) GetOrCreate(ctx context.Context, purchase *models.Purchase) (bool, error) {
	query := `
		INSERT INTO course_purchases (user_id, course_id, stripe_session_id, stripe_payment_intent_id)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`

	result, err := r.db.ExecContext(ctx, query,
		purchase.UserID,
		purchase.CourseID,
		purchase.StripeSessionID,
		purchase.StripePaymentIntentID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record purchase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get last insert id: %w", err)
	}

	purchase.ID = int(id)
	return true, nil
}

// ListByUser lists the user's purchased courses, newest first
func (r *purchaseRepository) ListByUser(ctx context.Context, userID int) ([]models.PurchasedCourse, error) {
	query := `
		SELECT c.id, c.slug, c.title, p.purchased_at
		FROM course_purchases p
		INNER JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = ?
		ORDER BY p.purchased_at DESC, p.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]models.PurchasedCourse, 0)
	for rows.Next() {
		var purchase models.PurchasedCourse
		if err := rows.Scan(&purchase.CourseID, &purchase.CourseSlug, &purchase.CourseTitle, &purchase.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return purchases, nil
}
