package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zecall/dashboard/internal/core/domain"
)

// UsageLedger implements ports.UsageLedger against PostgreSQL.
type UsageLedger struct{ db *sql.DB }

func NewUsageLedger(db *sql.DB) *UsageLedger { return &UsageLedger{db: db} }

// Record upserts on call_id: a later status for the same call replaces the row.
func (l *UsageLedger) Record(ctx context.Context, u domain.CallUsage) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO call_usage (call_id, user_id, duration_seconds, billed_minutes,
		                        remaining_credits, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (call_id) DO UPDATE SET
			duration_seconds  = EXCLUDED.duration_seconds,
			billed_minutes    = EXCLUDED.billed_minutes,
			remaining_credits = EXCLUDED.remaining_credits,
			status            = EXCLUDED.status,
			received_at       = EXCLUDED.received_at
	`, u.CallID, u.UserID, u.DurationSeconds, u.BilledMinutes, u.RemainingCredits, u.Status, u.ReceivedAt)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

func (l *UsageLedger) ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.CallUsage, int64, error) {
	var total int64
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM call_usage WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usage: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT call_id, user_id, duration_seconds, billed_minutes,
		       remaining_credits, status, received_at
		FROM call_usage
		WHERE user_id = $1
		ORDER BY received_at DESC
		LIMIT $2 OFFSET $3
	`, userID, page.Limit, page.Skip())
	if err != nil {
		return nil, 0, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var out []domain.CallUsage
	for rows.Next() {
		var u domain.CallUsage
		if err := rows.Scan(&u.CallID, &u.UserID, &u.DurationSeconds, &u.BilledMinutes,
			&u.RemainingCredits, &u.Status, &u.ReceivedAt); err != nil {
			return nil, 0, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate usage: %w", err)
	}
	return out, total, nil
}
