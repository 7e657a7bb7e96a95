package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liubai-app/liubai/internal/model"
)

type CheckInRepo struct{ db *pgxpool.Pool }

func NewCheckInRepo(db *pgxpool.Pool) *CheckInRepo { return &CheckInRepo{db: db} }

func (r *CheckInRepo) Insert(ctx context.Context, c *model.CheckIn) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO energy_check_ins (
			id, user_id, level, question, note, ai_response,
			check_in_at, check_in_at_utc, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.UserID, string(c.Level), c.Question, c.Note, c.AIResponse,
		c.CheckInAt, c.CheckInAtUTC, c.Timezone,
	)
	return mapDBError(err)
}

// ListByUserBetween returns check-ins whose local timestamp lies in [from, to], newest first.
// Bounds are fixed-width local timestamps, so string comparison orders them correctly.
func (r *CheckInRepo) ListByUserBetween(ctx context.Context, userID, from, to string) ([]model.CheckIn, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, level, question, note, ai_response,
		       check_in_at, check_in_at_utc, timezone
		FROM energy_check_ins
		WHERE user_id = $1
		  AND check_in_at >= $2
		  AND check_in_at <= $3
		ORDER BY check_in_at DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CheckIn
	for rows.Next() {
		var c model.CheckIn
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Level, &c.Question, &c.Note, &c.AIResponse,
			&c.CheckInAt, &c.CheckInAtUTC, &c.Timezone,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
