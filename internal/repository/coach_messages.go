package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liubai-app/liubai/internal/model"
)

type CoachMessageRepo struct{ db *pgxpool.Pool }

func NewCoachMessageRepo(db *pgxpool.Pool) *CoachMessageRepo { return &CoachMessageRepo{db: db} }

func (r *CoachMessageRepo) Insert(ctx context.Context, m *model.CoachMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coach_messages (id, user_id, trigger_type, content)
		VALUES ($1, $2, $3, $4)`,
		m.ID, m.UserID, string(m.TriggerType), m.Content,
	)
	return mapDBError(err)
}

func (r *CoachMessageRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.CoachMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, trigger_type, content, created_at
		FROM coach_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CoachMessage
	for rows.Next() {
		var m model.CoachMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.TriggerType, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
