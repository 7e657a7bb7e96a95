package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liubai-app/liubai/internal/model"
)

type DailySummaryRepo struct{ db *pgxpool.Pool }

func NewDailySummaryRepo(db *pgxpool.Pool) *DailySummaryRepo { return &DailySummaryRepo{db: db} }

const summaryColumns = `id, user_id, date, avg_score, min_score, max_score,
		       check_in_count, below_reserve, created_at, updated_at`

func scanSummary(row rowScanner) (*model.DailySummary, error) {
	var s model.DailySummary
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.AvgScore, &s.MinScore, &s.MaxScore,
		&s.CheckInCount, &s.BelowReserve, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DailySummaryRepo) GetByUserAndDate(ctx context.Context, userID, date string) (*model.DailySummary, error) {
	s, err := scanSummary(r.db.QueryRow(ctx, `
		SELECT `+summaryColumns+`
		FROM daily_energy_summaries
		WHERE user_id = $1 AND date = $2`,
		userID, date,
	))
	if err != nil {
		return nil, mapDBError(err)
	}
	return s, nil
}

// Insert fails with ErrConflict when a row for (user, date) already exists.
func (r *DailySummaryRepo) Insert(ctx context.Context, s *model.DailySummary) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO daily_energy_summaries (
			id, user_id, date, avg_score, min_score, max_score, check_in_count, below_reserve
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.Date, s.AvgScore, s.MinScore, s.MaxScore, s.CheckInCount, s.BelowReserve,
	)
	return mapDBError(err)
}

func (r *DailySummaryRepo) UpdateStats(ctx context.Context, id string, st model.SummaryStats) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE daily_energy_summaries
		SET avg_score = $2,
		    min_score = $3,
		    max_score = $4,
		    check_in_count = $5,
		    below_reserve = $6,
		    updated_at = NOW()
		WHERE id = $1`,
		id, st.AvgScore, st.MinScore, st.MaxScore, st.CheckInCount, st.BelowReserve,
	)
	if err != nil {
		return mapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSince returns the user's summaries dated on or after sinceDate, newest first.
func (r *DailySummaryRepo) ListSince(ctx context.Context, userID, sinceDate string) ([]model.DailySummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+summaryColumns+`
		FROM daily_energy_summaries
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC`,
		userID, sinceDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
