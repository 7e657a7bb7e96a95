package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liubai-app/liubai/internal/model"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db} }

const userColumns = `id, email, name, energy_reserve_ratio, check_in_times, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var times string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.EnergyReserveRatio, &times, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CheckInTimes = splitTimes(times)
	return &u, nil
}

func splitTimes(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

// Upsert creates the user for email or refreshes its name, returning the stored row.
func (r *UserRepo) Upsert(ctx context.Context, email, name string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING `+userColumns,
		uuid.NewString(), email, name,
	))
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

// ReserveRatio is a live read of the user's threshold. A missing user gets the default.
func (r *UserRepo) ReserveRatio(ctx context.Context, userID string) (float64, error) {
	var ratio float64
	err := r.db.QueryRow(ctx, `SELECT energy_reserve_ratio FROM users WHERE id = $1`, userID).Scan(&ratio)
	if err != nil {
		if err = mapDBError(err); errors.Is(err, ErrNotFound) {
			return model.DefaultReserveRatio, nil
		}
		return 0, err
	}
	return ratio, nil
}

// SettingsUpdate holds the fields to change; nil fields are left as they are.
type SettingsUpdate struct {
	EnergyReserveRatio *float64
	CheckInTimes       []string
	Name               *string
}

func (r *UserRepo) UpdateSettings(ctx context.Context, userID string, in SettingsUpdate) (*model.User, error) {
	var times *string
	if in.CheckInTimes != nil {
		s := strings.Join(in.CheckInTimes, ",")
		times = &s
	}
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET energy_reserve_ratio = COALESCE($2, energy_reserve_ratio),
		    check_in_times = COALESCE($3, check_in_times),
		    name = COALESCE($4, name),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, in.EnergyReserveRatio, times, in.Name,
	))
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}
