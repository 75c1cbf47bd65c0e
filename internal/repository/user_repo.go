package repository

import (
	"context"
	"errors"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, tg_id, COALESCE(username, ''), COALESCE(full_name, ''), COALESCE(ip_address, ''),
	sponsor_id, coin, usd, diamond, star, mining_speed, mining_active, mining_started_at,
	last_mined_amount, total_referrals, total_team_size, daily_logins, tasks_completed,
	last_daily_login, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FullName, &u.IPAddress,
		&u.SponsorID, &u.Coin, &u.USD, &u.Diamond, &u.Star,
		&u.MiningSpeed, &u.MiningActive, &u.MiningStartedAt,
		&u.LastMinedAmount, &u.TotalReferrals, &u.TotalTeamSize,
		&u.DailyLogins, &u.TasksCompleted, &u.LastDailyLogin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID))
}

// GetByRef resolves a sponsor reference, which may be either a tg_id or an
// internal id. tg_id wins when both match.
func (r *UserRepository) GetByRef(ctx context.Context, ref int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1 OR id = $1
		 ORDER BY (tg_id = $1) DESC LIMIT 1`, ref))
}

// List returns users newest first, for the admin surface.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// TopByTeamSize returns the referral leaderboard.
func (r *UserRepository) TopByTeamSize(ctx context.Context, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY total_team_size DESC, total_referrals DESC, id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	var result []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// DownlineCount counts all users transitively sponsored by the anchor,
// matching sponsor_id against each node's tg_id. Depth is bounded so a
// corrupted sponsor graph cannot recurse forever.
func (r *UserRepository) DownlineCount(ctx context.Context, anchorTgID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`WITH RECURSIVE downline AS (
		     SELECT id, tg_id, 1 AS depth FROM users WHERE sponsor_id = $1
		     UNION ALL
		     SELECT u.id, u.tg_id, d.depth + 1
		     FROM users u
		     JOIN downline d ON u.sponsor_id = d.tg_id
		     WHERE d.depth < $2
		 )
		 SELECT COUNT(*) FROM downline`,
		anchorTgID, domain.DownlineDepthLimit,
	).Scan(&count)
	return count, err
}

// DirectReferrals lists the users directly sponsored by the anchor.
func (r *UserRepository) DirectReferrals(ctx context.Context, anchorTgID int64, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE sponsor_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, anchorTgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}
