package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/logger"
	"mining_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserExists = errors.New("user already registered")

// RegisterInput is the profile for a new registration.
type RegisterInput struct {
	TgID      int64  `json:"tg_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	IPAddress string `json:"-"`
	// SponsorRef optionally names the recruiter by tg_id or internal id.
	SponsorRef *int64 `json:"sponsor_id,omitempty"`
}

// ReferralService registers users and distributes multilevel rewards up the
// sponsor chain.
type ReferralService struct {
	db      *pgxpool.Pool
	users   *repository.UserRepository
	balance *BalanceService
	config  *ConfigService
}

func NewReferralService(db *pgxpool.Pool, balance *BalanceService, config *ConfigService) *ReferralService {
	return &ReferralService{
		db:      db,
		users:   repository.NewUserRepository(db),
		balance: balance,
		config:  config,
	}
}

// uplineSponsor is one resolved ancestor in the sponsor chain.
type uplineSponsor struct {
	id        int64
	tgID      int64
	sponsorID *int64
}

// Register creates a user with the welcome bonus applied and walks the upline
// for up to five levels, crediting each resolved sponsor per the reward table.
// The new user row and every sponsor mutation commit in one transaction, so a
// crash mid-walk never leaves the chain partially credited.
func (s *ReferralService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var newID int64
	var createdAt time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO users (tg_id, username, full_name, ip_address, sponsor_id, coin, mining_speed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		in.TgID, in.Username, in.FullName, in.IPAddress, in.SponsorRef,
		cfg.WelcomeBonus.Coin, cfg.WelcomeBonus.Speed,
	).Scan(&newID, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUserExists
		}
		return nil, err
	}

	if cfg.WelcomeBonus.Coin > 0 {
		if err := s.balance.ledger.AppendWithTx(ctx, tx, &domain.Transaction{
			UserID:      newID,
			Currency:    domain.CurrencyCoin,
			Amount:      cfg.WelcomeBonus.Coin,
			Type:        domain.TxCredit,
			Description: "Welcome Bonus",
		}); err != nil {
			return nil, err
		}
	}

	chain, err := s.resolveUpline(ctx, tx, in.SponsorRef)
	if err != nil {
		return nil, err
	}

	if err := lockUsersInOrder(ctx, tx, chain, newID); err != nil {
		return nil, err
	}

	for i, sponsor := range chain {
		level := i + 1
		reward := cfg.ReferralRewards.ForLevel(level)

		refCol := 0
		if level == 1 {
			refCol = 1
		}
		_, err = tx.Exec(ctx,
			`UPDATE users
			 SET coin = coin + $2, usd = usd + $3, diamond = diamond + $4,
			     mining_speed = mining_speed + $5,
			     total_team_size = total_team_size + 1,
			     total_referrals = total_referrals + $6
			 WHERE id = $1`,
			sponsor.id, reward.Coin, reward.USD, reward.Diamond, reward.Speed, refCol)
		if err != nil {
			return nil, err
		}

		desc := fmt.Sprintf("Ref Level %d: %s", level, in.Username)
		for _, ca := range reward.CurrencyRewards() {
			if err := s.balance.ledger.AppendWithTx(ctx, tx, &domain.Transaction{
				UserID:      sponsor.id,
				Currency:    ca.Currency,
				Amount:      ca.Amount,
				Type:        domain.TxCredit,
				Description: desc,
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, sponsor := range chain {
		s.balance.NotifyUser(ctx, sponsor.id)
	}
	logger.Info("user registered",
		"user_id", newID, "tg_id", in.TgID, "upline_levels", len(chain))

	return s.users.GetByID(ctx, newID)
}

// resolveUpline follows sponsor references for up to MaxReferralLevels.
// A dangling reference ends the walk; shorter chains are not an error.
func (s *ReferralService) resolveUpline(ctx context.Context, tx pgx.Tx, sponsorRef *int64) ([]uplineSponsor, error) {
	var chain []uplineSponsor
	ref := sponsorRef

	for level := 1; level <= domain.MaxReferralLevels; level++ {
		if ref == nil {
			break
		}

		var sp uplineSponsor
		err := tx.QueryRow(ctx,
			`SELECT id, tg_id, sponsor_id FROM users
			 WHERE tg_id = $1 OR id = $1
			 ORDER BY (tg_id = $1) DESC
			 LIMIT 1`,
			*ref,
		).Scan(&sp.id, &sp.tgID, &sp.sponsorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				break
			}
			return nil, err
		}

		chain = append(chain, sp)
		ref = sp.sponsorID
	}
	return chain, nil
}

// lockUsersInOrder takes row locks on every touched sponsor in ascending id
// order so concurrent registrations into the same upline cannot deadlock.
// The new user's row is already locked by its insert.
func lockUsersInOrder(ctx context.Context, tx pgx.Tx, chain []uplineSponsor, newUserID int64) error {
	ids := make([]int64, 0, len(chain))
	for _, sp := range chain {
		if sp.id != newUserID {
			ids = append(ids, sp.id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		var locked int64
		if err := tx.QueryRow(ctx,
			`SELECT id FROM users WHERE id = $1 FOR UPDATE`, id,
		).Scan(&locked); err != nil {
			return err
		}
	}
	return nil
}

// DownlineCount counts all transitive descendants of a user via sponsor
// links, bounded at domain.DownlineDepthLimit levels. Read-only.
func (s *ReferralService) DownlineCount(ctx context.Context, userID int64) (int, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.users.DownlineCount(ctx, u.TgID)
}

// DirectReferrals lists the users directly recruited by the given user.
func (s *ReferralService) DirectReferrals(ctx context.Context, userID int64, limit int) ([]*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.DirectReferrals(ctx, u.TgID, limit)
}
