package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

var tgIDCounter atomic.Int64

// nextTgID hands out unique fake Telegram IDs so test runs never collide on
// the tg_id unique index, even against a dirty database.
func nextTgID() int64 {
	return time.Now().UnixNano()%1e12 + tgIDCounter.Add(1)
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// engine bundles the full service stack against one pool.
type engine struct {
	db          *pgxpool.Pool
	balance     *service.BalanceService
	mining      *service.MiningService
	checkin     *service.CheckinService
	tasks       *service.TaskService
	referrals   *service.ReferralService
	withdrawals *service.WithdrawalService
	config      *service.ConfigService

	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	taskDB *repository.TaskRepository
}

func newEngine(db *pgxpool.Pool) *engine {
	balance := service.NewBalanceService(db)
	cfg := service.NewConfigService(db)
	return &engine{
		db:          db,
		balance:     balance,
		mining:      service.NewMiningService(db, balance, cfg),
		checkin:     service.NewCheckinService(db, balance),
		tasks:       service.NewTaskService(db, balance),
		referrals:   service.NewReferralService(db, balance, cfg),
		withdrawals: service.NewWithdrawalService(db, balance, cfg),
		config:      cfg,
		users:       repository.NewUserRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		taskDB:      repository.NewTaskRepository(db),
	}
}

// register creates a user through the normal registration path.
func (e *engine) register(t *testing.T, sponsorRef *int64) *domain.User {
	t.Helper()
	tgID := nextTgID()
	u, err := e.referrals.Register(context.Background(), service.RegisterInput{
		TgID:       tgID,
		Username:   fmt.Sprintf("user_%d", tgID),
		FullName:   "Test User",
		SponsorRef: sponsorRef,
	})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	return u
}
