package integration

import (
	"context"
	"errors"
	"math"
	"testing"

	"mining_webapp/internal/service"
)

func TestMining_SessionLifecycle(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)

	if _, err := e.mining.ClaimAndRestart(ctx, u.ID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("claim before start = %v, want ErrNoActiveSession", err)
	}

	if err := e.mining.Start(ctx, u.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.mining.Start(ctx, u.ID); !errors.Is(err, service.ErrSessionActive) {
		t.Fatalf("second start = %v, want ErrSessionActive", err)
	}

	st, err := e.mining.Status(ctx, u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.Active || st.StartedAt == nil {
		t.Fatalf("status after start = %+v", st)
	}
}

func TestMining_ClaimCapsAtFullSession(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	if err := e.mining.Start(ctx, u.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Backdate the session start well past the session length so the claim
	// hits the cap.
	if _, err := e.db.Exec(ctx,
		`UPDATE users SET mining_started_at = mining_started_at - interval '2 hours' WHERE id = $1`,
		u.ID); err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	cfg, err := e.config.Get(ctx)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	reloaded, err := e.users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	wantMined := float64(cfg.MiningSessionMinutes) / 60 * reloaded.MiningSpeed

	res, err := e.mining.ClaimAndRestart(ctx, u.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if math.Abs(res.Mined-wantMined) > 1e-9 {
		t.Fatalf("mined = %v, want %v (capped at one session)", res.Mined, wantMined)
	}
	if math.Abs(res.NewBalance-(reloaded.Coin+wantMined)) > 1e-6 {
		t.Fatalf("new balance = %v, want %v", res.NewBalance, reloaded.Coin+wantMined)
	}

	// The session restarts; a claim right away yields next to nothing.
	st, err := e.mining.Status(ctx, u.ID)
	if err != nil {
		t.Fatalf("status after claim: %v", err)
	}
	if !st.Active {
		t.Fatal("session not restarted after claim")
	}
	if st.Accrued > wantMined/100 {
		t.Fatalf("accrued right after restart = %v", st.Accrued)
	}

	logs, err := e.balance.Logs(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if logs[0].Description != "Mining Claim" {
		t.Fatalf("newest log = %q, want Mining Claim", logs[0].Description)
	}
}

func TestDailyCheckin_OncePerDay(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)

	claimed, err := e.checkin.Claim(ctx, u.ID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if !claimed {
		t.Fatal("first claim of the day must succeed")
	}

	claimed, err = e.checkin.Claim(ctx, u.ID)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if claimed {
		t.Fatal("second claim on the same day must be a no-op")
	}

	reloaded, err := e.users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Star != 1 {
		t.Fatalf("star = %v, want 1", reloaded.Star)
	}
	if reloaded.DailyLogins != 1 {
		t.Fatalf("daily_logins = %d, want 1", reloaded.DailyLogins)
	}

	// A stale stamp makes the next claim valid again.
	if _, err := e.db.Exec(ctx,
		`UPDATE users SET last_daily_login = '2000-01-01' WHERE id = $1`,
		u.ID); err != nil {
		t.Fatalf("backdate login: %v", err)
	}
	claimed, err = e.checkin.Claim(ctx, u.ID)
	if err != nil || !claimed {
		t.Fatalf("next-day claim = (%v, %v), want (true, nil)", claimed, err)
	}
}
