package integration

import (
	"context"
	"errors"
	"testing"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/service"
)

func TestRegister_WelcomeBonus(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)

	cfg, err := e.config.Get(ctx)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if u.Coin != cfg.WelcomeBonus.Coin {
		t.Fatalf("welcome coin = %v, want %v", u.Coin, cfg.WelcomeBonus.Coin)
	}
	if u.MiningSpeed != cfg.WelcomeBonus.Speed {
		t.Fatalf("welcome speed = %v, want %v", u.MiningSpeed, cfg.WelcomeBonus.Speed)
	}

	logs, err := e.balance.Logs(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Description != "Welcome Bonus" {
		t.Fatalf("expected single Welcome Bonus log, got %+v", logs)
	}
}

func TestRegister_FiveLevelDistribution(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	// Build a chain of 6 ancestors: root <- a2 <- ... <- a6.
	chain := make([]*domain.User, 6)
	chain[0] = e.register(t, nil)
	for i := 1; i < 6; i++ {
		ref := chain[i-1].TgID
		chain[i] = e.register(t, &ref)
	}

	cfg, err := e.config.Get(ctx)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}

	// Snapshot balances before the registration under test.
	type snap struct{ coin, usd, diamond, speed float64 }
	before := make([]snap, 6)
	for i, a := range chain {
		u, err := e.users.GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("reload ancestor: %v", err)
		}
		before[i] = snap{u.Coin, u.USD, u.Diamond, u.MiningSpeed}
	}

	deepest := chain[5].TgID
	newcomer := e.register(t, &deepest)

	// Levels 1..5 walk from the deepest ancestor upward; chain[0] is level 6
	// from the newcomer and must get nothing.
	for i := 5; i >= 1; i-- {
		level := 6 - i
		reward := cfg.ReferralRewards.ForLevel(level)

		u, err := e.users.GetByID(ctx, chain[i].ID)
		if err != nil {
			t.Fatalf("reload ancestor: %v", err)
		}
		if got, want := u.Coin-before[i].coin, reward.Coin; got != want {
			t.Errorf("level %d coin delta = %v, want %v", level, got, want)
		}
		if got, want := u.USD-before[i].usd, reward.USD; got != want {
			t.Errorf("level %d usd delta = %v, want %v", level, got, want)
		}
		if got, want := u.Diamond-before[i].diamond, reward.Diamond; got != want {
			t.Errorf("level %d diamond delta = %v, want %v", level, got, want)
		}
		if got, want := u.MiningSpeed-before[i].speed, reward.Speed; got != want {
			t.Errorf("level %d speed delta = %v, want %v", level, got, want)
		}
	}

	sixth, err := e.users.GetByID(ctx, chain[0].ID)
	if err != nil {
		t.Fatalf("reload sixth ancestor: %v", err)
	}
	if sixth.Coin != before[0].coin || sixth.USD != before[0].usd {
		t.Fatalf("sixth-level ancestor was credited: coin %v->%v usd %v->%v",
			before[0].coin, sixth.Coin, before[0].usd, sixth.USD)
	}

	// Only the direct sponsor counts the newcomer as a referral.
	direct, err := e.users.GetByID(ctx, chain[5].ID)
	if err != nil {
		t.Fatalf("reload direct sponsor: %v", err)
	}
	if direct.TotalReferrals != 1 {
		t.Fatalf("direct sponsor total_referrals = %d, want 1", direct.TotalReferrals)
	}
	indirect, err := e.users.GetByID(ctx, chain[4].ID)
	if err != nil {
		t.Fatalf("reload indirect sponsor: %v", err)
	}
	if indirect.TotalReferrals != 1 {
		// chain[4] recruited chain[5] directly, nothing more.
		t.Fatalf("indirect sponsor total_referrals = %d, want 1", indirect.TotalReferrals)
	}

	// Sponsor ledgers record the payout per currency.
	logs, err := e.balance.Logs(ctx, chain[5].ID, 50)
	if err != nil {
		t.Fatalf("sponsor logs: %v", err)
	}
	found := 0
	for _, l := range logs {
		if l.Description == "Ref Level 1: "+newcomer.Username {
			found++
		}
	}
	if want := len(cfg.ReferralRewards.Lev1.CurrencyRewards()); found != want {
		t.Fatalf("level 1 log entries = %d, want %d", found, want)
	}
}

func TestRegister_ShortChainStopsAtRoot(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	root := e.register(t, nil) // no sponsor, walk must end here
	rootRef := root.TgID
	mid := e.register(t, &rootRef)

	rootBefore, _ := e.users.GetByID(ctx, root.ID)
	midRef := mid.TgID
	e.register(t, &midRef)

	cfg, _ := e.config.Get(ctx)

	midAfter, err := e.users.GetByID(ctx, mid.ID)
	if err != nil {
		t.Fatalf("reload mid: %v", err)
	}
	if got := midAfter.TotalReferrals; got != 1 {
		t.Fatalf("mid total_referrals = %d, want 1", got)
	}

	rootAfter, err := e.users.GetByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("reload root: %v", err)
	}
	// Root is level 2 for the newcomer and the walk ends with it.
	if got, want := rootAfter.Coin-rootBefore.Coin, cfg.ReferralRewards.Lev2to5.Coin; got != want {
		t.Fatalf("root coin delta = %v, want %v", got, want)
	}
	if rootAfter.TotalTeamSize != 2 {
		t.Fatalf("root team size = %d, want 2", rootAfter.TotalTeamSize)
	}
}

func TestRegister_DanglingSponsorEndsWalk(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	missing := nextTgID() // never registered
	u := e.register(t, &missing)

	reloaded, err := e.users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.SponsorID == nil || *reloaded.SponsorID != missing {
		t.Fatalf("sponsor_id not recorded for dangling ref")
	}

	cfg, _ := e.config.Get(ctx)
	if reloaded.Coin != cfg.WelcomeBonus.Coin {
		t.Fatalf("welcome bonus not applied under dangling sponsor")
	}
}

func TestRegister_DuplicateTgID(t *testing.T) {
	e := newEngine(testPool(t))

	u := e.register(t, nil)

	_, err := e.referrals.Register(context.Background(), service.RegisterInput{
		TgID:     u.TgID,
		Username: u.Username,
	})
	if !errors.Is(err, service.ErrUserExists) {
		t.Fatalf("duplicate registration error = %v, want ErrUserExists", err)
	}
}

func TestDownlineCount(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	root := e.register(t, nil)
	ref := root.TgID
	child := e.register(t, &ref)
	childRef := child.TgID
	e.register(t, &childRef)
	e.register(t, &ref)

	n, err := e.referrals.DownlineCount(ctx, root.ID)
	if err != nil {
		t.Fatalf("downline count: %v", err)
	}
	if n != 3 {
		t.Fatalf("downline count = %d, want 3", n)
	}

	direct, err := e.referrals.DirectReferrals(ctx, root.ID, 10)
	if err != nil {
		t.Fatalf("direct referrals: %v", err)
	}
	if len(direct) != 2 {
		t.Fatalf("direct referrals = %d, want 2", len(direct))
	}
}
