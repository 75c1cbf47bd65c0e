package domain

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMinedAmount_Proportional(t *testing.T) {
	// 5 minute session, speed 1 coin/hour, claim after 3 minutes
	got := MinedAmount(3*time.Minute, 1, 5)
	want := 3.0 / 60.0
	if !almostEqual(got, want) {
		t.Fatalf("mined = %v, want %v", got, want)
	}
}

func TestMinedAmount_CappedAtSession(t *testing.T) {
	want := MinedAmount(5*time.Minute, 1, 5)

	for _, elapsed := range []time.Duration{5 * time.Minute, 6 * time.Minute, time.Hour, 48 * time.Hour} {
		got := MinedAmount(elapsed, 1, 5)
		if !almostEqual(got, want) {
			t.Fatalf("mined(%v) = %v, want cap %v", elapsed, got, want)
		}
	}

	if !almostEqual(want, 5.0/60.0) {
		t.Fatalf("cap = %v, want %v", want, 5.0/60.0)
	}
}

func TestMinedAmount_MonotonicBelowCap(t *testing.T) {
	prev := -1.0
	for s := 0; s <= 300; s += 30 {
		got := MinedAmount(time.Duration(s)*time.Second, 2.5, 5)
		if got < prev {
			t.Fatalf("mined not monotonic at %ds: %v < %v", s, got, prev)
		}
		prev = got
	}
}

func TestMinedAmount_NegativeElapsed(t *testing.T) {
	if got := MinedAmount(-time.Minute, 1, 5); got != 0 {
		t.Fatalf("mined for negative elapsed = %v, want 0", got)
	}
}

func TestMiningProgress(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{150 * time.Second, 50},
		{5 * time.Minute, 100},
		{time.Hour, 100},
	}
	for _, c := range cases {
		if got := MiningProgress(c.elapsed, 5); !almostEqual(got, c.want) {
			t.Fatalf("progress(%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestReferralRewards_ForLevel(t *testing.T) {
	rr := ReferralRewards{
		Lev1:    ReferralReward{Coin: 100, Speed: 0.5, USD: 1, Diamond: 2},
		Lev2to5: ReferralReward{Coin: 10, Speed: 0.1, USD: 0.1, Diamond: 1},
	}

	if got := rr.ForLevel(1); got != rr.Lev1 {
		t.Fatalf("level 1 = %+v, want lev1 tuple", got)
	}
	for lvl := 2; lvl <= 5; lvl++ {
		if got := rr.ForLevel(lvl); got != rr.Lev2to5 {
			t.Fatalf("level %d = %+v, want lev2to5 tuple", lvl, got)
		}
	}
}

func TestReferralReward_CurrencyRewards_SkipsZero(t *testing.T) {
	r := ReferralReward{Coin: 50, USD: 0, Diamond: 1}
	got := r.CurrencyRewards()
	if len(got) != 2 {
		t.Fatalf("got %d rewards, want 2", len(got))
	}
	if got[0].Currency != CurrencyCoin || got[1].Currency != CurrencyDiamond {
		t.Fatalf("unexpected payout order: %+v", got)
	}
}

func TestTask_CurrencyRewards(t *testing.T) {
	task := Task{RewardUSD: 0.5, RewardSpeed: 0.05}
	got := task.CurrencyRewards()
	if len(got) != 1 || got[0].Currency != CurrencyUSD || got[0].Amount != 0.5 {
		t.Fatalf("unexpected rewards: %+v", got)
	}
}

func TestDayString_UTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on Jan 2 in UTC+5 is still Jan 1 in UTC
	ts := time.Date(2024, 1, 2, 2, 30, 0, 0, loc)
	if got := DayString(ts); got != "2024-01-01" {
		t.Fatalf("day = %q, want 2024-01-01", got)
	}
}
