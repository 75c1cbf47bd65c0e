package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/service"
)

func TestLedger_BoundedAtFiftyEntries(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)

	// Registration wrote the welcome bonus entry; push well past the cap.
	for i := 0; i < 60; i++ {
		desc := fmt.Sprintf("Credit #%d", i)
		if err := e.balance.Credit(ctx, u.ID, domain.CurrencyCoin, 1, desc); err != nil {
			t.Fatalf("credit %d: %v", i, err)
		}
	}

	n, err := e.ledger.CountByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != domain.MaxUserLogEntries {
		t.Fatalf("log entries = %d, want %d", n, domain.MaxUserLogEntries)
	}

	logs, err := e.ledger.GetByUserID(ctx, u.ID, domain.MaxUserLogEntries)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if logs[0].Description != "Credit #59" {
		t.Fatalf("newest entry = %q, want Credit #59", logs[0].Description)
	}
	// The oldest survivors are the newest 50; the welcome bonus and the first
	// ten credits were pruned.
	oldest := logs[len(logs)-1]
	if oldest.Description != "Credit #10" {
		t.Fatalf("oldest entry = %q, want Credit #10", oldest.Description)
	}
}

func TestLedger_RejectedCreditWritesNothing(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	before, err := e.ledger.CountByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if err := e.balance.Credit(ctx, u.ID, domain.Currency("GOLD"), 1, "bogus"); !errors.Is(err, service.ErrInvalidCurrency) {
		t.Fatalf("unknown currency error = %v, want ErrInvalidCurrency", err)
	}
	if err := e.balance.Credit(ctx, u.ID, domain.CurrencyCoin, -5, "bogus"); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("negative amount error = %v, want ErrInvalidAmount", err)
	}

	after, err := e.ledger.CountByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if after != before {
		t.Fatalf("rejected credits wrote %d ledger entries", after-before)
	}
}
