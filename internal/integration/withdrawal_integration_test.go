package integration

import (
	"context"
	"errors"
	"testing"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/service"
)

func fund(t *testing.T, e *engine, userID int64, usd, diamond float64) {
	t.Helper()
	ctx := context.Background()
	if usd > 0 {
		if err := e.balance.Credit(ctx, userID, domain.CurrencyUSD, usd, "Test Funding"); err != nil {
			t.Fatalf("fund usd: %v", err)
		}
	}
	if diamond > 0 {
		if err := e.balance.Credit(ctx, userID, domain.CurrencyDiamond, diamond, "Test Funding"); err != nil {
			t.Fatalf("fund diamond: %v", err)
		}
	}
}

func TestWithdrawal_EscrowAndApprove(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	fund(t, e, u.ID, 20, 30)

	w, err := e.withdrawals.Request(ctx, u.ID, 10, "UQtest_wallet_address")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.Status != domain.WithdrawalPending {
		t.Fatalf("status = %s, want PENDING", w.Status)
	}

	// Amount and fee leave the spendable balance immediately.
	balances, err := e.balance.GetBalances(ctx, u.ID)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if balances[domain.CurrencyUSD] != 10 {
		t.Fatalf("usd after escrow = %v, want 10", balances[domain.CurrencyUSD])
	}
	if balances[domain.CurrencyDiamond] != 20 {
		t.Fatalf("diamond after fee = %v, want 20", balances[domain.CurrencyDiamond])
	}

	approved, err := e.withdrawals.Finalize(ctx, w.ID, domain.WithdrawalApproved, "tx sent")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.WithdrawalApproved {
		t.Fatalf("status = %s, want APPROVED", approved.Status)
	}

	// Approval pays out the escrow; balances stay down.
	balances, _ = e.balance.GetBalances(ctx, u.ID)
	if balances[domain.CurrencyUSD] != 10 || balances[domain.CurrencyDiamond] != 20 {
		t.Fatalf("approval must not refund: %+v", balances)
	}
}

func TestWithdrawal_RejectRefunds(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	fund(t, e, u.ID, 5, 10)

	w, err := e.withdrawals.Request(ctx, u.ID, 5, "UQtest_wallet_address")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := e.withdrawals.Finalize(ctx, w.ID, domain.WithdrawalRejected, "suspicious"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	balances, err := e.balance.GetBalances(ctx, u.ID)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if balances[domain.CurrencyUSD] != 5 {
		t.Fatalf("usd after refund = %v, want 5", balances[domain.CurrencyUSD])
	}
	if balances[domain.CurrencyDiamond] != 10 {
		t.Fatalf("diamond after refund = %v, want 10", balances[domain.CurrencyDiamond])
	}

	logs, err := e.balance.Logs(ctx, u.ID, 50)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	var sawRefund bool
	for _, l := range logs {
		if l.Description == "Withdrawal Refund (Rejected)" && l.Type == domain.TxCredit {
			sawRefund = true
		}
	}
	if !sawRefund {
		t.Fatal("refund log entry missing")
	}
}

func TestWithdrawal_DoubleFinalize(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	fund(t, e, u.ID, 5, 10)

	w, err := e.withdrawals.Request(ctx, u.ID, 2, "UQtest_wallet_address")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := e.withdrawals.Finalize(ctx, w.ID, domain.WithdrawalRejected, "first"); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	_, err = e.withdrawals.Finalize(ctx, w.ID, domain.WithdrawalRejected, "second")
	if !errors.Is(err, service.ErrAlreadyFinalized) {
		t.Fatalf("second finalize error = %v, want ErrAlreadyFinalized", err)
	}

	// The single refund must not be doubled.
	balances, _ := e.balance.GetBalances(ctx, u.ID)
	if balances[domain.CurrencyUSD] != 5 || balances[domain.CurrencyDiamond] != 10 {
		t.Fatalf("double refund detected: %+v", balances)
	}
}

func TestWithdrawal_Validation(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	u := e.register(t, nil)
	fund(t, e, u.ID, 50, 50)

	cases := []struct {
		name    string
		amount  float64
		address string
		wantErr error
	}{
		{"below minimum", 0.5, "UQok", service.ErrAmountOutOfRange},
		{"above maximum", 500, "UQok", service.ErrAmountOutOfRange},
		{"bad address", 10, "EQwrong_prefix", service.ErrInvalidAddress},
		{"empty address", 10, "", service.ErrInvalidAddress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.withdrawals.Request(ctx, u.ID, tc.amount, tc.address)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// Failed requests leave balances untouched.
	balances, _ := e.balance.GetBalances(ctx, u.ID)
	if balances[domain.CurrencyUSD] != 50 || balances[domain.CurrencyDiamond] != 50 {
		t.Fatalf("rejected request mutated balances: %+v", balances)
	}
}

func TestWithdrawal_InsufficientFunds(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	poor := e.register(t, nil)
	fund(t, e, poor.ID, 1, 0)

	_, err := e.withdrawals.Request(ctx, poor.ID, 10, "UQok")
	if !errors.Is(err, service.ErrInsufficientUSD) {
		t.Fatalf("error = %v, want ErrInsufficientUSD", err)
	}

	// Enough USD but not enough diamonds for the fee.
	fund(t, e, poor.ID, 20, 0)
	_, err = e.withdrawals.Request(ctx, poor.ID, 10, "UQok")
	if !errors.Is(err, service.ErrInsufficientDiamond) {
		t.Fatalf("error = %v, want ErrInsufficientDiamond", err)
	}
}
