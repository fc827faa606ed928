package transaction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ledgerdesk/internal/domain/account"

	"github.com/shopspring/decimal"
)

// fakeLedger mimics the store's row locking with one mutex per account so
// the executor can be exercised under real goroutine interleaving.
type fakeLedger struct {
	mu       sync.Mutex
	locks    map[int64]*sync.Mutex
	balances map[int64]decimal.Decimal
	entries  []*Transaction
	nextID   int64

	applyErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		locks:    make(map[int64]*sync.Mutex),
		balances: make(map[int64]decimal.Decimal),
		nextID:   1,
	}
}

func (f *fakeLedger) addAccount(id int64, balance decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks[id] = &sync.Mutex{}
	f.balances[id] = balance
}

func (f *fakeLedger) balance(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[id]
}

func (f *fakeLedger) entryCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.AccountID == id {
			n++
		}
	}
	return n
}

func (f *fakeLedger) rowLock(id int64) (*sync.Mutex, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[id]
	return l, ok
}

// applyLocked performs the check-and-write for one entry. The caller must
// hold the account's row lock.
func (f *fakeLedger) applyLocked(entry Entry) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := &Transaction{
		ID:          f.nextID,
		Reference:   entry.Reference,
		AccountID:   entry.AccountID,
		Kind:        entry.Kind,
		Amount:      entry.Amount,
		Description: entry.Description,
		CreatedAt:   time.Now(),
	}
	next := f.balances[entry.AccountID].Add(tx.SignedAmount())
	if next.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	f.nextID++
	f.balances[entry.AccountID] = next
	f.entries = append(f.entries, tx)
	return tx, nil
}

func (f *fakeLedger) Apply(ctx context.Context, entry Entry) (*Transaction, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	lock, ok := f.rowLock(entry.AccountID)
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	lock.Lock()
	defer lock.Unlock()
	return f.applyLocked(entry)
}

func (f *fakeLedger) Transfer(ctx context.Context, debit, credit Entry) (*Transaction, *Transaction, error) {
	debitLock, ok := f.rowLock(debit.AccountID)
	if !ok {
		return nil, nil, account.ErrAccountNotFound
	}
	creditLock, ok := f.rowLock(credit.AccountID)
	if !ok {
		return nil, nil, account.ErrAccountNotFound
	}

	// lock in id order, the same discipline the store uses
	first, second := debitLock, creditLock
	if credit.AccountID < debit.AccountID {
		first, second = creditLock, debitLock
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	out, err := f.applyLocked(debit)
	if err != nil {
		return nil, nil, err
	}
	in, err := f.applyLocked(credit)
	if err != nil {
		return nil, nil, err
	}
	return out, in, nil
}

func (f *fakeLedger) GetByReference(ctx context.Context, reference string) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Reference == reference {
			return e, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (f *fakeLedger) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Transaction
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].AccountID == accountID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func TestExecute_Validation(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.NewFromInt(100))
	executor := NewExecutor(ledger)

	tests := []struct {
		name    string
		params  ExecuteParams
		wantErr error
	}{
		{"zero amount", ExecuteParams{AccountID: 1, Kind: KindDeposit, Amount: decimal.Zero}, ErrInvalidAmount},
		{"negative amount", ExecuteParams{AccountID: 1, Kind: KindDeposit, Amount: decimal.NewFromInt(-5)}, ErrInvalidAmount},
		{"unknown kind", ExecuteParams{AccountID: 1, Kind: "loan", Amount: decimal.NewFromInt(5)}, ErrInvalidKind},
		{"transfer kind rejected", ExecuteParams{AccountID: 1, Kind: KindTransfer, Amount: decimal.NewFromInt(5)}, ErrInvalidKind},
		{"missing account id", ExecuteParams{Kind: KindDeposit, Amount: decimal.NewFromInt(5)}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executor.Execute(context.Background(), tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if len(ledger.entries) != 0 {
		t.Errorf("rejected calls must not write entries, got %d", len(ledger.entries))
	}
}

func TestExecute_UnknownAccount(t *testing.T) {
	executor := NewExecutor(newFakeLedger())

	_, err := executor.Execute(context.Background(), ExecuteParams{
		AccountID: 99, Kind: KindDeposit, Amount: decimal.NewFromInt(10),
	})
	if !errors.Is(err, account.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestExecute_InsufficientFundsLeavesNoTrace(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.NewFromInt(100))
	executor := NewExecutor(ledger)

	_, err := executor.Execute(context.Background(), ExecuteParams{
		AccountID: 1, Kind: KindWithdrawal, Amount: decimal.NewFromInt(150),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !ledger.balance(1).Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance changed on failed withdrawal: %s", ledger.balance(1))
	}
	if ledger.entryCount(1) != 0 {
		t.Errorf("failed withdrawal wrote %d entries", ledger.entryCount(1))
	}
}

func TestExecute_DepositAndWithdrawal(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.Zero)
	executor := NewExecutor(ledger)

	tx, err := executor.Execute(context.Background(), ExecuteParams{
		AccountID: 1, Kind: KindDeposit, Amount: decimal.RequireFromString("250.50"), Description: "payroll",
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if tx.Reference == "" {
		t.Error("expected a generated reference")
	}
	if !ledger.balance(1).Equal(decimal.RequireFromString("250.50")) {
		t.Errorf("expected balance 250.50, got %s", ledger.balance(1))
	}

	if _, err := executor.Execute(context.Background(), ExecuteParams{
		AccountID: 1, Kind: KindWithdrawal, Amount: decimal.RequireFromString("50.50"),
	}); err != nil {
		t.Fatalf("withdrawal failed: %v", err)
	}
	if !ledger.balance(1).Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected balance 200, got %s", ledger.balance(1))
	}

	got, err := executor.Get(context.Background(), tx.Reference)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != tx.ID {
		t.Errorf("expected entry %d, got %d", tx.ID, got.ID)
	}
}

func TestExecute_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.NewFromInt(100))
	executor := NewExecutor(ledger)

	const attempts = 20
	amount := decimal.NewFromInt(10)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := executor.Execute(context.Background(), ExecuteParams{
				AccountID: 1, Kind: KindWithdrawal, Amount: amount,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 10 || rejected != 10 {
		t.Errorf("expected 10 successes and 10 rejections, got %d and %d", succeeded, rejected)
	}
	if !ledger.balance(1).IsZero() {
		t.Errorf("expected final balance 0, got %s", ledger.balance(1))
	}
	if ledger.entryCount(1) != 10 {
		t.Errorf("expected 10 committed entries, got %d", ledger.entryCount(1))
	}
}

func TestTransfer(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.NewFromInt(100))
	ledger.addAccount(2, decimal.Zero)
	executor := NewExecutor(ledger)

	out, in, err := executor.Transfer(context.Background(), TransferParams{
		FromAccountID: 1, ToAccountID: 2, Amount: decimal.NewFromInt(60), Description: "rent",
	})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if out.Reference != in.Reference {
		t.Errorf("legs carry different references: %s vs %s", out.Reference, in.Reference)
	}
	if out.Kind != KindTransfer || in.Kind != KindDeposit {
		t.Errorf("unexpected leg kinds: %s, %s", out.Kind, in.Kind)
	}
	if !ledger.balance(1).Equal(decimal.NewFromInt(40)) || !ledger.balance(2).Equal(decimal.NewFromInt(60)) {
		t.Errorf("balances after transfer: %s, %s", ledger.balance(1), ledger.balance(2))
	}
}

func TestTransfer_Validation(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(1, decimal.NewFromInt(100))
	executor := NewExecutor(ledger)

	if _, _, err := executor.Transfer(context.Background(), TransferParams{
		FromAccountID: 1, ToAccountID: 1, Amount: decimal.NewFromInt(10),
	}); !errors.Is(err, ErrSameAccount) {
		t.Errorf("expected ErrSameAccount, got %v", err)
	}
	if _, _, err := executor.Transfer(context.Background(), TransferParams{
		FromAccountID: 1, ToAccountID: 2, Amount: decimal.Zero,
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

// The Jane Doe scenario: open with zero balance, deposit 100, bounce a 150
// withdrawal, then withdraw 40.
func TestExecute_DepositWithdrawScenario(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addAccount(7, decimal.Zero)
	executor := NewExecutor(ledger)
	ctx := context.Background()

	if _, err := executor.Execute(ctx, ExecuteParams{
		AccountID: 7, Kind: KindDeposit, Amount: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !ledger.balance(7).Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected balance 100.00, got %s", ledger.balance(7))
	}

	_, err := executor.Execute(ctx, ExecuteParams{
		AccountID: 7, Kind: KindWithdrawal, Amount: decimal.RequireFromString("150.00"),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !ledger.balance(7).Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("balance changed on rejected withdrawal: %s", ledger.balance(7))
	}

	if _, err := executor.Execute(ctx, ExecuteParams{
		AccountID: 7, Kind: KindWithdrawal, Amount: decimal.RequireFromString("40.00"),
	}); err != nil {
		t.Fatalf("withdrawal failed: %v", err)
	}
	if !ledger.balance(7).Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected balance 60.00, got %s", ledger.balance(7))
	}
	if ledger.entryCount(7) != 2 {
		t.Errorf("expected 2 committed entries, got %d", ledger.entryCount(7))
	}

	history, err := executor.History(ctx, 7, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Kind != KindWithdrawal || history[1].Kind != KindDeposit {
		t.Errorf("history not most-recent-first: %s, %s", history[0].Kind, history[1].Kind)
	}
}
