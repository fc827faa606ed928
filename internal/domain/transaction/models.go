package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry kinds. A transfer entry is the debit side of an
// account-to-account movement; the receiving side is booked as a deposit
// sharing the same reference.
const (
	KindDeposit     = "deposit"
	KindWithdrawal  = "withdrawal"
	KindTransfer    = "transfer"
	KindDirectDebit = "direct_debit"
)

var kinds = map[string]struct{}{
	KindDeposit:     {},
	KindWithdrawal:  {},
	KindTransfer:    {},
	KindDirectDebit: {},
}

// debitKinds reduce the account balance.
var debitKinds = map[string]struct{}{
	KindWithdrawal:  {},
	KindTransfer:    {},
	KindDirectDebit: {},
}

// Domain errors
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameAccount         = errors.New("cannot transfer to the same account")
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrStorage wraps store-level failures surfaced after a full rollback.
	ErrStorage = errors.New("storage failure")
)

// Transaction is an immutable ledger entry. Amount is always the positive
// magnitude; Kind determines the sign applied to the account balance.
type Transaction struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	AccountID   int64           `json:"accountId"`
	ClientID    int64           `json:"clientId"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount carrying the sign its kind applies to the
// account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if IsDebit(t.Kind) {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Entry is a resolved write request handed to the ledger. The executor fills
// in the reference; the ledger resolves the owning client and the timestamp.
type Entry struct {
	Reference   string
	AccountID   int64
	Kind        string
	Amount      decimal.Decimal
	Description string
}

// ExecuteParams describes a single deposit, withdrawal or direct debit.
type ExecuteParams struct {
	AccountID   int64
	Kind        string
	Amount      decimal.Decimal
	Description string
}

// TransferParams describes an account-to-account movement.
type TransferParams struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
}

// SearchFilters narrows transaction listings. Zero values mean "no filter".
type SearchFilters struct {
	AccountID int64
	ClientID  int64
	Kind      string
	From      time.Time
	To        time.Time
	Limit     int
}

// IsValidKind checks if the provided transaction kind is valid.
func IsValidKind(k string) bool {
	_, ok := kinds[k]
	return ok
}

// IsDebit reports whether the kind reduces the balance.
func IsDebit(kind string) bool {
	_, ok := debitKinds[kind]
	return ok
}
