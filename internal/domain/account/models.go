package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Account kinds
const (
	KindCurrent  = "current"
	KindSavings  = "savings"
	KindBusiness = "business"
)

var accountKinds = map[string]struct{}{
	KindCurrent:  {},
	KindSavings:  {},
	KindBusiness: {},
}

// Currencies accepted for new accounts
var validCurrencies = map[string]struct{}{
	"EUR": {}, "USD": {}, "GBP": {},
}

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateIBAN   = errors.New("iban already exists")
	ErrInvalidKind     = errors.New("invalid account kind")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

// Account is a monetary ledger line owned by exactly one client. The balance
// is derived state: it always equals the signed sum of the account's
// committed transactions and is mutated only through the transaction
// executor, never directly.
type Account struct {
	ID            int64           `json:"id"`
	ClientID      int64           `json:"clientId"`
	IBAN          string          `json:"iban"`
	Currency      string          `json:"currency"`
	Kind          string          `json:"kind"`
	Balance       decimal.Decimal `json:"balance"`
	BankName      string          `json:"bankName"`
	BankCode      string          `json:"bankCode"`
	BranchCode    string          `json:"branchCode"`
	AccountNumber string          `json:"accountNumber"`
	RIBKey        string          `json:"ribKey"`
	BIC           string          `json:"bic"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AccountWithHolder joins an account with its owning client's name, used by
// listing and reporting endpoints.
type AccountWithHolder struct {
	Account
	HolderFirstName string `json:"holderFirstName"`
	HolderLastName  string `json:"holderLastName"`
}

// CreateParams contains parameters for persisting a new account
type CreateParams struct {
	ClientID      int64
	IBAN          string
	Currency      string
	Kind          string
	Balance       decimal.Decimal
	BankName      string
	BankCode      string
	BranchCode    string
	AccountNumber string
	RIBKey        string
	BIC           string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.ClientID <= 0 {
		return errors.New("valid client ID is required")
	}
	if p.IBAN == "" {
		return errors.New("iban is required")
	}
	if !IsValidKind(p.Kind) {
		return ErrInvalidKind
	}
	if !IsValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	if p.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

// SearchFilters narrows account searches. Zero values mean "no filter".
type SearchFilters struct {
	Query      string // matched against IBAN and holder name
	Kind       string
	MinBalance *decimal.Decimal
	MaxBalance *decimal.Decimal
	Limit      int
}

// IsValidKind checks if the provided account kind is valid.
func IsValidKind(k string) bool {
	_, ok := accountKinds[k]
	return ok
}

// IsValidCurrency checks if the provided currency is accepted.
func IsValidCurrency(c string) bool {
	_, ok := validCurrencies[c]
	return ok
}
