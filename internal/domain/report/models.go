package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var ErrInvalidInput = errors.New("invalid input")

// Overview carries the dashboard headline figures: how many clients are
// active, how many entries were booked today, and the all-time deposit and
// withdrawal sums.
type Overview struct {
	ActiveClients     int64           `json:"activeClients"`
	TodayTransactions int64           `json:"todayTransactions"`
	TotalDeposits     decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals  decimal.Decimal `json:"totalWithdrawals"`
}

// DayTotals is one day's deposit and withdrawal sums.
type DayTotals struct {
	Day         time.Time       `json:"day"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
}

// TypeCount is the number of clients in one category.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// TransactionDetail is a ledger entry joined with its account and holder,
// the shape the dashboard lists and searches over.
type TransactionDetail struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	AccountID   int64           `json:"accountId"`
	IBAN        string          `json:"iban"`
	HolderName  string          `json:"holderName"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SearchFilters narrows transaction detail queries. Zero values mean "no
// filter".
type SearchFilters struct {
	Query string // matched against holder name, IBAN and description
	Kind  string
	From  time.Time
	To    time.Time
	Limit int
}
