// Package iban generates and validates French-style bank account identifiers:
// the BBAN (bank code, branch code, account number, RIB key) and its IBAN
// wrapper with ISO 7064 mod-97 check digits.
package iban

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const countryCode = "FR"

// Domain errors
var (
	ErrInvalidComponent = errors.New("identifier component is not numeric or has wrong length")
	ErrInvalidIBAN      = errors.New("invalid IBAN")
)

// Components is a fully assembled account identifier.
type Components struct {
	BankName      string
	BankCode      string // 5 digits
	BranchCode    string // 5 digits
	AccountNumber string // 11 digits
	RIBKey        string // 2 digits
	BIC           string
}

// ComputeRIBKey computes the 2-digit RIB key for a bank/branch/account triple:
// 97 − ((89·bank + 15·branch + 3·account) mod 97), zero-padded.
// Deterministic: the same triple always yields the same key.
func ComputeRIBKey(bankCode, branchCode, accountNumber string) (string, error) {
	b, err := parseDigits(bankCode, 5)
	if err != nil {
		return "", fmt.Errorf("bank code: %w", err)
	}
	br, err := parseDigits(branchCode, 5)
	if err != nil {
		return "", fmt.Errorf("branch code: %w", err)
	}
	a, err := parseDigits(accountNumber, 11)
	if err != nil {
		return "", fmt.Errorf("account number: %w", err)
	}

	key := 97 - ((89*b + 15*br + 3*a) % 97)
	return fmt.Sprintf("%02d", key), nil
}

// BBAN returns the concatenated national account number.
func (c Components) BBAN() string {
	return c.BankCode + c.BranchCode + c.AccountNumber + c.RIBKey
}

// IBAN returns the full identifier with computed ISO 7064 check digits.
func (c Components) IBAN() string {
	return countryCode + checkDigits(c.BBAN()) + c.BBAN()
}

// Generator draws random branch codes and account numbers for new accounts.
// Draws are uniform in their digit range; uniqueness is not guaranteed here
// and must be enforced by the storage layer's unique constraint on the IBAN.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator backed by the given source. A nil source
// gets a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Generator{rng: rng}
}

// Draw produces a candidate identifier for the given bank profile key.
// Unknown keys fall back to the default profile.
func (g *Generator) Draw(profileKey string) Components {
	p := ProfileFor(profileKey)

	branch := fmt.Sprintf("%05d", g.rng.Intn(100000))
	account := fmt.Sprintf("%011d", g.rng.Int63n(100000000000))

	// Inputs are generated with fixed widths, the key computation cannot fail.
	key, _ := ComputeRIBKey(p.BankCode, branch, account)

	return Components{
		BankName:      p.BankName,
		BankCode:      p.BankCode,
		BranchCode:    branch,
		AccountNumber: account,
		RIBKey:        key,
		BIC:           p.BIC,
	}
}

// Validate checks the structure and ISO 7064 check digits of an IBAN.
// Spaces are tolerated (display format).
func Validate(iban string) error {
	s := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(s) < 5 || len(s) > 34 {
		return ErrInvalidIBAN
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ErrInvalidIBAN
		}
	}
	// Rearrange: move country code + check digits to the end, then mod 97
	// over the digit expansion must equal 1.
	if mod97(s[4:] + s[:4]) != 1 {
		return ErrInvalidIBAN
	}
	return nil
}

// checkDigits computes the two ISO 7064 check digits for a BBAN under the
// fixed country code.
func checkDigits(bban string) string {
	rem := mod97(bban + countryCode + "00")
	return fmt.Sprintf("%02d", 98-rem)
}

// mod97 computes the ISO 7064 remainder of the alphanumeric string s, with
// letters expanded to 10..35, processed incrementally to avoid big integers.
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			rem = (rem*100 + v) % 97
		}
	}
	return rem
}

func parseDigits(s string, width int) (int64, error) {
	if len(s) != width {
		return 0, ErrInvalidComponent
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidComponent
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidComponent
	}
	return n, nil
}
