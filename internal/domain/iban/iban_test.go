package iban

import (
	"math/rand"
	"strconv"
	"testing"
)

func TestComputeRIBKey_Checksum(t *testing.T) {
	tests := []struct {
		name          string
		bankCode      string
		branchCode    string
		accountNumber string
	}{
		{"AllZeros", "00000", "00000", "00000000000"},
		{"Small", "30004", "00001", "00000000042"},
		{"Typical", "20041", "01005", "05000013026"},
		{"Max", "99999", "99999", "99999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ComputeRIBKey(tt.bankCode, tt.branchCode, tt.accountNumber)
			if err != nil {
				t.Fatalf("ComputeRIBKey() failed: %v", err)
			}

			if len(key) != 2 {
				t.Errorf("ComputeRIBKey() = %q, want 2 digits", key)
			}

			b, _ := strconv.ParseInt(tt.bankCode, 10, 64)
			br, _ := strconv.ParseInt(tt.branchCode, 10, 64)
			a, _ := strconv.ParseInt(tt.accountNumber, 10, 64)
			k, _ := strconv.ParseInt(key, 10, 64)

			if (89*b+15*br+3*a+k)%97 != 0 {
				t.Errorf("checksum property violated for key %q", key)
			}
		})
	}
}

func TestComputeRIBKey_ChecksumSweep(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		b := rng.Int63n(100000)
		br := rng.Int63n(100000)
		a := rng.Int63n(100000000000)

		key, err := ComputeRIBKey(
			pad(b, 5), pad(br, 5), pad(a, 11),
		)
		if err != nil {
			t.Fatalf("ComputeRIBKey() failed: %v", err)
		}
		k, _ := strconv.ParseInt(key, 10, 64)
		if (89*b+15*br+3*a+k)%97 != 0 {
			t.Fatalf("checksum property violated: b=%d br=%d a=%d key=%s", b, br, a, key)
		}
		if k < 1 || k > 97 {
			t.Fatalf("key %d out of range", k)
		}
	}
}

func TestComputeRIBKey_Deterministic(t *testing.T) {
	first, err := ComputeRIBKey("30004", "01234", "00123456789")
	if err != nil {
		t.Fatalf("ComputeRIBKey() failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeRIBKey("30004", "01234", "00123456789")
		if err != nil {
			t.Fatalf("ComputeRIBKey() failed: %v", err)
		}
		if again != first {
			t.Fatalf("ComputeRIBKey() not deterministic: %q then %q", first, again)
		}
	}
}

func TestComputeRIBKey_InvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		bankCode      string
		branchCode    string
		accountNumber string
	}{
		{"ShortBankCode", "3004", "00001", "00000000001"},
		{"LongBranch", "30004", "000001", "00000000001"},
		{"NonNumeric", "30004", "0000a", "00000000001"},
		{"SignedAccount", "30004", "00001", "+0000000001"},
		{"Empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeRIBKey(tt.bankCode, tt.branchCode, tt.accountNumber); err == nil {
				t.Error("ComputeRIBKey() accepted invalid input")
			}
		})
	}
}

func TestGenerator_Draw(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(42)))

	c := g.Draw("bnv")
	if c.BankCode != "30004" {
		t.Errorf("Draw() bank code = %q, want %q", c.BankCode, "30004")
	}
	if len(c.BranchCode) != 5 || len(c.AccountNumber) != 11 || len(c.RIBKey) != 2 {
		t.Errorf("Draw() produced malformed components: %+v", c)
	}
	if c.BIC == "" || c.BankName == "" {
		t.Errorf("Draw() missing bank identity: %+v", c)
	}

	if got := len(c.BBAN()); got != 23 {
		t.Errorf("BBAN() length = %d, want 23", got)
	}
}

func TestGenerator_UnknownProfileFallsBack(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	def := ProfileFor(DefaultProfileKey)
	c := g.Draw("no-such-bank")
	if c.BankCode != def.BankCode || c.BIC != def.BIC {
		t.Errorf("Draw() with unknown profile = %+v, want default profile %+v", c, def)
	}
}

func TestIBAN_ValidatesAfterGeneration(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(99)))

	for i := 0; i < 100; i++ {
		c := g.Draw("cdl")
		id := c.IBAN()
		if len(id) != 27 {
			t.Fatalf("IBAN() length = %d, want 27 (%s)", len(id), id)
		}
		if err := Validate(id); err != nil {
			t.Fatalf("generated IBAN %q does not validate: %v", id, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		iban    string
		wantErr bool
	}{
		{"KnownGoodFR", "FR1420041010050500013M02606", false},
		{"KnownGoodWithSpaces", "FR14 2004 1010 0505 0001 3M02 606", false},
		{"KnownGoodDE", "DE89370400440532013000", false},
		{"WrongCheckDigits", "FR1520041010050500013M02606", true},
		{"TooShort", "FR14", true},
		{"IllegalCharacter", "FR14 2004!010050500013M02606", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.iban)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.iban, err, tt.wantErr)
			}
		})
	}
}

func pad(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
