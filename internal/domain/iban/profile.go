package iban

// Profile identifies an issuing bank: the fixed bank code and BIC used when
// generating new account identifiers.
type Profile struct {
	Key      string
	BankName string
	BankCode string // 5 digits
	BIC      string
}

// DefaultProfileKey is used when a caller asks for a profile this registry
// does not know. Unknown keys fall back to the default instead of failing.
const DefaultProfileKey = "bnv"

var profiles = map[string]Profile{
	"bnv": {
		Key:      "bnv",
		BankName: "Banque Nouvelle Vague",
		BankCode: "30004",
		BIC:      "BNVAFRPP",
	},
	"cdl": {
		Key:      "cdl",
		BankName: "Crédit du Littoral",
		BankCode: "10207",
		BIC:      "CDLIFRPP",
	},
	"smb": {
		Key:      "smb",
		BankName: "Société Marchande de Banque",
		BankCode: "20041",
		BIC:      "SMBAFRPP",
	},
}

// ProfileFor returns the bank profile registered under key, falling back to
// the default profile for unknown keys.
func ProfileFor(key string) Profile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[DefaultProfileKey]
}

// Profiles returns all registered bank profiles.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	return out
}
