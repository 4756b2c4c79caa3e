// Package wallets reads the private keys the bot mints from.
package wallets

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

const EnvPrefix = "WALLET_"

var ErrNoWallets = errors.New("no wallets found")

// Credential is one configured private key, still in hex.
type Credential struct {
	Name   string // env key, e.g. WALLET_3
	Secret string
}

// Masked shows the first 6 and last 4 characters of the key.
func (c Credential) Masked() string {
	h := strings.TrimSpace(c.Secret)
	if len(h) <= 10 {
		return "***"
	}
	return h[:6] + "…" + h[len(h)-4:]
}

// FromEnviron collects WALLET_* entries from a KEY=VALUE list such as os.Environ().
// Numbered keys come first in numeric order (WALLET_2 before WALLET_10),
// anything else after them by name. Empty values are ignored.
func FromEnviron(environ []string) ([]Credential, error) {
	var out []Credential
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, Credential{Name: k, Secret: v})
	}
	if len(out) == 0 {
		return nil, ErrNoWallets
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	return out, nil
}

func less(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, EnvPrefix))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, EnvPrefix))
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
