package mintcore

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// Parse hex ECDSA private key (with / without 0x).
func hexToECDSAPriv(s string) (*ecdsa.PrivateKey, error) {
	h := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if len(h) == 0 {
		return nil, errors.New("empty private key")
	}
	return gethcrypto.HexToECDSA(h)
}

const etherDecimals = 18

// ParseEther converts a decimal amount of the native token into wei.
// Negative amounts and more than 18 fractional digits are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("bad amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("bad amount %q: negative", s)
	}
	wei := d.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("bad amount %q: more than %d decimals", s, etherDecimals)
	}
	return wei.BigInt(), nil
}

// Human-readable helpers (ETH/gwei).
func FormatEther(x *big.Int) string {
	if x == nil {
		return "0"
	}
	return decimal.NewFromBigInt(x, -etherDecimals).String()
}

func FormatGwei(x *big.Int) string {
	if x == nil {
		return "0"
	}
	return decimal.NewFromBigInt(x, -9).StringFixed(2)
}
