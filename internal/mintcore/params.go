package mintcore

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ligun0805/mintbot/internal/schedule"
)

// Plan is one run: one contract, many wallets.
type Plan struct {
	Contract common.Address
	Wallets  []*Wallet

	// UseContractPrice asks the resolver for price and variant.
	UseContractPrice bool
	// ManualPrice is used when UseContractPrice is off, and as the last
	// resort when resolution fails and PriceFallback is nil.
	ManualPrice   *big.Int
	PriceFallback func(ctx context.Context) (*big.Int, error)

	// Variant overrides DefaultVariant as the starting assumption.
	Variant Variant

	// Schedule is nil for an instant mint.
	Schedule *schedule.Target

	GasRange GasRange
}

// MintRequest is a single wallet's attempt.
type MintRequest struct {
	Index    int
	Contract common.Address
	Wallet   *Wallet
	Fee      FeePolicy
	Variant  Variant
	Price    *big.Int
}

// Outcome is the result of one wallet's attempt. Err is nil on success.
type Outcome struct {
	Index  int
	Wallet common.Address
	Label  string
	// Variant is the shape the transaction was sent with.
	Variant Variant
	// Corrected is set when the sent shape differs from the requested one.
	Corrected *Variant
	TxHash    common.Hash
	Explorer  string
	Err       error
}

func (o Outcome) OK() bool { return o.Err == nil }

type Summary struct {
	Price        *big.Int
	Fee          FeePolicy
	FinalVariant Variant
	Outcomes     []Outcome
}

func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int { return len(s.Outcomes) - s.Succeeded() }
