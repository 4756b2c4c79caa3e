package mintcore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand"

	"github.com/ethereum/go-ethereum/core/types"
)

// ErrFeeUnavailable means the chain exposes no base fee (pre-1559).
var ErrFeeUnavailable = errors.New("no baseFee (pre-1559?)")

// BaseFeeMulPct is the gas price markup over the latest base fee, in percent.
const BaseFeeMulPct = 125

type GasRange struct {
	Min uint64
	Max uint64
}

func (r GasRange) Validate() error {
	if r.Min == 0 || r.Min > r.Max || r.Max-r.Min >= math.MaxInt64 {
		return fmt.Errorf("invalid gas limit range [%d, %d]", r.Min, r.Max)
	}
	return nil
}

// Pick draws uniformly from [Min, Max]. r must be valid.
func (r GasRange) Pick(rng *rand.Rand) uint64 {
	span := r.Max - r.Min
	if span == 0 {
		return r.Min
	}
	if rng == nil {
		return r.Min + uint64(rand.Int63n(int64(span)+1))
	}
	return r.Min + uint64(rng.Int63n(int64(span)+1))
}

// FeePolicy is fixed for the whole run and reused for every wallet.
type FeePolicy struct {
	GasLimit uint64
	GasPrice *big.Int
	BaseFee  *big.Int
}

// ComputeFeePolicy prices gas at BaseFeeMulPct of the header's base fee and
// picks a gas limit from r.
func ComputeFeePolicy(head *types.Header, r GasRange, rng *rand.Rand) (FeePolicy, error) {
	if head == nil || head.BaseFee == nil {
		return FeePolicy{}, ErrFeeUnavailable
	}
	if err := r.Validate(); err != nil {
		return FeePolicy{}, err
	}
	price := new(big.Int).Mul(head.BaseFee, big.NewInt(BaseFeeMulPct))
	price.Div(price, big.NewInt(100))
	return FeePolicy{
		GasLimit: r.Pick(rng),
		GasPrice: price,
		BaseFee:  new(big.Int).Set(head.BaseFee),
	}, nil
}

// FetchFeePolicy reads the latest header and computes the run's fee policy from it.
func FetchFeePolicy(ctx context.Context, hr HeaderReader, r GasRange, rng *rand.Rand) (FeePolicy, error) {
	head, err := hr.HeaderByNumber(ctx, nil)
	if err != nil {
		return FeePolicy{}, fmt.Errorf("head: %w", err)
	}
	return ComputeFeePolicy(head, r, rng)
}
