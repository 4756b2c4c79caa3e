package mintcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/ligun0805/mintbot/internal/logging"
	"github.com/ligun0805/mintbot/internal/schedule"
)

type ConfigResolver interface {
	Resolve(ctx context.Context, contract common.Address) (*Resolution, error)
}

type MintExecutor interface {
	Execute(ctx context.Context, req MintRequest) Outcome
}

type Awaiter interface {
	Await(ctx context.Context, t schedule.Target) (waited bool, err error)
}

// Runner drives one Plan: price, schedule, fee, then every wallet in order.
type Runner struct {
	resolver ConfigResolver
	executor MintExecutor
	waiter   Awaiter
	headers  HeaderReader
	rng      *rand.Rand
	logger   zerolog.Logger
}

// NewRunner wires the run's collaborators. rng may be nil.
func NewRunner(resolver ConfigResolver, executor MintExecutor, waiter Awaiter, headers HeaderReader, rng *rand.Rand, logger zerolog.Logger) *Runner {
	return &Runner{
		resolver: resolver,
		executor: executor,
		waiter:   waiter,
		headers:  headers,
		rng:      rng,
		logger:   logger,
	}
}

// Run mints once per wallet of p. Setup failures (fee policy, cancelled
// wait) abort the run with an error; per-wallet failures end up in the
// Summary, which always has one outcome per wallet in plan order.
func (r *Runner) Run(ctx context.Context, p Plan) (*Summary, error) {
	if len(p.Wallets) == 0 {
		return nil, errors.New("plan has no wallets")
	}

	current := p.Variant
	if current == "" {
		current = DefaultVariant
	}

	price, variant, err := r.resolvePrice(ctx, p, current)
	if err != nil {
		return nil, err
	}
	current = variant

	if p.Schedule != nil {
		r.logger.Info().Time("at", p.Schedule.At).Msg("waiting for scheduled mint time")
		waited, err := r.waiter.Await(ctx, *p.Schedule)
		if err != nil {
			return nil, fmt.Errorf("scheduled wait: %w", err)
		}
		if !waited {
			r.logger.Warn().Time("at", p.Schedule.At).Msg("scheduled time already passed, minting now")
		}
	}

	fee, err := FetchFeePolicy(ctx, r.headers, p.GasRange, r.rng)
	if err != nil {
		return nil, fmt.Errorf("fee policy: %w", err)
	}
	r.logger.Info().
		Str(logging.FieldBaseFee, FormatGwei(fee.BaseFee)+" gwei").
		Str(logging.FieldGasPrice, FormatGwei(fee.GasPrice)+" gwei").
		Uint64(logging.FieldGasLimit, fee.GasLimit).
		Msg("fee policy fixed for this run")

	sum := &Summary{
		Price:    price,
		Fee:      fee,
		Outcomes: make([]Outcome, 0, len(p.Wallets)),
	}
	for i, w := range p.Wallets {
		if err := ctx.Err(); err != nil {
			sum.Outcomes = append(sum.Outcomes, Outcome{
				Index:   i,
				Wallet:  w.Address(),
				Label:   w.Label,
				Variant: current,
				Err:     err,
			})
			continue
		}

		r.logger.Info().
			Int(logging.FieldIndex, i+1).
			Int("of", len(p.Wallets)).
			Str(logging.FieldWallet, w.Address().Hex()).
			Str(logging.FieldVariant, current.String()).
			Msg("minting")

		out := r.executor.Execute(ctx, MintRequest{
			Index:    i,
			Contract: p.Contract,
			Wallet:   w,
			Fee:      fee,
			Variant:  current,
			Price:    price,
		})
		out.Index = i
		sum.Outcomes = append(sum.Outcomes, out)

		if !out.OK() {
			r.logger.Error().Err(out.Err).
				Int(logging.FieldIndex, i+1).
				Str(logging.FieldWallet, out.Wallet.Hex()).
				Msg("mint failed")
			continue
		}
		logging.Success(&r.logger).
			Int(logging.FieldIndex, i+1).
			Str(logging.FieldWallet, out.Wallet.Hex()).
			Str(logging.FieldExplorer, out.Explorer).
			Msg("minted")

		if out.Corrected != nil && *out.Corrected != current {
			r.logger.Warn().
				Str("from", current.String()).
				Str("to", out.Corrected.String()).
				Msg("mint method corrected, using it for the remaining wallets")
			current = *out.Corrected
		}
	}
	sum.FinalVariant = current
	return sum, nil
}

// resolvePrice returns the mint price and the variant to start with.
func (r *Runner) resolvePrice(ctx context.Context, p Plan, current Variant) (*big.Int, Variant, error) {
	if !p.UseContractPrice {
		return orZero(p.ManualPrice), current, nil
	}

	res, err := r.resolver.Resolve(ctx, p.Contract)
	switch {
	case err == nil:
		r.logger.Info().
			Str(logging.FieldProbe, res.Probe).
			Str(logging.FieldPrice, FormatEther(res.Price)).
			Str(logging.FieldVariant, res.Variant.String()).
			Msg("mint config resolved")
		return orZero(res.Price), res.Variant, nil
	case errors.Is(err, ErrConfigProbeFailed):
		r.logger.Warn().
			Str(logging.FieldContract, p.Contract.Hex()).
			Str(logging.FieldVariant, current.String()).
			Msg("could not read mint config, falling back to a manual price")
	default:
		return nil, "", fmt.Errorf("resolve mint config: %w", err)
	}

	if p.PriceFallback != nil {
		price, err := p.PriceFallback(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("fallback price: %w", err)
		}
		return orZero(price), current, nil
	}
	return orZero(p.ManualPrice), current, nil
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}
