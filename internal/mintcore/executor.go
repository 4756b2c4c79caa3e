package mintcore

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/ligun0805/mintbot/internal/logging"
)

type ExecutorOptions struct {
	Quantity *big.Int
	TokenID  *big.Int
	// Preflight simulates the call first and switches to another known
	// variant when the current one reverts without a reason.
	Preflight      bool
	ConfirmTimeout time.Duration
	ExplorerTxURL  string
	// Variants is the fallback order for preflight; KnownVariants when empty.
	Variants []Variant
}

type Executor struct {
	backend Backend
	opts    ExecutorOptions
	logger  zerolog.Logger
}

func NewExecutor(backend Backend, opts ExecutorOptions, logger zerolog.Logger) *Executor {
	if opts.Quantity == nil || opts.Quantity.Sign() <= 0 {
		opts.Quantity = big.NewInt(1)
	}
	if opts.TokenID == nil {
		opts.TokenID = new(big.Int)
	}
	if len(opts.Variants) == 0 {
		opts.Variants = KnownVariants
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 2 * time.Minute
	}
	return &Executor{backend: backend, opts: opts, logger: logger}
}

// Execute sends exactly one mint transaction for req.Wallet and waits for
// its receipt. Every failure is reported in the Outcome, never returned.
func (e *Executor) Execute(ctx context.Context, req MintRequest) Outcome {
	out := Outcome{
		Index:   req.Index,
		Wallet:  req.Wallet.Address(),
		Label:   req.Wallet.Label,
		Variant: req.Variant,
	}
	logger := e.logger.With().
		Int(logging.FieldIndex, req.Index+1).
		Str(logging.FieldWallet, out.Wallet.Hex()).
		Logger()

	variant := req.Variant
	if e.opts.Preflight {
		variant = e.pickVariant(ctx, req, logger)
	}
	out.Variant = variant

	data, value, err := e.callFor(variant, req)
	if err != nil {
		out.Err = err
		return out
	}

	nonce, err := e.backend.PendingNonceAt(ctx, out.Wallet)
	if err != nil {
		out.Err = fmt.Errorf("nonce: %w", err)
		return out
	}

	tx := buildMintTx(nonce, req.Contract, value, req.Fee.GasLimit, req.Fee.GasPrice, data)
	signed, err := req.Wallet.sign(tx)
	if err != nil {
		out.Err = fmt.Errorf("sign: %w", err)
		return out
	}
	out.TxHash = signed.Hash()
	out.Explorer = e.opts.ExplorerTxURL + signed.Hash().Hex()
	logger.Debug().
		Uint64(logging.FieldNonce, nonce).
		Str(logging.FieldVariant, variant.String()).
		Str("raw", txAsHex(signed)).
		Msg("sending mint")

	if err := e.backend.SendTransaction(ctx, signed); err != nil && !isAlreadyKnown(err) {
		out.Err = fmt.Errorf("send: %s", revertReason(err))
		return out
	}
	logger.Info().
		Str(logging.FieldTxHash, out.TxHash.Hex()).
		Str(logging.FieldExplorer, out.Explorer).
		Msg("mint sent, waiting for receipt")

	waitCtx, cancel := context.WithTimeout(ctx, e.opts.ConfirmTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, e.backend, signed)
	if err != nil {
		out.Err = fmt.Errorf("confirm: %w", err)
		return out
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		out.Err = fmt.Errorf("mint reverted in block %s", receipt.BlockNumber)
		return out
	}

	if variant != req.Variant {
		v := variant
		out.Corrected = &v
	}
	return out
}

// callFor encodes the mint call and its value for variant.
func (e *Executor) callFor(variant Variant, req MintRequest) ([]byte, *big.Int, error) {
	data, units, err := variant.Call(req.Wallet.Address(), e.opts.Quantity, e.opts.TokenID)
	if err != nil {
		return nil, nil, err
	}
	value := new(big.Int)
	if variant.Payable() && req.Price != nil {
		value.Mul(req.Price, units)
	}
	return data, value, nil
}

// pickVariant simulates the mint with req.Variant, then with the other known
// variants while the simulation reverts without a reason. It keeps
// req.Variant when that call reverts with a reason, when nothing simulates
// cleanly, or when the node cannot simulate at all.
func (e *Executor) pickVariant(ctx context.Context, req MintRequest, logger zerolog.Logger) Variant {
	order := make([]Variant, 0, len(e.opts.Variants)+1)
	order = append(order, req.Variant)
	for _, v := range e.opts.Variants {
		if v != req.Variant {
			order = append(order, v)
		}
	}

	from := req.Wallet.Address()
	for _, v := range order {
		data, value, err := e.callFor(v, req)
		if err != nil {
			continue
		}
		_, err = e.backend.CallContract(ctx, ethereum.CallMsg{
			From:  from,
			To:    &req.Contract,
			Value: value,
			Data:  data,
		}, nil)
		if err == nil {
			if v != req.Variant {
				logger.Info().
					Str(logging.FieldVariant, v.String()).
					Str("was", req.Variant.String()).
					Msg("preflight: switching mint method")
			}
			return v
		}
		if !isRevert(err) {
			logger.Warn().Err(err).Msg("preflight unavailable, sending as is")
			return req.Variant
		}
		if v == req.Variant && revertHasData(err) {
			// The method exists and the contract refused this wallet.
			logger.Warn().
				Str(logging.FieldVariant, v.String()).
				Str(logging.FieldError, revertReason(err)).
				Msg("preflight: mint rejected by contract, sending as is")
			return req.Variant
		}
		logger.Debug().
			Str(logging.FieldVariant, v.String()).
			Str(logging.FieldError, revertReason(err)).
			Msg("preflight reverted")
	}
	logger.Warn().Str(logging.FieldVariant, req.Variant.String()).Msg("preflight: no mint method simulated cleanly, sending as is")
	return req.Variant
}

func isAlreadyKnown(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already known")
}
