package mintcore

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// HeaderReader is the part of the client the fee policy needs.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Backend is everything a run needs from the node. *ethclient.Client satisfies it.
type Backend interface {
	HeaderReader
	ethereum.ContractCaller
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	bind.DeployBackend
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Too Many Requests") || strings.Contains(s, "-32005") || strings.Contains(s, "rate limit")
}

// isRevert tells a contract-level rejection apart from transport trouble.
func isRevert(err error) bool {
	if err == nil {
		return false
	}
	var de rpc.DataError
	if errors.As(err, &de) && de.ErrorData() != nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "revert")
}

// revertHasData reports whether a revert carries a reason string or custom
// error data. A selector the contract does not know reverts with neither.
func revertHasData(err error) bool {
	var de rpc.DataError
	if errors.As(err, &de) {
		if s, ok := de.ErrorData().(string); ok && len(common.FromHex(s)) > 0 {
			return true
		}
	}
	s := err.Error()
	if i := strings.Index(s, "execution reverted:"); i >= 0 {
		return strings.TrimSpace(s[i+len("execution reverted:"):]) != ""
	}
	return false
}

// revertReason extracts "execution reverted: <reason>" when the node gives one.
func revertReason(err error) string {
	var de rpc.DataError
	if errors.As(err, &de) {
		if s, ok := de.ErrorData().(string); ok {
			if reason, uerr := abi.UnpackRevert(common.FromHex(s)); uerr == nil {
				return "execution reverted: " + reason
			}
		}
	}
	s := err.Error()
	if i := strings.Index(s, "execution reverted"); i >= 0 {
		return s[i:]
	}
	return s
}

const (
	callMaxRetries      = 2
	callInitialInterval = 200 * time.Millisecond
)

// callWithRetry performs eth_call, backing off only on rate limiting.
// Reverts and other errors are returned on the first attempt.
func callWithRetry(ctx context.Context, c ethereum.ContractCaller, msg ethereum.CallMsg) ([]byte, error) {
	var ret []byte
	op := func() error {
		r, err := c.CallContract(ctx, msg, nil)
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		ret = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = callInitialInterval
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, callMaxRetries), ctx))
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}
