package mintcore

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrimaryShape(t *testing.T) {
	chain := newFakeChain()
	price := big.NewInt(1_500_000_000_000_000)
	cfg := packConfig(t, "", price)
	chain.answer("getConfig()", func(ethereum.CallMsg) ([]byte, error) { return cfg, nil })

	res, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, price.String(), res.Price.String())
	assert.Equal(t, VariantTwoParams, res.Variant)
	assert.Equal(t, "getConfig()", res.Probe)
}

func TestResolveTokenConfig(t *testing.T) {
	chain := newFakeChain()
	chain.revertOn("getConfig()")
	cfg := packConfig(t, "token", big.NewInt(42))
	var gotTokenID []byte
	chain.answer("getConfig(uint256)", func(msg ethereum.CallMsg) ([]byte, error) {
		gotTokenID = msg.Data[4:]
		return cfg, nil
	})

	res, err := NewResolver(chain, DefaultProbes(big.NewInt(9)), zerolog.Nop()).Resolve(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Price.Int64())
	assert.Equal(t, VariantFourParams, res.Variant)
	assert.Equal(t, word(9), gotTokenID)
}

func TestResolveAlternateShape(t *testing.T) {
	chain := newFakeChain()
	chain.revertOn("getConfig()", "getConfig(uint256)")
	chain.answer("mintPrice()", func(ethereum.CallMsg) ([]byte, error) { return nil, nil })
	chain.answer("cost()", func(ethereum.CallMsg) ([]byte, error) { return word(7), nil })

	res, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Price.Int64())
	assert.Equal(t, VariantQuantity, res.Variant)
	assert.Equal(t, "cost()", res.Probe)
}

func TestResolveNoShape(t *testing.T) {
	chain := newFakeChain()
	chain.callErr = errExecutionReverted

	res, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(context.Background(), testContract)
	require.ErrorIs(t, err, ErrConfigProbeFailed)
	assert.Nil(t, res)
	assert.Len(t, chain.calls, len(DefaultProbes(nil)))
	for _, c := range chain.calls {
		assert.Nil(t, c.Value, "probes must be plain reads")
	}
}

func TestResolveGarbageIsFailure(t *testing.T) {
	chain := newFakeChain()
	chain.answer("getConfig()", func(ethereum.CallMsg) ([]byte, error) { return []byte{1, 2, 3}, nil })
	chain.callErr = errExecutionReverted

	_, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(context.Background(), testContract)
	require.ErrorIs(t, err, ErrConfigProbeFailed)
}

func TestResolveRetriesRateLimit(t *testing.T) {
	chain := newFakeChain()
	attempts := 0
	chain.answer("getConfig()", func(ethereum.CallMsg) ([]byte, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("429 Too Many Requests")
		}
		return packConfig(t, "", big.NewInt(5)), nil
	})

	res, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int64(5), res.Price.Int64())
}

func TestResolveCancelled(t *testing.T) {
	chain := newFakeChain()
	chain.callErr = errExecutionReverted
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(chain, nil, zerolog.Nop()).Resolve(ctx, testContract)
	require.ErrorIs(t, err, context.Canceled)
}
