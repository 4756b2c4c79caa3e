package mintcore

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-retryablehttp"
)

const rpcRetryMax = 3

// Dial connects to rpcURL over an HTTP client that retries 5xx and
// connection errors. timeout bounds every single request.
func Dial(rpcURL string, timeout time.Duration) (*ethclient.Client, error) {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = rpcRetryMax
	if timeout > 0 {
		httpClient.HTTPClient.Timeout = timeout
	}

	rpcClient, err := rpc.DialHTTPWithClient(rpcURL, httpClient.StandardClient())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return ethclient.NewClient(rpcClient), nil
}

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// ResolveChainID parses configured (decimal or 0x-hex) or asks the node when it is empty.
func ResolveChainID(ctx context.Context, c chainIDReader, configured string) (*big.Int, error) {
	s := strings.TrimSpace(configured)
	if s == "" {
		id, err := c.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
		return id, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, err := hexutil.DecodeBig(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("bad chain id %q: %w", configured, err)
		}
		return id, nil
	}
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("bad chain id %q", configured)
	}
	return id, nil
}
