package mintcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/ligun0805/mintbot/internal/logging"
)

// ErrConfigProbeFailed means no known contract shape answered with a price.
var ErrConfigProbeFailed = errors.New("no known mint config shape matched")

// PublicStage and the rest mirror the launchpad getConfig() return struct.
type PublicStage struct {
	StartTime *big.Int
	EndTime   *big.Int
	Price     *big.Int
}

type AllowlistStage struct {
	Id           *big.Int
	StartTime    *big.Int
	EndTime      *big.Int
	Price        *big.Int
	MerkleRoot   [32]byte
	MaxPerWallet *big.Int
}

type MintConfig struct {
	MaxSupply       *big.Int
	WalletLimit     *big.Int
	PublicStage     PublicStage
	AllowlistStage  AllowlistStage
	PayoutRecipient common.Address
}

const configOutputs = `"outputs":[{"components":[` +
	`{"internalType":"uint256","name":"maxSupply","type":"uint256"},` +
	`{"internalType":"uint256","name":"walletLimit","type":"uint256"},` +
	`{"components":[{"internalType":"uint256","name":"startTime","type":"uint256"},{"internalType":"uint256","name":"endTime","type":"uint256"},{"internalType":"uint256","name":"price","type":"uint256"}],"internalType":"struct PublicStage","name":"publicStage","type":"tuple"},` +
	`{"components":[{"internalType":"uint256","name":"id","type":"uint256"},{"internalType":"uint256","name":"startTime","type":"uint256"},{"internalType":"uint256","name":"endTime","type":"uint256"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"bytes32","name":"merkleRoot","type":"bytes32"},{"internalType":"uint256","name":"maxPerWallet","type":"uint256"}],"internalType":"struct AllowlistStage","name":"allowlistStage","type":"tuple"},` +
	`{"internalType":"address","name":"payoutRecipient","type":"address"}` +
	`],"internalType":"struct Config","name":"","type":"tuple"}]`

var (
	// getConfig() on ERC-721 launchpad contracts
	configABI abi.ABI
	// getConfig(uint256 tokenId) on ERC-1155 launchpad contracts
	tokenConfigABI abi.ABI
)

func init() {
	var err error
	configABI, err = abi.JSON(strings.NewReader(`[{"inputs":[],"name":"getConfig",` + configOutputs + `,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		panic(fmt.Errorf("failed to parse getConfig abi: %w", err))
	}
	tokenConfigABI, err = abi.JSON(strings.NewReader(`[{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"getConfig",` + configOutputs + `,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		panic(fmt.Errorf("failed to parse getConfig(uint256) abi: %w", err))
	}
}

// ProbeFunc reads a mint price through one contract shape. It must not send transactions.
type ProbeFunc func(ctx context.Context, c ethereum.ContractCaller, contract common.Address) (*big.Int, error)

// PriceProbe pairs a read strategy with the mint variant contracts of that shape use.
type PriceProbe struct {
	Name    string
	Variant Variant
	Probe   ProbeFunc
}

// DefaultProbes lists the known shapes, most specific first.
func DefaultProbes(tokenID *big.Int) []PriceProbe {
	if tokenID == nil {
		tokenID = new(big.Int)
	}
	return []PriceProbe{
		{Name: "getConfig()", Variant: VariantTwoParams, Probe: configProbe(configABI)},
		{Name: "getConfig(uint256)", Variant: VariantFourParams, Probe: configProbe(tokenConfigABI, tokenID)},
		{Name: "mintPrice()", Variant: VariantQuantity, Probe: uintGetterProbe("mintPrice()")},
		{Name: "cost()", Variant: VariantQuantity, Probe: uintGetterProbe("cost()")},
		{Name: "price()", Variant: VariantNoArgs, Probe: uintGetterProbe("price()")},
	}
}

func configProbe(parsed abi.ABI, args ...any) ProbeFunc {
	return func(ctx context.Context, c ethereum.ContractCaller, contract common.Address) (*big.Int, error) {
		data, err := parsed.Pack("getConfig", args...)
		if err != nil {
			return nil, err
		}
		ret, err := callWithRetry(ctx, c, ethereum.CallMsg{To: &contract, Data: data})
		if err != nil {
			return nil, err
		}
		cfg, err := unpackConfig(parsed, ret)
		if err != nil {
			return nil, err
		}
		if cfg.PublicStage.Price == nil {
			return nil, errors.New("public stage has no price")
		}
		return cfg.PublicStage.Price, nil
	}
}

func unpackConfig(parsed abi.ABI, ret []byte) (*MintConfig, error) {
	if len(ret) == 0 {
		return nil, errors.New("empty return data")
	}
	out, err := parsed.Unpack("getConfig", ret)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("decode config: %d values", len(out))
	}
	return abi.ConvertType(out[0], new(MintConfig)).(*MintConfig), nil
}

func sel(sig string) []byte {
	h := gethcrypto.Keccak256([]byte(sig))
	return h[:4]
}

func uintGetterProbe(sig string) ProbeFunc {
	selector := sel(sig)
	return func(ctx context.Context, c ethereum.ContractCaller, contract common.Address) (*big.Int, error) {
		ret, err := callWithRetry(ctx, c, ethereum.CallMsg{To: &contract, Data: selector})
		if err != nil {
			return nil, err
		}
		if len(ret) != 32 {
			return nil, fmt.Errorf("%s: want one word, got %d bytes", sig, len(ret))
		}
		return new(big.Int).SetBytes(ret), nil
	}
}

// Resolution is what the first matching probe found.
type Resolution struct {
	Price   *big.Int
	Variant Variant
	Probe   string
}

type Resolver struct {
	caller ethereum.ContractCaller
	probes []PriceProbe
	logger zerolog.Logger
}

func NewResolver(caller ethereum.ContractCaller, probes []PriceProbe, logger zerolog.Logger) *Resolver {
	if probes == nil {
		probes = DefaultProbes(nil)
	}
	return &Resolver{caller: caller, probes: probes, logger: logger}
}

// Resolve tries each probe in order; the first one returning a price wins.
// It returns ErrConfigProbeFailed when every probe fails.
func (r *Resolver) Resolve(ctx context.Context, contract common.Address) (*Resolution, error) {
	for _, p := range r.probes {
		price, err := p.Probe(ctx, r.caller, contract)
		if err != nil {
			r.logger.Debug().Err(err).
				Str(logging.FieldProbe, p.Name).
				Str(logging.FieldContract, contract.Hex()).
				Msg("config probe failed")
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		return &Resolution{Price: price, Variant: p.Variant, Probe: p.Name}, nil
	}
	return nil, ErrConfigProbeFailed
}
