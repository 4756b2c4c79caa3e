package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrInvalidGasRange = errors.New("invalid gas limit range")
	ErrEmptyRPC        = errors.New("rpc url is empty")
	ErrBadQuantity     = errors.New("mint quantity must be >= 1")
)

// Settings keeps all configuration options.
// Env names mirror the flag names in UPPER_CASE; lower_case is accepted too.
type Settings struct {
	RPCURL         string
	ChainID        string // empty => ask the node
	ExplorerTxURL  string
	GasLimitMin    uint64
	GasLimitMax    uint64
	MintQuantity   int64
	TokenID        int64
	MintVariant    string // empty => the default mint method
	Preflight      bool
	ConfirmTimeout time.Duration
	RPCTimeout     time.Duration
	LogLevel       string
}

const (
	KeyRPCURL         = "rpc_url"
	KeyChainID        = "chain_id"
	KeyExplorerTxURL  = "explorer_tx_url"
	KeyGasLimitMin    = "gas_limit_min"
	KeyGasLimitMax    = "gas_limit_max"
	KeyMintQuantity   = "mint_quantity"
	KeyTokenID        = "token_id"
	KeyMintVariant    = "mint_variant"
	KeyPreflight      = "preflight"
	KeyConfirmTimeout = "confirm_timeout"
	KeyRPCTimeout     = "rpc_timeout"
	KeyLogLevel       = "log_level"
)

// Monad testnet, the chain this bot was first pointed at.
const (
	DefaultRPCURL        = "https://testnet-rpc.monad.xyz"
	DefaultExplorerTxURL = "https://testnet.monadexplorer.com/tx/"
	DefaultGasLimitMin   = 180_000
	DefaultGasLimitMax   = 280_000
)

type option struct {
	key   string
	usage string
	def   any
}

var options = []option{
	{KeyRPCURL, "RPC endpoint URL", DefaultRPCURL},
	{KeyChainID, "chain id (empty: query the node)", ""},
	{KeyExplorerTxURL, "explorer base URL for transaction links", DefaultExplorerTxURL},
	{KeyGasLimitMin, "lower bound of the random gas limit", uint64(DefaultGasLimitMin)},
	{KeyGasLimitMax, "upper bound of the random gas limit", uint64(DefaultGasLimitMax)},
	{KeyMintQuantity, "tokens to mint per wallet", int64(1)},
	{KeyTokenID, "token id for ERC-1155 style mints", int64(0)},
	{KeyMintVariant, "mint method to start from: noArgs, quantity, twoParams or fourParams (empty: twoParams)", ""},
	{KeyPreflight, "simulate the mint call before sending and switch variant on revert", true},
	{KeyConfirmTimeout, "how long to wait for a receipt", 2 * time.Minute},
	{KeyRPCTimeout, "HTTP timeout for a single RPC request", 30 * time.Second},
	{KeyLogLevel, "log level (trace, debug, info, warn, error)", "info"},
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// RegisterFlags declares one flag per setting on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, o := range options {
		name := flagName(o.key)
		switch d := o.def.(type) {
		case string:
			fs.String(name, d, o.usage)
		case uint64:
			fs.Uint64(name, d, o.usage)
		case int64:
			fs.Int64(name, d, o.usage)
		case bool:
			fs.Bool(name, d, o.usage)
		case time.Duration:
			fs.Duration(name, d, o.usage)
		}
	}
}

// NewViper returns a viper instance with defaults and env bindings for every setting.
func NewViper() *viper.Viper {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.key, o.def)
		_ = v.BindEnv(o.key, strings.ToUpper(o.key), o.key)
	}
	return v
}

// Load resolves settings: changed flags win over env, env wins over defaults.
// fs may be nil when no command line is involved.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Settings, error) {
	if fs != nil {
		for _, o := range options {
			if f := fs.Lookup(flagName(o.key)); f != nil {
				if err := v.BindPFlag(o.key, f); err != nil {
					return Settings{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	st := Settings{}
	st.RPCURL = strings.TrimSpace(v.GetString(KeyRPCURL))
	st.ChainID = strings.TrimSpace(v.GetString(KeyChainID))
	st.ExplorerTxURL = strings.TrimSpace(v.GetString(KeyExplorerTxURL))
	st.GasLimitMin = v.GetUint64(KeyGasLimitMin)
	st.GasLimitMax = v.GetUint64(KeyGasLimitMax)
	st.MintQuantity = v.GetInt64(KeyMintQuantity)
	st.TokenID = v.GetInt64(KeyTokenID)
	st.MintVariant = strings.TrimSpace(v.GetString(KeyMintVariant))
	st.Preflight = v.GetBool(KeyPreflight)
	st.ConfirmTimeout = v.GetDuration(KeyConfirmTimeout)
	st.RPCTimeout = v.GetDuration(KeyRPCTimeout)
	st.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel)))

	if err := st.Validate(); err != nil {
		return Settings{}, err
	}
	return st, nil
}

func (s Settings) Validate() error {
	if s.RPCURL == "" {
		return ErrEmptyRPC
	}
	if s.GasLimitMin == 0 || s.GasLimitMin > s.GasLimitMax {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidGasRange, s.GasLimitMin, s.GasLimitMax)
	}
	if s.MintQuantity < 1 {
		return ErrBadQuantity
	}
	return nil
}
