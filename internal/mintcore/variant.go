package mintcore

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Variant names one of the mint function shapes seen across launchpad contracts.
type Variant string

const (
	VariantNoArgs     Variant = "noArgs"     // mint()
	VariantQuantity   Variant = "quantity"   // mint(uint256 quantity)
	VariantTwoParams  Variant = "twoParams"  // mintPublic(address to, uint256 qty)
	VariantFourParams Variant = "fourParams" // mintPublic(address to, uint256 tokenId, uint256 qty, bytes data)
)

// DefaultVariant is assumed until a probe or a mint says otherwise.
const DefaultVariant = VariantTwoParams

// KnownVariants is the order alternatives are tried in.
var KnownVariants = []Variant{VariantTwoParams, VariantFourParams, VariantQuantity, VariantNoArgs}

type variantSpec struct {
	method string
	abi    abi.ABI
}

var variantSpecs = map[Variant]*variantSpec{}

func init() {
	defs := map[Variant]string{
		VariantNoArgs:     `[{"inputs":[],"name":"mint","outputs":[],"stateMutability":"payable","type":"function"}]`,
		VariantQuantity:   `[{"inputs":[{"internalType":"uint256","name":"quantity","type":"uint256"}],"name":"mint","outputs":[],"stateMutability":"payable","type":"function"}]`,
		VariantTwoParams:  `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"qty","type":"uint256"}],"name":"mintPublic","outputs":[],"stateMutability":"payable","type":"function"}]`,
		VariantFourParams: `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"},{"internalType":"uint256","name":"qty","type":"uint256"},{"internalType":"bytes","name":"data","type":"bytes"}],"name":"mintPublic","outputs":[],"stateMutability":"payable","type":"function"}]`,
	}
	for v, def := range defs {
		parsed, err := abi.JSON(strings.NewReader(def))
		if err != nil {
			panic(fmt.Errorf("failed to parse %s mint abi: %w", v, err))
		}
		var name string
		for n := range parsed.Methods {
			name = n
		}
		variantSpecs[v] = &variantSpec{method: name, abi: parsed}
	}
}

// ParseVariant accepts the names printed by Variant.String.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.TrimSpace(s))
	if _, ok := variantSpecs[v]; !ok {
		return "", fmt.Errorf("unknown mint variant %q", s)
	}
	return v, nil
}

func (v Variant) String() string { return string(v) }

// Signature is the solidity signature, e.g. "mintPublic(address,uint256)".
func (v Variant) Signature() string {
	spec, ok := variantSpecs[v]
	if !ok {
		return "unknown"
	}
	return spec.abi.Methods[spec.method].Sig
}

func (v Variant) Payable() bool {
	spec, ok := variantSpecs[v]
	return ok && spec.abi.Methods[spec.method].IsPayable()
}

// Call encodes a mint of qty tokens to `to`. units is how many tokens the
// call actually mints and is what the price gets multiplied by.
func (v Variant) Call(to common.Address, qty, tokenID *big.Int) (data []byte, units *big.Int, err error) {
	spec, ok := variantSpecs[v]
	if !ok {
		return nil, nil, fmt.Errorf("unknown mint variant %q", v)
	}
	if qty == nil || qty.Sign() <= 0 {
		qty = big.NewInt(1)
	}
	if tokenID == nil {
		tokenID = new(big.Int)
	}

	var args []any
	units = qty
	switch v {
	case VariantNoArgs:
		units = big.NewInt(1)
	case VariantQuantity:
		args = []any{qty}
	case VariantTwoParams:
		args = []any{to, qty}
	case VariantFourParams:
		args = []any{to, tokenID, qty, []byte{}}
	}
	data, err = spec.abi.Pack(spec.method, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("pack %s: %w", v, err)
	}
	return data, new(big.Int).Set(units), nil
}
