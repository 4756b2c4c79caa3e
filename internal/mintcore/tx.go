package mintcore

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Build a legacy (gasPrice) mint transaction.
func buildMintTx(nonce uint64, to common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *types.Transaction {
	if value == nil {
		value = new(big.Int)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: new(big.Int).Set(gasPrice),
		Gas:      gasLimit,
		To:       &to,
		Value:    new(big.Int).Set(value),
		Data:     data,
	})
}

// Hex-encode transaction.
func txAsHex(tx *types.Transaction) string {
	b, _ := tx.MarshalBinary()
	return "0x" + hex.EncodeToString(b)
}

// NewTransactorFromHex builds *bind.TransactOpts from hex key and chain ID.
func NewTransactorFromHex(pkHex string, chainID *big.Int) (*bind.TransactOpts, error) {
	prv, err := hexToECDSAPriv(pkHex)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(prv, chainID)
}

// Wallet is a signer bound to the run's chain.
type Wallet struct {
	Label string // safe to print
	opts  *bind.TransactOpts
}

func NewWallet(label, pkHex string, chainID *big.Int) (*Wallet, error) {
	opts, err := NewTransactorFromHex(pkHex, chainID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", label, err)
	}
	return &Wallet{Label: label, opts: opts}, nil
}

func (w *Wallet) Address() common.Address { return w.opts.From }

func (w *Wallet) sign(tx *types.Transaction) (*types.Transaction, error) {
	return w.opts.Signer(w.opts.From, tx)
}
