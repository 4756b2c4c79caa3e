package mintcore

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var testChainID = big.NewInt(10143)

var errExecutionReverted = errors.New("execution reverted")

// fakeChain is an in-memory Backend. Calls are answered by selector.
type fakeChain struct {
	mu sync.Mutex

	baseFee *big.Int
	headErr error

	// answers maps a 4-byte selector (hex, no 0x) to its eth_call result.
	answers map[string]func(msg ethereum.CallMsg) ([]byte, error)
	// callErr, if set, answers every eth_call not found in answers.
	callErr error
	calls   []ethereum.CallMsg

	nonces  map[common.Address]uint64
	sendErr error
	sent    []*types.Transaction
	failed  bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		baseFee: big.NewInt(50_000_000_000),
		answers: map[string]func(ethereum.CallMsg) ([]byte, error){},
		nonces:  map[common.Address]uint64{},
	}
}

func selectorKey(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return hex.EncodeToString(data[:4])
}

func (f *fakeChain) answer(sig string, fn func(ethereum.CallMsg) ([]byte, error)) {
	f.answers[hex.EncodeToString(sel(sig))] = fn
}

func (f *fakeChain) revertOn(sigs ...string) {
	for _, sig := range sigs {
		f.answer(sig, func(ethereum.CallMsg) ([]byte, error) { return nil, errExecutionReverted })
	}
}

func (f *fakeChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	h := &types.Header{Number: big.NewInt(100)}
	if f.baseFee != nil {
		h.BaseFee = new(big.Int).Set(f.baseFee)
	}
	return h, nil
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	fn, ok := f.answers[selectorKey(msg.Data)]
	f.mu.Unlock()
	if ok {
		return fn(msg)
	}
	if f.callErr != nil {
		return nil, f.callErr
	}
	return nil, nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[account], nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	if f.sendErr != nil {
		return f.sendErr
	}
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return err
	}
	f.nonces[from] = tx.Nonce() + 1
	return nil
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.sent {
		if tx.Hash() == txHash {
			status := types.ReceiptStatusSuccessful
			if f.failed {
				status = types.ReceiptStatusFailed
			}
			return &types.Receipt{Status: status, TxHash: txHash, BlockNumber: big.NewInt(101)}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (f *fakeChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeChain) sentTxs() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Transaction(nil), f.sent...)
}

func newTestWallet(t *testing.T, label string) *Wallet {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	w, err := NewWallet(label, "0x"+hex.EncodeToString(gethcrypto.FromECDSA(key)), testChainID)
	require.NoError(t, err)
	return w
}

func newTestWallets(t *testing.T, n int) []*Wallet {
	t.Helper()
	ws := make([]*Wallet, n)
	for i := range ws {
		ws[i] = newTestWallet(t, "w"+string(rune('1'+i)))
	}
	return ws
}

func word(x int64) []byte {
	return common.LeftPadBytes(big.NewInt(x).Bytes(), 32)
}

func packConfig(t *testing.T, parsed string, price *big.Int) []byte {
	t.Helper()
	var a = configABI
	if parsed == "token" {
		a = tokenConfigABI
	}
	cfg := MintConfig{
		MaxSupply:   big.NewInt(10_000),
		WalletLimit: big.NewInt(5),
		PublicStage: PublicStage{
			StartTime: big.NewInt(1_700_000_000),
			EndTime:   big.NewInt(1_800_000_000),
			Price:     price,
		},
		AllowlistStage: AllowlistStage{
			Id:           big.NewInt(1),
			StartTime:    big.NewInt(0),
			EndTime:      big.NewInt(0),
			Price:        big.NewInt(0),
			MaxPerWallet: big.NewInt(0),
		},
		PayoutRecipient: common.HexToAddress("0x00000000000000000000000000000000000000aa"),
	}
	ret, err := a.Methods["getConfig"].Outputs.Pack(cfg)
	require.NoError(t, err)
	return ret
}

var testContract = common.HexToAddress("0x1111111111111111111111111111111111111111")

// revertError is what geth returns for a reverted eth_call: a message plus
// the raw revert data as hex.
type revertError struct {
	msg  string
	data string
}

func (e *revertError) Error() string          { return e.msg }
func (e *revertError) ErrorCode() int         { return 3 }
func (e *revertError) ErrorData() interface{} { return e.data }

// reasonRevert builds the Error(string) revert data for reason.
func reasonRevert(reason string) *revertError {
	strType, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: strType}}.Pack(reason)
	data := append(sel("Error(string)"), packed...)
	return &revertError{msg: "execution reverted: " + reason, data: hexutil.Encode(data)}
}
