package wallets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironOrder(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"WALLET_10=0xten",
		"WALLET_MAIN=0xmain",
		"WALLET_2=0xtwo",
		"WALLET_1=0xone",
		"WALLET_3=",
		"MY_WALLET_4=0xnope",
	}

	creds, err := FromEnviron(env)
	require.NoError(t, err)

	names := make([]string, 0, len(creds))
	for _, c := range creds {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"WALLET_1", "WALLET_2", "WALLET_10", "WALLET_MAIN"}, names)
	assert.Equal(t, "0xone", creds[0].Secret)
}

func TestFromEnvironEmpty(t *testing.T) {
	_, err := FromEnviron([]string{"RPC_URL=http://x", "WALLET_1=  "})
	assert.ErrorIs(t, err, ErrNoWallets)
}

func TestMasked(t *testing.T) {
	c := Credential{Secret: "0x4c0883a69102937d6231471b5dbb6204fe512961708279f1d1e5c7b2d0c3e8a1"}
	assert.Equal(t, "0x4c08…e8a1", c.Masked())
	assert.Equal(t, "***", Credential{Secret: "0x1234"}.Masked())
}
