package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessChannel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "test", true)

	Success(&l).Str(FieldWallet, "0xabc").Msg("minted")

	out := buf.String()
	assert.Contains(t, out, "✔ minted")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "[test]")
}

func TestOnlyComponentIsBracketed(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "executor", true)

	l.Info().Str(FieldWallet, "0xabc").Uint64(FieldNonce, 7).Msg("sending mint")

	out := buf.String()
	assert.Contains(t, out, "[executor]")
	assert.Contains(t, out, "wallet=0xabc")
	assert.Contains(t, out, "nonce=7")
	assert.NotContains(t, out, "[0xabc]")
	assert.NotContains(t, out, "component=")
}

func TestTrySetupGlobalLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, TrySetupGlobalLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, TrySetupGlobalLevel("loud"))
}
