package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrompter(input string) (*prompter, *bytes.Buffer) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader(input), &out)
	p.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	p.loc = time.UTC
	return p, &out
}

func TestCollectInstantContractPrice(t *testing.T) {
	p, _ := testPrompter("1\nhttps://magiceden.io/mint-terminal/monad-testnet/0xAbCdEf0123456789abcdef0123456789ABCDEF01\n\n")
	ch, err := p.collect()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xabcdef0123456789abcdef0123456789abcdef01"), ch.Contract)
	assert.True(t, ch.UseContractPrice)
	assert.Nil(t, ch.ManualPrice)
	assert.Nil(t, ch.Schedule)
}

func TestCollectRepromptsUntilValid(t *testing.T) {
	input := strings.Join([]string{
		"3",           // bad mode
		"scheduled",   // ok
		"not-an-addr", // bad address
		"0x1111111111111111111111111111111111111111",
		"n",
		"-1",   // negative price
		"0.05", // ok
		"2",    // countdown
		"0",    // not positive
		"90",
	}, "\n") + "\n"
	p, out := testPrompter(input)

	ch, err := p.collect()
	require.NoError(t, err)
	assert.False(t, ch.UseContractPrice)
	assert.Equal(t, "50000000000000000", ch.ManualPrice.String())
	require.NotNil(t, ch.Schedule)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 1, 30, 0, time.UTC), ch.Schedule.At)
	assert.Equal(t, 4, strings.Count(out.String(), "[!]"))
}

func TestCollectDateTime(t *testing.T) {
	p, _ := testPrompter("2\n0x1111111111111111111111111111111111111111\ny\n1\n2025-13-01 00:00:00\n2025-03-02 08:30:00\n")
	ch, err := p.collect()
	require.NoError(t, err)
	require.NotNil(t, ch.Schedule)
	assert.Equal(t, time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC), ch.Schedule.At)
}

func TestCollectEOF(t *testing.T) {
	p, _ := testPrompter("1\n")
	_, err := p.collect()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadLineWithoutTrailingNewline(t *testing.T) {
	p, _ := testPrompter("0.1")
	price, err := p.askPrice()
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000", price.String())
}
