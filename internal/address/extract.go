// Package address pulls a contract address out of user input.
package address

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Magic Eden launchpad / collection links, optionally with a monad chain segment.
var magicEdenPattern = regexp.MustCompile(`(?i)magiceden\.io/.*?/(?:monad(?:-testnet)?/)?([a-fA-F0-9x]{42})`)

// Extract returns the lowercase 0x-prefixed address found in input.
// input is either a bare hex address or a Magic Eden URL embedding one.
func Extract(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if m := magicEdenPattern.FindStringSubmatch(input); len(m) == 2 && isPrefixedHex(m[1]) {
		return strings.ToLower(m[1]), true
	}
	if common.IsHexAddress(input) {
		return strings.ToLower(common.HexToAddress(input).Hex()), true
	}
	return "", false
}

// Validate is the prompt predicate form of Extract.
func Validate(input string) bool {
	_, ok := Extract(input)
	return ok
}

func isPrefixedHex(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "0x") && common.IsHexAddress(s)
}
