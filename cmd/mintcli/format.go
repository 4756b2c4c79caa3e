package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/ligun0805/mintbot/internal/config"
	"github.com/ligun0805/mintbot/internal/mintcore"
	"github.com/ligun0805/mintbot/internal/schedule"
	"github.com/ligun0805/mintbot/internal/wallets"
)

const banner = `
  __  __ _       _   ____        _
 |  \/  (_)_ __ | |_| __ )  ___ | |_
 | |\/| | | '_ \| __|  _ \ / _ \| __|
 | |  | | | | | | |_| |_) | (_) | |_
 |_|  |_|_|_| |_|\__|____/ \___/ \__|
`

func printBanner(w io.Writer) {
	fmt.Fprintln(w, color.GreenString(banner))
}

func printSettings(w io.Writer, st config.Settings, chainID fmt.Stringer, n int) {
	fmt.Fprintln(w, "=== CONFIG ===")
	fmt.Fprintln(w, "RPC_URL         :", st.RPCURL)
	fmt.Fprintln(w, "CHAIN_ID        :", chainID.String())
	fmt.Fprintln(w, "EXPLORER_TX_URL :", st.ExplorerTxURL)
	fmt.Fprintf(w, "GAS_LIMIT       : %d - %d\n", st.GasLimitMin, st.GasLimitMax)
	fmt.Fprintln(w, "MINT_QUANTITY   :", st.MintQuantity)
	if st.MintVariant != "" {
		fmt.Fprintln(w, "MINT_VARIANT    :", st.MintVariant)
	}
	fmt.Fprintln(w, "PREFLIGHT       :", st.Preflight)
	fmt.Fprintln(w, "WALLETS         :", n)
	fmt.Fprintln(w, "==============")
}

func printSummary(w io.Writer, sum *mintcore.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Price: %s | Gas price: %s gwei | Gas limit: %d | Method: %s\n",
		mintcore.FormatEther(sum.Price), mintcore.FormatGwei(sum.Fee.GasPrice), sum.Fee.GasLimit, sum.FinalVariant.Signature())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Wallet", "Status", "Details"})
	table.SetAutoWrapText(false)
	for _, o := range sum.Outcomes {
		status, details := color.GreenString("minted"), o.Explorer
		if !o.OK() {
			status, details = color.RedString("failed"), o.Err.Error()
		} else if o.Corrected != nil {
			details += " (via " + o.Corrected.Signature() + ")"
		}
		table.Append([]string{strconv.Itoa(o.Index + 1), o.Wallet.Hex(), status, details})
	}
	table.Render()

	line := fmt.Sprintf("Done: %d/%d minted", sum.Succeeded(), len(sum.Outcomes))
	if sum.Failed() == 0 {
		fmt.Fprintln(w, color.GreenString(line))
	} else {
		fmt.Fprintln(w, color.YellowString(line))
	}
}

// progressLine redraws the countdown in place on a terminal.
func progressLine(w io.Writer) func(time.Duration) {
	return func(rem time.Duration) {
		fmt.Fprintf(w, "\r⏳ Time remaining: %s ", schedule.FormatCountdown(rem))
	}
}

const progressLogEvery = 10 * time.Second

// progressLog is the countdown for logs: one line on the first tick, then
// one per every of remaining time.
func progressLog(logger zerolog.Logger, every time.Duration) func(time.Duration) {
	last := time.Duration(-1)
	return func(rem time.Duration) {
		if last >= 0 && last-rem < every {
			return
		}
		last = rem
		logger.Info().Str("remaining", schedule.FormatCountdown(rem)).Msg("waiting for mint time")
	}
}

// hintFor tells the operator how to fix a fatal error, if we know.
func hintFor(err error) string {
	switch {
	case errors.Is(err, wallets.ErrNoWallets):
		return "add private keys to .env as WALLET_1=0x…, WALLET_2=0x…"
	case errors.Is(err, mintcore.ErrFeeUnavailable):
		return "the chain reports no EIP-1559 base fee; check RPC_URL points at the right network"
	case errors.Is(err, config.ErrInvalidGasRange):
		return "set GAS_LIMIT_MIN and GAS_LIMIT_MAX so that 0 < min <= max"
	case errors.Is(err, config.ErrEmptyRPC):
		return "set RPC_URL in .env or pass --rpc-url"
	case errors.Is(err, errDial):
		return "check RPC_URL and your network connection"
	}
	return ""
}
