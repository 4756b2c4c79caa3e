package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ligun0805/mintbot/internal/config"
	"github.com/ligun0805/mintbot/internal/logging"
	"github.com/ligun0805/mintbot/internal/mintcore"
	"github.com/ligun0805/mintbot/internal/schedule"
	"github.com/ligun0805/mintbot/internal/wallets"
)

var errDial = errors.New("cannot reach RPC")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		die(err)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "mintcli",
		Short: "Mint an NFT from every wallet configured in .env",
		Long: "mintcli reads WALLET_* private keys from the environment, resolves the mint price and\n" +
			"method of a launchpad contract, optionally waits for a scheduled time and then sends\n" +
			"one mint transaction per wallet.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, envFile string) error {
	_ = godotenv.Load(envFile)
	_ = godotenv.Overload(".env.local")

	st, err := config.Load(config.NewViper(), cmd.Flags())
	if err != nil {
		return err
	}
	if err := logging.SetupGlobalLogger(st.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := logging.NewLogger("mint")

	out := cmd.OutOrStdout()
	printBanner(out)

	creds, err := wallets.FromEnviron(os.Environ())
	if err != nil {
		return err
	}

	ec, err := mintcore.Dial(st.RPCURL, st.RPCTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", errDial, err)
	}
	defer ec.Close()

	chainID, err := mintcore.ResolveChainID(cmd.Context(), ec, st.ChainID)
	if err != nil {
		return fmt.Errorf("%w: %w", errDial, err)
	}

	ws := make([]*mintcore.Wallet, 0, len(creds))
	for _, c := range creds {
		w, err := mintcore.NewWallet(c.Masked(), c.Secret, chainID)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		logger.Debug().Str("key", c.Name).Str(logging.FieldWallet, w.Address().Hex()).Msg("wallet loaded")
		ws = append(ws, w)
	}
	variant, err := startVariant(st.MintVariant)
	if err != nil {
		return err
	}
	printSettings(out, st, chainID, len(ws))

	p := newPrompter(cmd.InOrStdin(), out)
	ch, err := p.collect()
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	plan := mintcore.Plan{
		Contract:         ch.Contract,
		Wallets:          ws,
		UseContractPrice: ch.UseContractPrice,
		ManualPrice:      ch.ManualPrice,
		PriceFallback: func(context.Context) (*big.Int, error) {
			fmt.Fprintln(out, "Could not read the price from the contract.")
			return p.askPrice()
		},
		Variant:  variant,
		Schedule: ch.Schedule,
		GasRange: mintcore.GasRange{Min: st.GasLimitMin, Max: st.GasLimitMax},
	}

	// Ctrl+C during a prompt still kills the process; from here on it stops the run.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := newRunner(ec, st, out, logger)
	sum, err := runner.Run(ctx, plan)
	if err != nil {
		return err
	}
	printSummary(out, sum)
	return nil
}

// startVariant is the mint method assumed until the contract says otherwise.
func startVariant(name string) (mintcore.Variant, error) {
	if name == "" {
		return mintcore.DefaultVariant, nil
	}
	v, err := mintcore.ParseVariant(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.KeyMintVariant, err)
	}
	return v, nil
}

func newRunner(ec mintcore.Backend, st config.Settings, out io.Writer, logger zerolog.Logger) *mintcore.Runner {
	tokenID := big.NewInt(st.TokenID)
	resolver := mintcore.NewResolver(ec, mintcore.DefaultProbes(tokenID), logging.NewLogger("resolver"))
	executor := mintcore.NewExecutor(ec, mintcore.ExecutorOptions{
		Quantity:       big.NewInt(st.MintQuantity),
		TokenID:        tokenID,
		Preflight:      st.Preflight,
		ConfirmTimeout: st.ConfirmTimeout,
		ExplorerTxURL:  st.ExplorerTxURL,
	}, logging.NewLogger("executor"))
	return mintcore.NewRunner(resolver, executor, newProgressWaiter(out, isTerminal(out), logger), ec, nil, logger)
}

// progressWaiter draws the countdown in place when out is a terminal and
// logs it every progressLogEvery otherwise.
type progressWaiter struct {
	w   *schedule.Waiter
	out io.Writer
	tty bool
}

func newProgressWaiter(out io.Writer, tty bool, logger zerolog.Logger) *progressWaiter {
	pw := &progressWaiter{out: out, tty: tty}
	if tty {
		pw.w = schedule.NewWaiter(progressLine(out))
	} else {
		pw.w = schedule.NewWaiter(progressLog(logger, progressLogEvery))
	}
	return pw
}

func (pw *progressWaiter) Await(ctx context.Context, t schedule.Target) (bool, error) {
	waited, err := pw.w.Await(ctx, t)
	if waited && pw.tty {
		fmt.Fprintln(pw.out)
	}
	return waited, err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// die prints the error with a hint and exits. On an interactive console it
// waits for Enter first so a double-clicked window does not vanish.
func die(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(os.Stderr, "Hint:", hint)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) && !errors.Is(err, context.Canceled) {
		fmt.Fprint(os.Stderr, "Press Enter to close...")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')
	}
	os.Exit(1)
}
