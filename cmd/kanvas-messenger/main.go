package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const (
	configPathEnvVar = "KANVAS_MESSENGER_CONFIG_PATH"
	privateKeyEnvVar = "KANVAS_MESSENGER_PRIVATE_KEY"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:          "kanvas-messenger",
		Short:        "Track, prove and finalize Kanvas withdrawals",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", messenger.DefaultConfigFile,
		fmt.Sprintf("path to the TOML configuration, overridden by %s", configPathEnvVar))

	// withApp builds the app for one invocation and runs fn until it returns or a signal arrives.
	withApp := func(signer bool, fn func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			txHash, err := parseTxHash(args[0])
			if err != nil {
				return err
			}
			privateKey := os.Getenv(privateKeyEnvVar)
			if signer && privateKey == "" {
				return fmt.Errorf("environment variable %s is not set", privateKeyEnvVar)
			}

			path := configPath
			if env := os.Getenv(configPathEnvVar); env != "" && !cmd.Flags().Changed("config") {
				path = env
			}
			cfg, err := loadConfiguration(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration from %s: %w", path, err)
			}
			lggr, err := newLogger(cfg)
			if err != nil {
				return err
			}

			return runUntilSignal(lggr, func(ctx context.Context) error {
				a, err := newApp(ctx, lggr, cfg, privateKey)
				if err != nil {
					return err
				}
				defer a.Close()
				return fn(ctx, cmd, a, txHash)
			})
		}
	}

	statusCmd := &cobra.Command{
		Use:   "status <txHash>",
		Short: "Print the current status of the withdrawal sent in a source transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			message, err := a.messenger.ResolveTransaction(ctx, txHash)
			if err != nil {
				return err
			}
			res, err := a.messenger.GetResolution(ctx, message)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newStatusOutput(message, res))
		}),
	}

	var target string
	waitCmd := &cobra.Command{
		Use:   "wait <txHash>",
		Short: "Block until the withdrawal reaches a status",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			status, err := protocol.ParseMessageStatus(target)
			if err != nil {
				return err
			}
			message, err := a.messenger.ResolveTransaction(ctx, txHash)
			if err != nil {
				return err
			}
			res, err := a.messenger.WaitForStatus(ctx, message, status)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newStatusOutput(message, res))
		}),
	}
	waitCmd.Flags().StringVarP(&target, "status", "s", protocol.StatusReadyForRelay.String(), "status to wait for")

	proveCmd := &cobra.Command{
		Use:   "prove <txHash>",
		Short: "Submit the withdrawal proof; the withdrawal must be READY_TO_PROVE",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			message, err := a.messenger.ResolveTransaction(ctx, txHash)
			if err != nil {
				return err
			}
			receipt, err := a.messenger.ProveMessage(ctx, message)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newReceiptOutput(receipt))
		}),
	}

	finalizeCmd := &cobra.Command{
		Use:   "finalize <txHash>",
		Short: "Finalize the withdrawal; the withdrawal must be READY_FOR_RELAY",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			message, err := a.messenger.ResolveTransaction(ctx, txHash)
			if err != nil {
				return err
			}
			receipt, err := a.messenger.FinalizeMessage(ctx, message)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newReceiptOutput(receipt))
		}),
	}

	finalizeWithdrawalCmd := &cobra.Command{
		Use:   "finalize-withdrawal <txHash>",
		Short: "Wait for stable inclusion, prove, wait out the challenge period and finalize",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			receipt, err := a.messenger.FinalizeWithdrawal(ctx, txHash)
			if err != nil {
				return err
			}
			if receipt == nil {
				a.lggr.Infow("Withdrawal was already finalized", "txHash", txHash.Hex())
				return nil
			}
			return printJSON(cmd.OutOrStdout(), newReceiptOutput(receipt))
		}),
	}

	awaitStableCmd := &cobra.Command{
		Use:   "await-stable <txHash>",
		Short: "Wait until a source transaction stays in the same block for the configured window",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			receipt, err := a.messenger.AwaitStableInclusion(ctx, txHash)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newReceiptOutput(receipt))
		}),
	}

	var onDestination bool
	decodeCmd := &cobra.Command{
		Use:   "decode <txHash>",
		Short: "Decode the bridge events of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(ctx context.Context, cmd *cobra.Command, a *app, txHash common.Hash) error {
			var (
				events []messenger.DecodedEvent
				err    error
			)
			if onDestination {
				events, err = a.decodeDestination(ctx, txHash)
			} else {
				events, err = a.messenger.DecodeTransaction(ctx, txHash)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		}),
	}
	decodeCmd.Flags().BoolVarP(&onDestination, "destination", "d", false, "read the transaction from the destination chain")

	rootCmd.AddCommand(statusCmd, waitCmd, proveCmd, finalizeCmd, finalizeWithdrawalCmd, awaitStableCmd, decodeCmd)
	return rootCmd
}

// runUntilSignal runs fn and cancels its context on SIGINT or SIGTERM.
func runUntilSignal(lggr logger.Logger, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &run.Group{}
	g.Add(func() error {
		return fn(ctx)
	}, func(error) {
		cancel()
	})

	stop := make(chan struct{})
	g.Add(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case received := <-sig:
			lggr.Infow("Received shutdown signal", "signal", received.String())
			return fmt.Errorf("interrupted by %s", received)
		case <-stop:
			return nil
		}
	}, func(error) {
		close(stop)
	})

	return g.Run()
}

func parseTxHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q", s)
	}
	return common.BytesToHash(b), nil
}

func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
