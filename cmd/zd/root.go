package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ctrlplanedev/zd/internal/wipeengine"
	"github.com/ctrlplanedev/zd/internal/zdconfig"
	"github.com/ctrlplanedev/zd/internal/zdlog"
)

type cliFlags struct {
	all        bool
	twoPass    bool
	verifyOnly bool
	blockSize  uint32
	fillHex    string
	max        int
	retry      int
	cfgFile    string
}

// NewRootCmd builds the single flat zd command (spec.md §6): no
// subcommands, just TARGET plus the mode/tuning flags.
func NewRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:           "zd [OPTIONS] TARGET",
		Short:         "Wipe and verify a block device, partition, or file",
		Long:          "Overwrite the contents of TARGET with a configurable fill byte, then verify every byte was written.",
		Example:       heredoc.Doc(`$ zd /dev/sdc`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateModeFlags(flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZD(cmd, flags, args[0])
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Mode all: unconditional single-pass overwrite")
	cmd.Flags().BoolVarP(&flags.twoPass, "two-pass", "x", false, "Mode two_pass: random pass then fill pass")
	cmd.Flags().BoolVarP(&flags.verifyOnly, "verify-only", "v", false, "Mode verify_only: no writes")
	cmd.Flags().Uint32VarP(&flags.blockSize, "block-size", "b", wipeengine.DefaultBlockSize, "Block size in bytes, multiple of 512, 512-32768")
	cmd.Flags().StringVarP(&flags.fillHex, "fill", "f", "00", "Fill byte, hexadecimal, 00-ff")
	cmd.Flags().IntVarP(&flags.max, "max", "m", 200, "Bad-block abort threshold")
	cmd.Flags().IntVarP(&flags.retry, "retry", "r", 200, "Per-operation retry cap")
	cmd.Flags().StringVar(&flags.cfgFile, "config", "", "Config file (default is $HOME/.zdrc.yaml)")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printBanner(os.Stdout)
		fmt.Fprintln(os.Stdout, cmd.UsageString())
		printDisclaimer(os.Stdout)
	})

	return cmd
}

// validateModeFlags enforces -a/-x/-v mutual exclusion (spec.md §6).
func validateModeFlags(flags *cliFlags) error {
	set := 0
	if flags.all {
		set++
	}
	if flags.twoPass {
		set++
	}
	if flags.verifyOnly {
		set++
	}
	if set > 1 {
		return fmt.Errorf("-a, -x, and -v are mutually exclusive")
	}
	return nil
}

func modeFromFlags(flags *cliFlags) wipeengine.Mode {
	switch {
	case flags.all:
		return wipeengine.All
	case flags.twoPass:
		return wipeengine.TwoPass
	case flags.verifyOnly:
		return wipeengine.VerifyOnly
	default:
		return wipeengine.Selective
	}
}

// applyConfigDefaults fills in any tuning flag the user did not pass
// explicitly on the command line from ~/.zdrc.yaml, following the same
// "flags win, file is just a default" precedence as cmd/ctrlc.
func applyConfigDefaults(cmd *cobra.Command, flags *cliFlags) error {
	defaults, err := zdconfig.Load(flags.cfgFile)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("block-size") && defaults.BlockSize != 0 {
		flags.blockSize = defaults.BlockSize
	}
	if !cmd.Flags().Changed("fill") && defaults.FillValue != nil {
		flags.fillHex = strconv.FormatUint(uint64(*defaults.FillValue), 16)
	}
	if !cmd.Flags().Changed("max") && defaults.Max != 0 {
		flags.max = defaults.Max
	}
	if !cmd.Flags().Changed("retry") && defaults.Retry != 0 {
		flags.retry = defaults.Retry
	}
	return nil
}

func runZD(cmd *cobra.Command, flags *cliFlags, target string) error {
	if err := applyConfigDefaults(cmd, flags); err != nil {
		return err
	}

	fillValue, err := strconv.ParseUint(flags.fillHex, 16, 8)
	if err != nil {
		return fmt.Errorf("invalid -f value %q: must be hexadecimal 00-ff", flags.fillHex)
	}

	conf, err := wipeengine.NewFillConfig(flags.blockSize, byte(fillValue))
	if err != nil {
		return err
	}

	logger := zdlog.New(nil)
	mode := modeFromFlags(flags)

	controller := &wipeengine.Controller{
		Mode:     mode,
		Conf:     conf,
		Ledger:   wipeengine.NewLedger(flags.max, flags.retry),
		Progress: wipeengine.NewProgress(os.Stdout),
		Out:      os.Stdout,
		Warn: func(summary string) {
			logger.Warn("pass completed with faults", "summary", summary)
		},
	}

	logger.Info("starting run", "target", target, "mode", mode.String(), "block-size", flags.blockSize)

	result, err := controller.Run(target)
	if err != nil {
		return reportFatal(logger, err)
	}

	if result.Warned {
		fmt.Fprintln(os.Stdout, wipeengine.Summary(result.Ledger))
		os.Exit(1)
	}

	logger.Info("run complete", "elapsed", result.Elapsed.String())
	return nil
}

// reportFatal prints the "Error: ..." line spec.md §7 requires and, if
// the engine had accumulated ledger entries before the fatal condition,
// the report for those too.
func reportFatal(logger *charmlog.Logger, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if fe, ok := err.(*wipeengine.FatalError); ok && len(fe.Ledger) > 0 {
		fmt.Fprintln(os.Stderr, "Bad blocks before abort:")
		fmt.Fprintln(os.Stderr, wipeengine.FormatLedger(fe.Ledger))
	}
	logger.Error("run aborted", "err", err)
	os.Exit(1)
	return nil
}
