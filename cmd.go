package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"canlog/v2/config"
	"canlog/v2/rawlog"
	"canlog/v2/report"
)

var errNoInput = errors.New("please specify the raw file to parse (-f filename)")

func newRootCmd() *cobra.Command {
	var (
		configPath string
		input      string
		output     string
		format     string
		level      string
		summary    bool
	)

	root := &cobra.Command{
		Use:   "canlog [flags] [input [output]]",
		Short: "Parse CANBadger raw logs",
		Long: "Converts a CANBadger raw CAN log into a readable log, one line per frame:\n" +
			"timestamp, bus, format, speed, id, length, payload bytes...\n\n" +
			"Alternative usage: canlog in_filename out_filename",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("file") {
				cfg.Input = input
			}
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("format") {
				cfg.Format = format
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = level
			}
			if flags.Changed("summary") {
				cfg.Summary = summary
			}
			applyPositional(cfg, args, flags.Changed("file"), flags.Changed("output"))

			if cfg.Input == "" {
				return errNoInput
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logLevel.Set(cfg.Level())

			res, sum, err := parseLog(cfg)
			if err != nil {
				return err
			}
			if cfg.Summary {
				sum.Print(cmd.ErrOrStderr())
			}
			slog.Info("parsed log", "input", cfg.Input, "output", cfg.Output, "frames", res.Frames)
			return nil
		},
	}

	f := root.Flags()
	f.StringVarP(&input, "file", "f", "", "filename of the raw log")
	f.StringVarP(&output, "output", "o", "log.csv", "filename of the parsed log")
	f.StringVar(&format, "format", rawlog.FormatCSV, "output format: csv or cbor")
	f.StringVarP(&configPath, "config", "c", "", "optional YAML config file")
	f.StringVar(&level, "log-level", "info", "log level: debug, info, warn or error")
	f.BoolVar(&summary, "summary", false, "print a capture summary to stderr")

	root.AddCommand(newCompareCmd())
	return root
}

// applyPositional fills the input and then the output name from bare
// arguments, skipping names already given by flag. Extra arguments are
// ignored.
func applyPositional(cfg *config.Config, args []string, inputSet, outputSet bool) {
	for _, arg := range args {
		switch {
		case !inputSet:
			cfg.Input = arg
			inputSet = true
		case !outputSet:
			cfg.Output = arg
			outputSet = true
		default:
			return
		}
	}
}

func parseLog(cfg *config.Config) (rawlog.Result, *report.Summary, error) {
	sum := report.NewSummary()

	src, err := os.Open(cfg.Input)
	if err != nil {
		return rawlog.Result{}, nil, fmt.Errorf("raw log %s was not found: %w", cfg.Input, err)
	}
	defer src.Close()

	dst, err := os.Create(cfg.Output)
	if err != nil {
		return rawlog.Result{}, nil, fmt.Errorf("output %s could not be created: %w", cfg.Output, err)
	}

	w, err := rawlog.NewFrameWriter(cfg.Format, dst)
	if err != nil {
		_ = dst.Close()
		return rawlog.Result{}, nil, err
	}

	res, err := rawlog.Convert(src, w, sum.Observe)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", cfg.Output, cerr)
	}
	if err != nil {
		return res, nil, err
	}

	sum.Truncated = res.Truncated
	if res.Truncated {
		slog.Debug("raw log ends with a truncated record", "input", cfg.Input, "offset", res.Offset)
	}
	return res, sum, nil
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare LOG LOG [LOG...]",
		Short: "Compare CAN IDs across raw logs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := make([]*report.IDSet, 0, len(args))
			for _, name := range args {
				set, err := collectFile(name)
				if err != nil {
					return err
				}
				slog.Debug("collected CAN IDs", "log", name, "frames", set.Frames, "ids", len(set.Counts))
				sets = append(sets, set)
			}
			report.Compare(sets...).Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func collectFile(name string) (*report.IDSet, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("raw log %s was not found: %w", name, err)
	}
	defer f.Close()
	return report.CollectIDs(name, f)
}
