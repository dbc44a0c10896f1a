package main

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/swind/go-truecaller/caller"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truecaller [flags] <trace file | ->",
		Short: "Print the first caller of a backtrace outside the filtered namespaces",
		Long: `Reads a backtrace and prints the first caller, as JSON, whose class is not
in the filter set.

The trace is either a JSON array of {class, function, type, file, line}
objects or a textual backtrace with "#N file(line): Class->method()" lines.
Files ending in .gz are decompressed, "-" reads from stdin.

Environment defaults: TRUECALLER_FILTER, TRUECALLER_START,
TRUECALLER_SEPARATORS, TRUECALLER_FORMAT, TRUECALLER_LOG_LEVEL.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(stderr, "info")

			cfg, err := loadConfig()
			if err != nil {
				log.Error().Err(err).Msg("loading config")
				return err
			}
			if err := cfg.applyFlags(cmd.Flags()); err != nil {
				log.Error().Err(err).Msg("parsing flags")
				return err
			}

			configureLogger(stderr, cfg.LogLevel)

			if err := run(cfg, args[0], stdin, stdout); err != nil {
				log.Error().Err(err).Str("trace", args[0]).Msg("locating caller")
				return err
			}
			return nil
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringSliceP("filter", "f", nil, "namespace fragment or class name to skip, repeatable")
	flags.IntP("start", "s", 0, "number of frames to skip before searching")
	flags.String("separators", caller.DefaultSeparators, "runes splitting a class name into namespace segments")
	flags.String("format", FormatAuto, "trace format: auto, json or text")
	flags.String("log-level", "info", "log level")

	return cmd
}

func run(cfg Config, tracePath string, stdin io.Reader, stdout io.Writer) error {
	traceReader, closeTrace, err := openTrace(tracePath, stdin)
	if err != nil {
		return err
	}
	defer closeTrace()

	var trace caller.RawTrace
	switch cfg.traceFormat(tracePath) {
	case FormatJSON:
		trace, err = caller.ReadJSONTrace(traceReader)
	default:
		trace, err = caller.NewTraceReader(traceReader, nil).Read()
	}
	if err != nil {
		return err
	}

	filterSet := caller.ParseFilterSet(cfg.Filter...)
	log.Debug().
		Int("frames", len(trace)).
		Strs("filter", filterSet.Values()).
		Int("start", cfg.Start).
		Msg("trace loaded")

	info, err := caller.NewLocator(cfg.Separators).Locate(trace, filterSet, cfg.Start)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(info), "writing caller info")
}

// openTrace opens the trace file, or stdin for "-", decompressing .gz files.
func openTrace(tracePath string, stdin io.Reader) (io.Reader, func(), error) {
	var file io.ReadCloser
	if tracePath == "-" {
		file = io.NopCloser(stdin)
	} else {
		// Check the trace file exists
		if _, err := os.Stat(tracePath); os.IsNotExist(err) {
			return nil, nil, errors.Errorf("trace file %s does not exist", tracePath)
		}

		f, err := os.Open(tracePath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening trace file")
		}
		file = f
	}

	if strings.HasSuffix(tracePath, ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, errors.Wrap(err, "opening gzip trace file")
		}
		return gzipReader, func() {
			gzipReader.Close()
			file.Close()
		}, nil
	}

	return bufio.NewReader(file), func() { file.Close() }, nil
}
