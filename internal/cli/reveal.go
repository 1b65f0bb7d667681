package cli

import (
	"context"
	"io"
	"os"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/pkg/reveal"
)

// revealOpts holds the command-line flags for the reveal command.
type revealOpts struct {
	charsPerUpdate int           // characters released per eligible tick
	interval       time.Duration // minimum time between releases
	chunkSize      int           // runes per simulated stream chunk
	chunkEvery     time.Duration // simulated chunk arrival cadence
	config         string        // optional TOML config file
}

// newRevealCmd creates the reveal command: a typewriter view that smooths
// bursty text into a paced reveal. The input text is read from a file or
// stdin and re-chunked on a timer to stand in for a streaming transport.
func newRevealCmd() *cobra.Command {
	opts := revealOpts{
		charsPerUpdate: reveal.DefaultCharsPerUpdate,
		interval:       reveal.DefaultUpdateInterval,
		chunkSize:      64,
		chunkEvery:     250 * time.Millisecond,
	}

	cmd := &cobra.Command{
		Use:   "reveal [file]",
		Short: "Stream text into a paced typewriter view",
		Long: `Reveal reads text from a file (or stdin) and displays it the way a
model response should be displayed: buffered as it arrives and released a
few characters at a time, no more often than the configured interval.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				if err := applyRevealConfig(cmd, &opts); err != nil {
					return err
				}
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runReveal(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.charsPerUpdate, "chars-per-update", opts.charsPerUpdate, "characters released per update")
	cmd.Flags().DurationVar(&opts.interval, "interval", opts.interval, "minimum time between releases")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", opts.chunkSize, "runes per simulated stream chunk")
	cmd.Flags().DurationVar(&opts.chunkEvery, "chunk-every", opts.chunkEvery, "simulated chunk arrival cadence")
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML config file")

	return cmd
}

// applyRevealConfig fills opts from the config file for flags the user did
// not set explicitly.
func applyRevealConfig(cmd *cobra.Command, opts *revealOpts) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("chars-per-update") && cfg.Reveal.CharsPerUpdate != 0 {
		opts.charsPerUpdate = cfg.Reveal.CharsPerUpdate
	}
	if !cmd.Flags().Changed("interval") && cfg.Reveal.UpdateIntervalMS != 0 {
		opts.interval = cfg.Reveal.interval()
	}
	return nil
}

func runReveal(ctx context.Context, path string, opts *revealOpts) error {
	logger := loggerFromContext(ctx)

	text, err := readText(path)
	if err != nil {
		return err
	}

	logger.Debug("starting reveal",
		"chars", utf8.RuneCountInString(text),
		"charsPerUpdate", opts.charsPerUpdate,
		"interval", opts.interval)

	model, err := NewTypewriterModel(text, reveal.Config{
		CharsPerUpdate: opts.charsPerUpdate,
		UpdateInterval: opts.interval,
	}, opts.chunkSize, opts.chunkEvery)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(TypewriterModel); ok {
		if m.Cancelled() {
			printError("cancelled after %d characters", utf8.RuneCountInString(m.Revealed()))
			return nil
		}
		prog.done("stream revealed")
		printSuccess("revealed %d characters", utf8.RuneCountInString(m.Revealed()))
	}
	return nil
}

// readText loads the input text from path, or stdin when path is empty.
func readText(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
