// Package cli implements the local invoke command, which runs a single
// invocation of the stock checker outside the Lambda runtime.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stock-checker-api/internal/config"
	"stock-checker-api/internal/logging"
	"stock-checker-api/internal/pricing"
	"stock-checker-api/pkg/server"
)

// options holds the invoke command's flags
type options struct {
	eventFile   string
	pretty      bool
	price       int
	pricePinned bool
}

// NewInvokeCommand builds the root command of the local invoke tool
func NewInvokeCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "stockchecker-invoke",
		Short: "Invoke the stock checker function locally",
		Long: "Runs one invocation of the stock checker with the given event and prints the response.\n" +
			"The event file may be JSON or YAML; use - to read it from stdin.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pricePinned = cmd.Flags().Changed("price")
			return runInvoke(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.eventFile, "event", "e", "", "Path to the event file (JSON or YAML), - for stdin")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the printed response")
	cmd.Flags().IntVar(&opts.price, "price", 0, "Pin the returned price instead of drawing a random one")

	return cmd
}

func runInvoke(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.NewWithWriter(cfg.Log, stderr)
	if err != nil {
		return err
	}

	var prices pricing.PriceSource = pricing.NewRandomSource()
	if opts.pricePinned {
		if opts.price < 0 || opts.price >= pricing.MaxPrice {
			return fmt.Errorf("price must be in [0, %d), got %d", pricing.MaxPrice, opts.price)
		}
		prices = pricing.StaticSource(opts.price)
	}

	container, err := server.NewContainerWith(cfg, log, prices)
	if err != nil {
		return err
	}
	defer container.Close()

	event, err := readEvent(opts.eventFile, stdin)
	if err != nil {
		return err
	}

	resp := container.StockHandler.Handle(ctx, event)

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// readEvent loads the event from path and normalizes it to JSON.
// No path means a null event.
func readEvent(path string, stdin io.Reader) (json.RawMessage, error) {
	if path == "" {
		return json.RawMessage("null"), nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	return parseEvent(data)
}

// parseEvent accepts JSON or YAML. Valid JSON is returned unchanged; YAML is
// converted to JSON.
func parseEvent(data []byte) (json.RawMessage, error) {
	if json.Valid(data) {
		return json.RawMessage(data), nil
	}

	var event interface{}
	if err := yaml.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	out, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event as JSON: %w", err)
	}
	return out, nil
}
