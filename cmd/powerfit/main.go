// Command powerfit simulates federated power transform fitting on a CSV
// column: it splits the sample across clients, fits λ with log-domain
// aggregation and compares the result with a single-party fit.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:          "powerfit",
		Short:        "Fit Box-Cox and Yeo-Johnson lambdas across simulated clients",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("log-level")
			level, err := parseLevel(name)
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML run config")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("data", "", "CSV file holding the sample")
	pf.String("column", "", "CSV column (name or index, default: last)")
	pf.String("family", "boxcox", "transform family: boxcox or yeojohnson")

	root.AddCommand(
		a.newFitCmd(),
		a.newNLLCmd(),
		a.newExpSearchCmd(),
		a.newTransformCmd(),
	)
	return root
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// writeJSON exports v to path, indented.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
