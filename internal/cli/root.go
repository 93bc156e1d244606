package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/apibench/internal/logger"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apibench",
		Short:   "Compare ways of calling a JSON HTTP API",
		Version: version,
		Long: `apibench times several ways of issuing the same HTTP GET and POST against a
JSON values endpoint: buffered, cancellable, status-checked, structured-error
and streaming variants. Each strategy is warmed up once and then run
sequentially; the mean latency per strategy is printed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				return nil
			}
			return logger.SetLevel(level)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	cmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error); defaults to $LOG_LEVEL or info")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newPostCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

// Execute runs the root command and prints any error to stderr.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// parseHeaders turns "Key: Value" flags into a map.
func parseHeaders(headers []string) (map[string]string, error) {
	parsed := make(map[string]string, len(headers))
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Key: Value\"", header)
		}
		parsed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return parsed, nil
}
