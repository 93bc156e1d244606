package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/apibench/internal/logger"
	"github.com/wesleyorama2/apibench/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo values endpoint",
		Long: `Serve answers GET /api/values with a JSON array of records and accepts
POST bodies without storing them. Append ?status=NNN to a request to get
that status code back instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			file, _ := cmd.Flags().GetString("file")

			payload, err := server.LoadPayload(file)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(payload, *logger.Get()).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", ":5000", "Address to listen on")
	cmd.Flags().String("file", "", "JSON file to serve instead of the built-in records")
	return cmd
}
