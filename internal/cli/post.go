package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/apibench/internal/model"
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [URL]",
		Short: "Make one traced POST request to the values endpoint",
		Long: `Post sends a JSON body to the values endpoint. Without --data or --file
the built-in sample records are sent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := postBody(cmd)
			if err != nil {
				return err
			}
			return traceRequest(cmd, args, http.MethodPost, body)
		},
	}
	addTraceFlags(cmd)
	cmd.Flags().StringP("data", "d", "", "Data to send in the request body")
	cmd.Flags().String("file", "", "File whose contents are sent as the request body")
	return cmd
}

func postBody(cmd *cobra.Command) ([]byte, error) {
	data, _ := cmd.Flags().GetString("data")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case data != "" && file != "":
		return nil, fmt.Errorf("--data and --file are mutually exclusive")
	case data != "":
		return []byte(data), nil
	case file != "":
		body, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return body, nil
	default:
		return model.Fixture(), nil
	}
}
