package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/salescast/mcp"
)

// NewToolsCmd creates the "tools" subcommand, which lists the operations a
// remote server exposes.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the operations exposed by a remote server",
		RunE:  runTools,
	}
	cmd.Flags().String("url", "http://localhost:8000/mcp", "Remote JSON-RPC endpoint")
	cmd.Flags().Duration("timeout", 0, "Request timeout")
	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client := mcp.NewClient(url, mcp.ClientOptions{Timeout: timeout})
	listing, err := client.ListTools(cmd.Context())
	if err != nil {
		return exitError(exitRuntime, "listing tools from %s: %v", url, err)
	}

	out := cmd.OutOrStdout()
	for _, t := range listing.Tools {
		fmt.Fprintf(out, "%s\n", t.Name)
		if t.Description != "" {
			fmt.Fprintf(out, "    %s\n", t.Description)
		}
	}
	return nil
}
