package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docviewer/internal/groups"
	mcpserver "github.com/ziadkadry99/docviewer/internal/mcp"
)

var mcpServerURL string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the backend's API groups and their OpenAPI documents to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if mcpServerURL != "" {
			cfg.ServerURL = mcpServerURL
		}
		if cfg.ServerURL == "" {
			return fmt.Errorf("no backend configured: pass --server-url or set server_url in %s", cfgFile)
		}

		logger := newLogger(cfg, "mcp")
		client := groups.NewClient(cfg.ServerURL, cfg.ListPath, cfg.FetchTimeout, logger)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docviewer MCP server started on stdio (backend=%s)\n", cfg.ServerURL)

		srv := mcpserver.NewServer(client, cfg.ViewerOptions())
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpServerURL, "server-url", "", "backend base URL (overrides server_url)")
	rootCmd.AddCommand(mcpCmd)
}
