package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docviewer/internal/groups"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

var (
	groupsServerURL string
	groupsAdmin     bool
	groupsJSON      bool
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the API groups published by a backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if groupsServerURL != "" {
			cfg.ServerURL = groupsServerURL
		}
		if groupsAdmin {
			cfg.AdminPreset()
		}
		if cfg.ServerURL == "" {
			return fmt.Errorf("no backend configured: pass --server-url or set server_url in %s", cfgFile)
		}

		logger := newLogger(cfg, "groups")
		client := groups.NewClient(cfg.ServerURL, cfg.ListPath, cfg.FetchTimeout, logger)
		list, err := client.FetchGroups(cmd.Context())
		if err != nil {
			return err
		}

		opts := cfg.ViewerOptions().WithServerURL(cfg.ServerURL)

		if groupsJSON {
			type row struct {
				viewer.Group
				SpecURL string `json:"spec_url"`
			}
			rows := make([]row, 0, len(list))
			for _, g := range list {
				rows = append(rows, row{Group: g, SpecURL: viewer.ExpandSpecURL(opts.SpecURLTemplate, opts.ServerURL, g.ID)})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		if len(list) == 0 {
			fmt.Printf("No API groups at %s\n", client.ListURL())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSPEC URL")
		for _, g := range list {
			title := g.Title
			if title == "" {
				title = "-"
			} else if len(title) > 40 {
				title = title[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, title, viewer.ExpandSpecURL(opts.SpecURLTemplate, opts.ServerURL, g.ID))
		}
		return w.Flush()
	},
}

func init() {
	groupsCmd.Flags().StringVar(&groupsServerURL, "server-url", "", "backend base URL (overrides server_url)")
	groupsCmd.Flags().BoolVar(&groupsAdmin, "admin", false, "list the admin groups")
	groupsCmd.Flags().BoolVar(&groupsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(groupsCmd)
}
