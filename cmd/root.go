package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docviewer",
	Short: "API documentation portal for multi-group OpenAPI backends",
	Long: `docviewer serves an API documentation page for backends that publish
their API as several independently documented groups. It loads the group
list, lets readers switch between groups, restores the selection from the
?api= query parameter and embeds the selected group's OpenAPI document in
an interactive widget.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docviewer.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
