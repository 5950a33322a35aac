package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docviewer/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docviewer configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point docviewer at your API backend and generates a .docviewer.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
