package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wikikit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize wikikit configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure wikikit for your wiki and writes the config file (wikikit.yml unless --config says otherwise).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
