package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/float-ritual-stack/floatd/internal/adapters/driven/config/file"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  "Writes the default configuration to the config path. Refuses to overwrite an existing file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFlag
		if path == "" {
			var err error
			path, err = configfile.DefaultPath()
			if err != nil {
				return err
			}
		}
		if err := configfile.WriteDefault(path); err != nil {
			return err
		}
		cmd.Printf("wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
