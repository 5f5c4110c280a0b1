package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"launchtrack/internal/config"
	"launchtrack/internal/dispersion"
	"launchtrack/internal/progress"
)

var (
	profilesConfig string
	profilesSchema string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in or configured flight profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := dispersion.BuiltIn()
		if profilesConfig != "" {
			cfg, err := config.Load(profilesConfig, profilesSchema)
			if err != nil {
				return err
			}
			profiles = dispersion.FromConfig(cfg)
		}
		fmt.Fprint(cmd.OutOrStdout(), progress.Profiles(profiles, progress.Width(os.Stdout, 80)))
		return nil
	},
}

func init() {
	profilesCmd.Flags().StringVar(&profilesConfig, "config", "", "Profile configuration YAML")
	profilesCmd.Flags().StringVar(&profilesSchema, "schema", "", "CUE schema for --config (default embedded schema)")
}
