package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"VelArchiver/internal/config"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for problems",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()
	v, err := config.Load(false)
	if err != nil {
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cmd.Printf("%s is valid\n", path)
	return nil
}
