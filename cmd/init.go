package cmd

import (
	"fmt"
	"os"

	"VelArchiver/internal/config"

	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}
	if err := config.Write(config.Default(), path); err != nil {
		return err
	}
	cmd.Printf("Wrote starter config to %s\n", path)
	cmd.Println("Set s3.bucket (and credentials or a profile), then check the setup with 'velarchiver doctor'.")
	return nil
}
