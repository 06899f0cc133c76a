package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"VelArchiver/internal/systemd"

	"github.com/spf13/cobra"
)

var uninstallSystemdUnitDir string

func init() {
	rootCmd.AddCommand(uninstallSystemdCmd)
	uninstallSystemdCmd.Flags().StringVar(&uninstallSystemdUnitDir, "unit-dir", systemd.DefaultUnitDir, "Directory for systemd unit files")
}

var uninstallSystemdCmd = &cobra.Command{
	Use:   "uninstall-systemd",
	Short: "Remove the installed systemd units and reload the daemon",
	RunE:  runUninstallSystemd,
}

func runUninstallSystemd(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("uninstall-systemd is only supported on Linux")
	}

	// Stop the schedule before touching unit files; best effort so a
	// half-installed setup can still be cleaned.
	_ = exec.Command("systemctl", "disable", "--now", systemd.TimerUnit).Run()

	removed := 0
	for _, unit := range []string{systemd.TimerUnit, systemd.ServiceUnit} {
		path := filepath.Join(uninstallSystemdUnitDir, unit)
		switch err := os.Remove(path); {
		case err == nil:
			cmd.Printf("Removed %s\n", path)
			removed++
		case os.IsNotExist(err):
		default:
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	if removed == 0 {
		cmd.Printf("No unit files found in %s\n", uninstallSystemdUnitDir)
		return nil
	}

	if err := exec.Command("systemctl", "daemon-reload").Run(); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w", err)
	}
	cmd.Println("Reloaded systemd units")
	return nil
}
