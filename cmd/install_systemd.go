package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"VelArchiver/internal/systemd"

	"github.com/spf13/cobra"
)

var (
	installSystemdBinary    string
	installSystemdConfig    string
	installSystemdUnitDir   string
	installSystemdCalendar  string
	installSystemdJitter    int
	installSystemdHardening bool
)

func init() {
	rootCmd.AddCommand(installSystemdCmd)
	installSystemdCmd.Flags().StringVar(&installSystemdBinary, "binary", systemd.DefaultBinary, "Path to the velarchiver binary used in ExecStart")
	installSystemdCmd.Flags().StringVar(&installSystemdConfig, "config", systemd.DefaultConfigPath, "Config path exported to the service environment")
	installSystemdCmd.Flags().StringVar(&installSystemdUnitDir, "unit-dir", systemd.DefaultUnitDir, "Directory for systemd unit files")
	installSystemdCmd.Flags().StringVar(&installSystemdCalendar, "calendar", systemd.DefaultOnCalendar, "OnCalendar expression for the weekly timer")
	installSystemdCmd.Flags().IntVar(&installSystemdJitter, "jitter-minutes", 0, "Randomized start delay in minutes")
	installSystemdCmd.Flags().BoolVar(&installSystemdHardening, "hardening", false, "Include systemd sandboxing directives in the service unit")
}

var installSystemdCmd = &cobra.Command{
	Use:   "install-systemd",
	Short: "Install systemd service and timer units for the weekly run",
	RunE:  runInstallSystemd,
}

func runInstallSystemd(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("install-systemd is only supported on Linux")
	}

	units := systemd.Generate(systemd.GeneratorOptions{
		Binary:        installSystemdBinary,
		ConfigPath:    installSystemdConfig,
		UnitDir:       installSystemdUnitDir,
		OnCalendar:    installSystemdCalendar,
		JitterMinutes: installSystemdJitter,
		Hardening:     installSystemdHardening,
	})

	if err := os.MkdirAll(installSystemdUnitDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", installSystemdUnitDir, err)
	}

	svcPath := filepath.Join(installSystemdUnitDir, systemd.ServiceUnit)
	timerPath := filepath.Join(installSystemdUnitDir, systemd.TimerUnit)
	if err := os.WriteFile(svcPath, []byte(units.Service), 0644); err != nil {
		return fmt.Errorf("write %s: %w", svcPath, err)
	}
	if err := os.WriteFile(timerPath, []byte(units.Timer), 0644); err != nil {
		return fmt.Errorf("write %s: %w", timerPath, err)
	}

	cmd.Printf("Wrote %s\n", svcPath)
	cmd.Printf("Wrote %s\n", timerPath)
	cmd.Printf("Enable with: systemctl daemon-reload && systemctl enable --now %s\n", systemd.TimerUnit)
	return nil
}
