package cmd

import (
	"context"
	"fmt"

	"VelArchiver/internal/config"
	"VelArchiver/internal/doctor"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, credentials, S3 connectivity, work dir, and lock",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	v, err := config.Load(true)
	if err != nil {
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return err
	}

	results := doctor.Run(context.Background(), cfg)
	failed := 0
	for _, r := range results {
		mark := " ok "
		if !r.OK {
			mark = "FAIL"
			failed++
		}
		cmd.Printf("[%s] %-12s %s\n", mark, r.Name, r.Detail)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	cmd.Println("All checks passed")
	return nil
}
