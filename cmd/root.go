package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "velarchiver",
	Short: "Weekly bucket archival tool for S3-compatible storage",
	Long:  "Velarchiver mirrors an S3/MinIO bucket to local disk, packs it into a compressed tar archive, uploads and tags the archive, and publishes the run log back to the bucket.",
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
