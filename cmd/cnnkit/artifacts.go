package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.lorenzomilicia.dev/cnnkit/internal/uploader"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Artifact commands",
	Long:  `Parent command for inspecting and publishing pipeline artifacts.`,
}

var artifactsSizeCmd = &cobra.Command{
	Use:   "size <file>...",
	Short: "Print the size of artifact files in KB",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		for _, path := range args {
			kb, err := store.FileSizeKB(path)
			if err != nil {
				return err
			}
			human, err := store.HumanSize(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s)\n", path, kb, human)
		}
		return nil
	},
}

var (
	pushInputDir   string
	pushBucket     string
	pushRegion     string
	pushEndpoint   string
	pushBaseURL    string
	pushPrefix     string
	pushForce      bool
	pushDryRun     bool
	pushSkipHidden bool
)

var artifactsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload an artifacts directory to remote storage (S3/R2/MinIO)",
	Long: `Upload every file of an artifacts directory to S3-compatible remote storage.

Credentials are read from environment variables:
  - R2_ACCESS_KEY_ID / AWS_ACCESS_KEY_ID
  - R2_SECRET_ACCESS_KEY / AWS_SECRET_ACCESS_KEY

Example usage:
  cnnkit artifacts push -i artifacts -b models -r us-east-1 --prefix runs/2024-05-01
  cnnkit artifacts push -i artifacts -b models -r auto --endpoint https://account-id.r2.cloudflarestorage.com
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var ul uploader.Uploader
		if !pushDryRun {
			s3ul, err := uploader.NewS3Uploader(ctx, uploader.S3Config{
				Endpoint: pushEndpoint,
				Region:   pushRegion,
				Bucket:   pushBucket,
				BaseURL:  pushBaseURL,
			}, log.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize uploader: %w", err)
			}
			ul = s3ul
		}

		sum, err := uploader.Push(ctx, ul, pushInputDir, uploader.PushOptions{
			Prefix:     pushPrefix,
			Force:      pushForce,
			DryRun:     pushDryRun,
			SkipHidden: pushSkipHidden,
		}, log.Logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if pushDryRun {
			fmt.Fprintf(out, "Would upload: %d files\n", sum.Uploaded)
		} else {
			fmt.Fprintf(out, "Uploaded: %d files (%s)\n", sum.Uploaded, humanize.IBytes(uint64(sum.Bytes)))
			fmt.Fprintf(out, "Skipped: %d files\n", sum.Skipped)
		}
		if sum.Errors > 0 {
			return fmt.Errorf("%d files failed to upload", sum.Errors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(artifactsCmd)
	artifactsCmd.AddCommand(artifactsSizeCmd, artifactsPushCmd)

	artifactsPushCmd.Flags().StringVarP(&pushInputDir, "input", "i", "artifacts", "Artifacts directory to upload")
	artifactsPushCmd.Flags().StringVarP(&pushBucket, "bucket", "b", "", "S3 bucket name (required)")
	artifactsPushCmd.Flags().StringVarP(&pushRegion, "region", "r", "", "S3 region (e.g., 'us-east-1', 'auto' for R2) (required)")
	artifactsPushCmd.Flags().StringVar(&pushEndpoint, "endpoint", "", "Custom S3 endpoint URL")
	artifactsPushCmd.Flags().StringVar(&pushBaseURL, "base-url", "", "Public base URL for accessing files")
	artifactsPushCmd.Flags().StringVar(&pushPrefix, "prefix", "artifacts/", "Prefix to prepend to all keys")
	artifactsPushCmd.Flags().BoolVar(&pushForce, "force", false, "Upload even if objects already exist")
	artifactsPushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "List what would be uploaded without uploading")
	artifactsPushCmd.Flags().BoolVar(&pushSkipHidden, "skip-hidden", true, "Skip files and directories starting with '.'")

	artifactsPushCmd.MarkFlagRequired("bucket")
	artifactsPushCmd.MarkFlagRequired("region")
}
