package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"farestore/internal/config"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Publish a local data file as a dataset artifact",
	Long: `Upload streams a local file (typically the training CSV) into the
data/ folder of the artifact bucket and registers it. The object name is the
basename of the given path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		localPath := args[0]

		f, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", localPath, err)
		}
		defer f.Close()

		st, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", localPath, err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		svc, db, err := newArtifactService(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := svc.PublishDataset(ctx, f, localPath, detectContentType(localPath), st.Size())
		if err != nil {
			return err
		}

		logJSON(map[string]any{
			"msg":          "dataset_published",
			"artifact_id":  a.ID,
			"storage_path": a.StoragePath,
			"size":         a.Size,
			"bucket":       cfg.Storage.Bucket,
		})
		return nil
	},
}
