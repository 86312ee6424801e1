package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"farestore/internal/config"
	"farestore/internal/storage"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the artifact bucket in the configured region if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		objStore, err := storage.NewMinIO(cfg.Storage)
		if err != nil {
			return fmt.Errorf("initialize object storage: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := objStore.EnsureBucket(ctx, cfg.Storage.Region); err != nil {
			return err
		}

		logJSON(map[string]any{
			"msg":        "bucket_ready",
			"project_id": cfg.ProjectID,
			"bucket":     cfg.Storage.Bucket,
			"region":     cfg.Storage.Region,
		})
		return nil
	},
}
