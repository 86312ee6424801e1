package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"farestore/internal/config"
)

var (
	publishModelName    string
	publishModelVersion string
)

var publishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Publish a local model file as a model artifact",
	Long: `Publish streams a serialized model file into
models/<model-name>/<model-version>/ in the artifact bucket and registers it.
Model name and version default to MODEL_NAME and MODEL_VERSION from the
environment and can be overridden with flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		localPath := args[0]

		name := publishModelName
		if name == "" {
			name = cfg.Model.Name
		}
		version := publishModelVersion
		if version == "" {
			version = cfg.Model.Version
		}

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

		a, err := svc.PublishModel(ctx, f, localPath, detectContentType(localPath), st.Size(), name, version)
		if err != nil {
			return err
		}

		logJSON(map[string]any{
			"msg":           "model_published",
			"artifact_id":   a.ID,
			"storage_path":  a.StoragePath,
			"model_name":    a.ModelName,
			"model_version": a.ModelVersion,
			"size":          a.Size,
			"bucket":        cfg.Storage.Bucket,
		})
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishModelName, "model", "", "model name (defaults to MODEL_NAME)")
	publishCmd.Flags().StringVar(&publishModelVersion, "version", "", "model version (defaults to MODEL_VERSION)")
}
