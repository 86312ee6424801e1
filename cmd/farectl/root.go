package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "farectl",
	Short: "Deployment task runner for the taxi fare artifact store",
	Long: `farectl runs the deployment tasks of the taxi fare artifact store:

  farectl setup               Create the storage bucket in the configured region
  farectl upload data.csv     Publish a local CSV as a dataset artifact
  farectl publish model.bin   Publish a local model file under models/<name>/<version>/

Configuration comes from environment variables (a .env file is auto-loaded
if present); see .env.example for the full list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logJSON(map[string]any{
			"level": "error",
			"msg":   "command_failed",
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(publishCmd)
}

// logJSON writes one JSON object per line to stdout, matching the server's
// log format so CLI runs and server runs interleave cleanly in aggregators.
func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
