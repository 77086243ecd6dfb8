package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var addr string

var httpClient = &http.Client{Timeout: 30 * time.Second}

var rootCmd = &cobra.Command{
	Use:   "glowctl",
	Short: "Control a glowbridge device over its provisioning API",
	Long: `Glowctl talks to the local provisioning endpoint of a glowbridge
device: inspect status, read and replace the configuration, and push
firmware images.

The device address is given with --addr, e.g. --addr http://bridge.local:8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "http://localhost:8080", "device provisioning address")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(otaCmd)
}
