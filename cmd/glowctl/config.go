package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or replace the device configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := httpClient.Get(addr + "/api/v1/config")
		if err != nil {
			return err
		}
		defer resp.Body.Close() // nolint: errcheck

		if resp.StatusCode != 200 {
			return errors.Errorf("device returned %s", resp.Status)
		}

		_, err = io.Copy(os.Stdout, resp.Body)

		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the configuration with the given YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		req, err := http.NewRequest(http.MethodPut, addr+"/api/v1/config", bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-yaml")

		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close() // nolint: errcheck

		if resp.StatusCode != http.StatusNoContent {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return errors.Errorf("device returned %s: %s", resp.Status, bytes.TrimSpace(body))
		}

		fmt.Println("configuration updated, device restart required")

		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
