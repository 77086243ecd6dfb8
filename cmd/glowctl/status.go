package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/glowbridge/glowbridge/provisioning"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := httpClient.Get(addr + "/api/v1/status")
		if err != nil {
			return err
		}
		defer resp.Body.Close() // nolint: errcheck

		if resp.StatusCode != 200 {
			return errors.Errorf("device returned %s", resp.Status)
		}

		var status provisioning.Status
		if err = json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return errors.Wrap(err, "cannot decode status")
		}

		fmt.Printf("version:         %s\n", status.Version)
		fmt.Printf("broker:          %s\n", onOff(status.Connected, "connected", "disconnected"))
		fmt.Printf("light:           %s\n", onOff(status.Light.On, "on", "off"))
		fmt.Printf("brightness:      %d\n", status.Light.Brightness)
		fmt.Printf("effect:          %s\n", status.Light.Effect)
		fmt.Printf("restart pending: %v\n", status.RestartPending)

		return nil
	},
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}

	return no
}
