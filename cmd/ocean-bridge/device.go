// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ocean-bridge/internal/params"
)

var deviceCmd = &cobra.Command{
	Use:   "device [device-id]",
	Short: "Show a device's topology and supported parameters",
	Long: `Device fetches the device snapshot from the service and prints its
status, qubit/coupler counts, and the sampling parameters it supports.
With --dwave the parameter and property names are shown in the D-Wave
vocabulary.`,
	Args: cobra.ExactArgs(1),
	RunE: runDevice,
}

func init() {
	deviceCmd.Flags().Bool("dwave", false, "show names in the D-Wave vocabulary")
	deviceCmd.Flags().Bool("json", false, "output the device snapshot as JSON")

	rootCmd.AddCommand(deviceCmd)
}

func runDevice(cmd *cobra.Command, args []string) error {
	deviceID := args[0]
	dwave, _ := cmd.Flags().GetBool("dwave")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := bridgeConfig()
	devices, _, err := serviceClients(cfg)
	if err != nil {
		return err
	}

	meta, topo, err := devices.Snapshot(context.Background(), deviceID)
	if err != nil {
		return err
	}

	supported := append([]string(nil), meta.SupportedParameters...)
	properties := meta.Properties
	if dwave {
		for i, name := range supported {
			supported[i] = params.DWaveName(name)
		}
		properties = params.PropertiesToDWave(properties)
	}

	if asJSON {
		out := map[string]any{
			"id":                  meta.ID,
			"name":                meta.Name,
			"status":              meta.Status,
			"qubits":              topo.Nodes(),
			"couplers":            topo.Edges(),
			"supportedParameters": supported,
			"properties":          properties,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("device:   %s", meta.ID)
	if meta.Name != "" {
		fmt.Printf(" (%s)", meta.Name)
	}
	fmt.Println()
	fmt.Printf("status:   %s\n", meta.Status)
	fmt.Printf("qubits:   %d\n", len(topo.Nodes()))
	fmt.Printf("couplers: %d\n", len(topo.Edges()))
	fmt.Printf("parameters: %s\n", strings.Join(supported, ", "))
	return nil
}
