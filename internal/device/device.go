// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package device fetches device metadata (qubit/coupler topology, device
// properties, supported parameter names) from the annealing service and
// caches it per device for the process lifetime.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/ocean-bridge/internal/topology"
)

// Metadata is one device snapshot as reported by the service.
type Metadata struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`

	// Qubits and Couplers describe the hardware interaction graph.
	Qubits   []int    `json:"qubits"`
	Couplers [][2]int `json:"couplers"`

	// SupportedParameters lists the service-format parameter names this
	// device accepts.
	SupportedParameters []string `json:"supportedParameters"`

	// Properties holds the remaining device properties verbatim
	// (annealing duration range, shot range, and so on).
	Properties map[string]any `json:"properties"`
}

// Client queries the service's device endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
	// UserAgent is sent with every request.
	UserAgent string
}

// Get fetches the metadata snapshot for one device.
func (c *Client) Get(ctx context.Context, deviceID string) (*Metadata, error) {
	reqURL := fmt.Sprintf("%s/devices/%s", c.BaseURL, deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device request for %s: %w", deviceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("device %s not found", deviceID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device request for %s returned HTTP %d", deviceID, resp.StatusCode)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("parsing device metadata for %s: %w", deviceID, err)
	}
	if meta.ID == "" {
		meta.ID = deviceID
	}

	if _, err := topology.New(meta.Qubits, meta.Couplers); err != nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, err)
	}

	return &meta, nil
}
