// Command healthcheck probes a config-server /health endpoint and exits 0
// when the server reports success. The API carries errors on HTTP 200, so
// the envelope status is checked, not just the response code.
// Usage: healthcheck http://localhost:8080/health
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	url := "http://localhost:8080/health"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "healthcheck failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	var envelope struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck failed: %v\n", err)
		os.Exit(1)
	}
	if envelope.Status != "success" {
		fmt.Fprintf(os.Stderr, "healthcheck failed: server reports %q\n", envelope.Status)
		os.Exit(1)
	}
	os.Exit(0)
}
