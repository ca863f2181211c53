package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// knownEntities are the path segments the server exposes resources under.
var knownEntities = map[string]bool{
	"size":           true,
	"oslanguage":     true,
	"osfamily":       true,
	"location":       true,
	"endpoint":       true,
	"approvalpolicy": true,
	"ostemplate":     true,
	"catalog":        true,
}

type configClient struct {
	baseURL string
	user    string
	http    *http.Client
}

func newClient() *configClient {
	return &configClient{
		baseURL: viper.GetString("server"),
		user:    viper.GetString("user"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs a request and decodes the envelope. The server reports
// declared failures inside the envelope on HTTP 200, so the status and
// code fields are what callers must inspect.
func (c *configClient) do(method, path string) (map[string]any, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.user != "" {
		req.Header.Set("X-Remote-User", c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	if envelope["status"] != "success" {
		return nil, fmt.Errorf("server error %v: %v", envelope["code"], envelope["error"])
	}
	return envelope, nil
}

// printJSON renders a payload value as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
