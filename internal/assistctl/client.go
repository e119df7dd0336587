// Package assistctl implements the command line client for an assistd server.
package assistctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"assistd/pkg/types"
)

// Config carries the client settings shared by all subcommands.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Out     io.Writer
}

// Client talks to a running assistd instance.
type Client struct {
	base string
	http *http.Client
	out  io.Writer
}

// NewClient builds a client from cfg, filling defaults for empty fields.
func NewClient(cfg *Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute // generation can be slow on CPU
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Client{base: base, http: &http.Client{Timeout: timeout}, out: out}
}

func (c *Client) get(path string, v any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, v)
}

func (c *Client) post(path string, req, v any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, v)
}

// decodeResponse decodes a success body into v, or surfaces the server's
// error payload as a Go error.
func decodeResponse(resp *http.Response, v any) error {
	if resp.StatusCode >= 400 {
		var e types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return fmt.Errorf("server: %s (%d)", e.Error, e.Code)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}

// Health fetches and prints GET /health.
func (c *Client) Health() error {
	var out types.HealthResponse
	if err := c.get("/health", &out); err != nil {
		return err
	}
	return c.print(out)
}

// Status fetches and prints GET /status.
func (c *Client) Status() error {
	var out types.StatusResponse
	if err := c.get("/status", &out); err != nil {
		return err
	}
	return c.print(out)
}

// Adapters fetches and prints GET /adapters.
func (c *Client) Adapters() error {
	var out types.AdaptersResponse
	if err := c.get("/adapters", &out); err != nil {
		return err
	}
	return c.print(out)
}

// Ask sends a request to POST /assistant. Resume and offers are optional
// paths to JSON documents attached to the payload.
func (c *Client) Ask(message, resumePath, offersPath string) error {
	req := types.AssistRequest{Message: message}
	if resumePath != "" {
		doc, err := readJSONFile(resumePath)
		if err != nil {
			return err
		}
		req.Resume = doc
	}
	if offersPath != "" {
		doc, err := readJSONFile(offersPath)
		if err != nil {
			return err
		}
		var offers []json.RawMessage
		if err := json.Unmarshal(doc, &offers); err != nil {
			return fmt.Errorf("%s: expected a JSON array of job offers: %w", offersPath, err)
		}
		req.JobOffers = offers
	}
	var out types.AssistResponse
	if err := c.post("/assistant", req, &out); err != nil {
		return err
	}
	return c.print(out)
}

// Run sends a request to the adapter-specific POST /run/{adapter} endpoint.
func (c *Client) Run(adapter, message, resumePath, offersPath string) error {
	req := types.AssistRequest{Message: message}
	if resumePath != "" {
		doc, err := readJSONFile(resumePath)
		if err != nil {
			return err
		}
		req.Resume = doc
	}
	if offersPath != "" {
		doc, err := readJSONFile(offersPath)
		if err != nil {
			return err
		}
		var offers []json.RawMessage
		if err := json.Unmarshal(doc, &offers); err != nil {
			return fmt.Errorf("%s: expected a JSON array of job offers: %w", offersPath, err)
		}
		req.JobOffers = offers
	}
	var out types.RunResponse
	if err := c.post("/run/"+adapter, req, &out); err != nil {
		return err
	}
	return c.print(out)
}

// readJSONFile reads path and checks it holds valid JSON before sending.
func readJSONFile(path string) (json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}
	return json.RawMessage(b), nil
}
