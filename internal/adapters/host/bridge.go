package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/ports"
)

const (
	commandPath           = "/command"
	posePath              = "/pose"
	maxBridgeResponseSize = 64 << 10
	defaultRequestTimeout = 5 * time.Second
)

// HTTPBridge sends chat commands to, and reads the pose index from, a host-side bridge.
type HTTPBridge struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.CommandSink = HTTPBridge{}
	_ ports.PoseReader  = HTTPBridge{}
)

type commandRequest struct {
	Command string `json:"command"`
}

type poseResponse struct {
	Index *int `json:"index"`
}

type bridgeError struct {
	Error string `json:"error"`
}

func (b HTTPBridge) Submit(ctx context.Context, text string) error {
	endpoint, err := buildBridgeURL(b.BaseURL, commandPath)
	if err != nil {
		return err
	}

	body, err := json.Marshal(commandRequest{Command: text})
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	requestCtx, cancel := b.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create command request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("send command %q: %s", text, decodeBridgeError(resp))
	}

	return nil
}

func (b HTTPBridge) CurrentPose(ctx context.Context) (int, error) {
	endpoint, err := buildBridgeURL(b.BaseURL, posePath)
	if err != nil {
		return 0, err
	}

	requestCtx, cancel := b.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create pose request: %w", err)
	}

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return 0, fmt.Errorf("read pose: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return 0, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("read pose: %s", decodeBridgeError(resp))
	}

	var payload poseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBridgeResponseSize)).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode pose response: %w", err)
	}
	if payload.Index == nil {
		return 0, errors.New("pose response missing index")
	}

	return *payload.Index, nil
}

func (b HTTPBridge) httpClient() *http.Client {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return http.DefaultClient
}

func (b HTTPBridge) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := b.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeBridgeError(resp *http.Response) string {
	var payload bridgeError
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBridgeResponseSize)).Decode(&payload); err != nil || payload.Error == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, payload.Error)
}

func buildBridgeURL(baseURL string, path string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", errors.New("bridge url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse bridge url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("bridge url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("bridge url host is required")
	}

	return parsed.JoinPath(path).String(), nil
}
