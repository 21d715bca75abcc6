package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"biointake.io/infrastructure/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Client posts JSON events to an external endpoint, retrying transient
// failures.
type Client struct {
	http *retryablehttp.Client
}

func NewClient(timeout time.Duration, maxRetries int) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return &Client{http: client}
}

func (c *Client) Post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warning("webhook rejected event", logger.LoggerOptions{
			Key:  "status",
			Data: resp.StatusCode,
		}, logger.LoggerOptions{
			Key:  "url",
			Data: url,
		})
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
