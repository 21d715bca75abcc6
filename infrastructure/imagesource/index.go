package imagesource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biointake.io/infrastructure/biometric/types"
	"biointake.io/infrastructure/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Source resolves an image reference to bytes. Remote fetches are bounded by
// a per-attempt timeout, a retry budget and a size cap.
type Source struct {
	client   *retryablehttp.Client
	maxBytes int64
}

func NewSource(timeout time.Duration, maxRetries int, maxBytes int64) *Source {
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{}
	return &Source{client: client, maxBytes: maxBytes}
}

// Fetch downloads an http(s) image. Transport failures and non-200
// responses become NetworkError; bad URLs and oversized bodies InputError.
func (s *Source) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, types.NewInputError("image url must be an absolute http or https url")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, types.NewInputError("image url could not be requested")
	}
	req.Header.Set("User-Agent", "biointake/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, types.NewNetworkError("could not fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewNetworkError(fmt.Sprintf("image host responded with status %d", resp.StatusCode), nil)
	}
	if s.maxBytes > 0 && resp.ContentLength > s.maxBytes {
		return nil, types.NewInputError("image exceeds the maximum allowed size")
	}

	reader := io.Reader(resp.Body)
	if s.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, s.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, types.NewNetworkError("could not read image body", err)
	}
	if s.maxBytes > 0 && int64(len(body)) > s.maxBytes {
		return nil, types.NewInputError("image exceeds the maximum allowed size")
	}
	if len(body) == 0 {
		return nil, types.NewInputError("image host returned an empty body")
	}
	return body, nil
}

// DecodeBase64 accepts plain base64 or a data URL and returns the bytes with
// the content type named by the data URL, if any.
func DecodeBase64(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", types.NewInputError("image payload is empty")
	}
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 {
			return nil, "", types.NewInputError("malformed data url")
		}
		meta := payload[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", types.NewInputError("data url must be base64 encoded")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = payload[comma+1:]
	}
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, "", types.NewInputError("image payload is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", types.NewInputError("image payload is empty")
	}
	return data, contentType, nil
}

// Resolve loads exactly one of imageURL or imageBase64.
func (s *Source) Resolve(ctx context.Context, imageURL, imageBase64 string) (types.RawImage, error) {
	imageURL, imageBase64 = strings.TrimSpace(imageURL), strings.TrimSpace(imageBase64)
	switch {
	case imageURL == "" && imageBase64 == "":
		return types.RawImage{}, types.NewInputError("an image url or base64 payload is required")
	case imageURL != "" && imageBase64 != "":
		return types.RawImage{}, types.NewInputError("provide either an image url or a base64 payload, not both")
	case imageURL != "":
		data, err := s.Fetch(ctx, imageURL)
		if err != nil {
			return types.RawImage{}, err
		}
		return types.RawImage{Bytes: data, Reference: imageURL}, nil
	}
	data, contentType, err := DecodeBase64(imageBase64)
	if err != nil {
		return types.RawImage{}, err
	}
	reference := "inline"
	if contentType != "" {
		reference = fmt.Sprintf("data:%s;base64", contentType)
	}
	return types.RawImage{Bytes: data, ContentType: contentType, Reference: reference}, nil
}

// leveledLogger routes retryablehttp's logging through the zap facade.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Error(msg, options(keysAndValues)...)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Warning(msg, options(keysAndValues)...)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info(msg, options(keysAndValues)...)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {}

func options(keysAndValues []interface{}) []logger.LoggerOptions {
	opts := []logger.LoggerOptions{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		opts = append(opts, logger.LoggerOptions{Key: key, Data: keysAndValues[i+1]})
	}
	return opts
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

// IsRetryable reports whether err came from a fetch that may succeed later.
func IsRetryable(err error) bool {
	var ae *types.AnalysisError
	return errors.As(err, &ae) && ae.Retryable()
}
