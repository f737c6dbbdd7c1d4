package adapter

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pocketplan/pocketsync/models"
)

type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client   *resty.Client
	observer TransferObserver
}

// NewHTTPServerAdapter builds the REST implementation of [ServerAdapter].
// observer may be nil, in which case transfer timings are discarded.
func NewHTTPServerAdapter(cfg HTTPClientConfig, observer TransferObserver) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli, observer: observer}
}

func (h *httpServerAdapter) Push(ctx context.Context, req models.PushRequest, compress bool) (models.PushResponse, error) {
	req.Length = len(req.Operations)

	body, err := json.Marshal(req)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("encode push request: %w", err)
	}

	r := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")

	if compress {
		compressed, err := gzipBody(body)
		if err != nil {
			return models.PushResponse{}, fmt.Errorf("compress push request: %w", err)
		}
		r.SetHeader("Content-Encoding", "gzip")
		body = compressed
	}

	started := time.Now()
	resp, err := r.SetBody(body).Post("/sync/push")
	h.observe(len(body), resp, started, err)
	if err != nil {
		return models.PushResponse{}, &TransportError{Op: "push", Err: err}
	}
	if err = mapHTTPError("push", resp); err != nil {
		return models.PushResponse{}, err
	}

	var out models.PushResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.PushResponse{}, fmt.Errorf("decode push response: %w", err)
	}

	return out, nil
}

func (h *httpServerAdapter) Pull(ctx context.Context, cursor string) (models.PullResponse, error) {
	r := h.client.R().SetContext(ctx)
	if cursor != "" {
		r.SetQueryParam("cursor", cursor)
	}

	started := time.Now()
	resp, err := r.Get("/sync/pull")
	h.observe(0, resp, started, err)
	if err != nil {
		return models.PullResponse{}, &TransportError{Op: "pull", Err: err}
	}
	if err = mapHTTPError("pull", resp); err != nil {
		return models.PullResponse{}, err
	}

	var out models.PullResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.PullResponse{}, fmt.Errorf("decode pull response: %w", err)
	}

	return out, nil
}

// observe reports a completed transfer to the network quality monitor.
// Request and response sizes are combined; the monitor only needs an
// order-of-magnitude throughput estimate.
func (h *httpServerAdapter) observe(sentBytes int, resp *resty.Response, started time.Time, err error) {
	if h.observer == nil {
		return
	}

	total := sentBytes
	elapsed := time.Since(started)
	if resp != nil {
		total += len(resp.Body())
		if rt := resp.Time(); rt > 0 {
			elapsed = rt
		}
	}

	h.observer.Observe(total, elapsed, err)
}

func mapHTTPError(op string, resp *resty.Response) error {
	code := resp.StatusCode()

	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	// Transient server conditions retry like network failures.
	if code >= http.StatusInternalServerError ||
		code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests {
		return &TransportError{Op: op, Err: fmt.Errorf("http %d: %s", code, body)}
	}

	return &RejectionError{Reason: fmt.Sprintf("http %d: %s", code, body)}
}

func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
