// Package printer sends receipts to a print bridge over HTTP.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/checkout"
)

type printRequest struct {
	Receipt checkout.Receipt     `json:"receipt"`
	Config  checkout.PrintConfig `json:"config"`
}

// HTTPPrinter posts the receipt and print settings as JSON to a bridge that
// owns the device.
type HTTPPrinter struct {
	url    string
	client *http.Client
}

var _ checkout.Printer = (*HTTPPrinter)(nil)

func NewHTTPPrinter(url string, timeout time.Duration) *HTTPPrinter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPrinter{url: url, client: &http.Client{Timeout: timeout}}
}

func (p *HTTPPrinter) Print(ctx context.Context, r checkout.Receipt, cfg checkout.PrintConfig) error {
	data, err := json.Marshal(printRequest{Receipt: r, Config: cfg})
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to printer bridge %s: %w", p.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("printer bridge returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

// NopPrinter accepts every receipt and prints nothing.
type NopPrinter struct{}

func (NopPrinter) Print(context.Context, checkout.Receipt, checkout.PrintConfig) error { return nil }
