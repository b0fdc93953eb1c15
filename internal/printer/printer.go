package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/florisjonkman/Zobioweb/internal/config"
)

// Label describes one container label to print.
type Label struct {
	ContainerBarcode string `json:"barcode"`
	Project          string `json:"project"`
	Box              int    `json:"box"`
	ItemCount        int    `json:"item_count"`
}

// HTTPDoer describes the HTTP client used by the printer service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service sends container labels to the label printer.
type Service interface {
	// PrintLabels submits the labels for printing. The accepted flag is
	// false when printing is disabled and the labels were silently dropped.
	PrintLabels(ctx context.Context, labels []Label) (accepted bool, err error)
}

// NewConfiguredService returns a printer service backed by the configured
// label printer endpoint, or a noop service when printing is disabled.
func NewConfiguredService(cfg *config.Config) Service {
	if cfg == nil || !cfg.Printer.Enabled {
		return noopService{}
	}
	url := strings.TrimSpace(cfg.Printer.URL)
	if url == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Printer.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewHTTPService(url, &http.Client{Timeout: timeout})
}

// NewHTTPService constructs an HTTP-backed printer service.
func NewHTTPService(url string, client HTTPDoer) Service {
	return &httpService{
		url:    strings.TrimRight(strings.TrimSpace(url), "/"),
		client: client,
	}
}

type httpService struct {
	url    string
	client HTTPDoer
}

func (s *httpService) PrintLabels(ctx context.Context, labels []Label) (bool, error) {
	if len(labels) == 0 {
		return false, nil
	}

	body, err := json.Marshal(map[string]any{"labels": labels})
	if err != nil {
		return false, fmt.Errorf("marshal labels: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build printer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("send labels to printer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return false, fmt.Errorf("printer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return true, nil
}

type noopService struct{}

func (noopService) PrintLabels(context.Context, []Label) (bool, error) {
	return false, nil
}
