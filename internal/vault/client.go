package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/florisjonkman/Zobioweb/internal/config"
	"github.com/florisjonkman/Zobioweb/internal/logging"
	"github.com/florisjonkman/Zobioweb/internal/slotaddr"
)

// ErrVault tags every failure talking to the backend so callers can
// distinguish vault trouble from local errors.
var ErrVault = errors.New("vault request failed")

// TimestampFormat is how submission timestamps are rendered for the
// vault's "Last touched on" field.
const TimestampFormat = "15:04, 02 Jan 2006"

// HTTPDoer describes the HTTP client used by the vault client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Zobioweb backend, which proxies CDD Vault.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient constructs a vault client. A nil logger disables logging.
func NewClient(baseURL, token string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
		logger:  logging.NewComponentLogger(logger, "vault"),
		now:     time.Now,
	}
}

// NewConfiguredClient builds a client from application config, with the
// configured request timeout applied.
func NewConfiguredClient(cfg *config.Config, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Vault.RequestTimeout) * time.Second}
	return NewClient(cfg.Vault.BaseURL, cfg.Vault.Token, httpClient, logger)
}

// ListProjects returns the projects the operator may scan into.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out projectsEnvelope
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Output.Projects, nil
}

// ValidateBarcode runs the three vault checks for one scanned barcode:
// does it exist, does it belong to the given project, and is its status
// allowed under the given operation.
func (c *Client) ValidateBarcode(ctx context.Context, op Operation, barcode string, project Project) (ValidationResult, error) {
	payload := map[string]any{
		"project": map[string]any{"id": project.ID, "name": project.Name},
		"barcode": barcode,
		"type":    string(op),
	}
	var out locationEnvelope
	if err := c.do(ctx, http.MethodPost, "/getlocation", payload, &out); err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{
		InVault:   out.Output.InCDD,
		InProject: out.Output.InCorrectProject,
		StatusOK:  out.Output.CorrectStatus,
	}
	if vial := out.Output.VialData; vial != nil && result.InVault {
		result.Status = vial.Status
		result.ContainerBarcode = vial.ContainerBarcode
		result.ContainerType = vial.ContainerType
		if !result.InProject {
			result.OtherProject = vial.Project.Name
		}
		if vial.Location != "" {
			if _, coord, err := slotaddr.ParseLocation(vial.Location); err == nil {
				result.Location = coord
			}
		}
	}
	return result, nil
}

// LastLocation returns the last occupied slot of a project, folded over
// all its batches by the backend. HasLocation is false for a project
// with no located vials yet.
func (c *Client) LastLocation(ctx context.Context, project Project) (LastLocationResult, error) {
	payload := map[string]any{"id": project.ID, "name": project.Name}
	var out lastLocationEnvelope
	if err := c.do(ctx, http.MethodPost, "/getlastlocation", payload, &out); err != nil {
		return LastLocationResult{}, err
	}
	result, err := decodeLastLocation(out.Output.LastLocation)
	if err != nil || !result.HasLocation {
		return result, err
	}
	result.ContainerType = out.Output.ContainerType
	result.ContainerBarcode = out.Output.ContainerBarcode
	return result, nil
}

// decodeLastLocation handles the backend's [name, box, position] triple.
// Older records carry the position as a packed two-digit number, newer
// ones as a slot label.
func decodeLastLocation(triple []any) (LastLocationResult, error) {
	if len(triple) < 3 || triple[0] == nil || triple[1] == nil || triple[2] == nil {
		return LastLocationResult{}, nil
	}
	name, ok := triple[0].(string)
	if !ok {
		return LastLocationResult{}, fmt.Errorf("%w: last location project is not a string", ErrVault)
	}
	box, ok := triple[1].(float64)
	if !ok || box < 1 {
		return LastLocationResult{}, nil
	}

	coord := slotaddr.Coordinate{Box: int(box)}
	switch pos := triple[2].(type) {
	case float64:
		row, col, err := slotaddr.UnpackPosition(int(pos))
		if err != nil {
			return LastLocationResult{}, fmt.Errorf("%w: %v", ErrVault, err)
		}
		coord.Row, coord.Col = row, col
	case string:
		row, col, err := slotaddr.ParseLabel(pos)
		if err != nil {
			return LastLocationResult{}, fmt.Errorf("%w: %v", ErrVault, err)
		}
		coord.Row, coord.Col = row, col
	default:
		return LastLocationResult{}, fmt.Errorf("%w: last location position has unexpected type %T", ErrVault, triple[2])
	}
	return LastLocationResult{HasLocation: true, Project: name, Location: coord}, nil
}

// SubmitBatch writes the scanned records back to the vault in one call.
// The backend re-validates every record; per-record failures come back
// in the result instead of failing the whole batch.
func (c *Client) SubmitBatch(ctx context.Context, op Operation, project Project, records []SubmitRecord) (SubmitResult, error) {
	if len(records) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: submission batch is empty", ErrVault)
	}

	timestamp := c.now().Format(TimestampFormat)
	data := make([]map[string]any, 0, len(records))
	for _, record := range records {
		data = append(data, map[string]any{
			"id":        record.ID,
			"barcode":   record.Barcode,
			"project":   map[string]any{"id": project.ID, "name": project.Name},
			"box":       record.Box,
			"poslabel":  record.SlotLabel,
			"username":  record.Username,
			"fullname":  record.FullName,
			"timestamp": timestamp,
		})
	}
	payload := map[string]any{"type": string(op), "data": data}

	var out submitEnvelope
	if err := c.do(ctx, http.MethodPost, "/submitdata", payload, &out); err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{Success: out.Output.Success}
	for _, vial := range out.Output.FailedVials {
		result.Failed = append(result.Failed, FailedRecord{
			Barcode: vial.Barcode,
			Status:  vial.Status,
			Reason:  vial.PostResponse.Message,
		})
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	correlationID := uuid.NewString()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s payload: %v", ErrVault, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build %s request: %v", ErrVault, path, err)
	}
	req.Header.Set("Token", c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrVault, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrVault, path, err)
	}

	c.logger.Debug("vault request",
		logging.Args(
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.Duration("elapsed", c.now().Sub(start)),
			logging.String(logging.FieldCorrelationID, correlationID),
		)...)

	if resp.StatusCode != http.StatusOK {
		var failure envelope
		message := strings.TrimSpace(string(raw))
		if err := json.Unmarshal(raw, &failure); err == nil && failure.Message != "" {
			message = failure.Message
		}
		return fmt.Errorf("%w: %s returned %d: %s", ErrVault, path, resp.StatusCode, message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode %s response: %v", ErrVault, path, err)
		}
	}
	return nil
}
