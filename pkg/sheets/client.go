// Package sheets is a thin Google Sheets values client used by the export tool.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client writes value ranges into spreadsheets
type Client struct {
	service *sheets.Service
}

// Config selects credentials. Endpoint and HTTPClient are for tests and proxies;
// when HTTPClient is set no credentials are loaded.
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Endpoint        string
	HTTPClient      *http.Client
}

// ErrNotConfigured is returned when no credentials were supplied
var ErrNotConfigured = errors.New("sheets: credentials path or JSON is required")

// NewClient creates a Sheets client with spreadsheet write scope
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}

	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, ErrNotConfigured
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// AppendValues inserts rows after the last row of the table found in rng
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	if err := c.check(spreadsheetID); err != nil {
		return err
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", rng, err)
	}
	return nil
}

// UpdateValues overwrites the cells starting at rng
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	if err := c.check(spreadsheetID); err != nil {
		return err
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", rng, err)
	}
	return nil
}

// ClearValues empties rng, keeping formatting
func (c *Client) ClearValues(ctx context.Context, spreadsheetID, rng string) error {
	if err := c.check(spreadsheetID); err != nil {
		return err
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", rng, err)
	}
	return nil
}

func (c *Client) check(spreadsheetID string) error {
	if c == nil || c.service == nil {
		return errors.New("sheets: service is nil")
	}
	if spreadsheetID == "" {
		return errors.New("sheets: spreadsheet id is required")
	}
	return nil
}
