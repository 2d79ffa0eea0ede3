// Package fetch retrieves the operator CSV sources over HTTP. The
// reconciliation pipeline itself does no I/O; everything network-related
// (timeouts, retries, header handling) lives here.
package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mksoul/liversettle/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Client is an HTTP fetcher with bounded retries.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
}

func NewClient(timeout time.Duration, retries int, backoff time.Duration) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		retries: retries,
		backoff: backoff,
	}
}

// Get downloads a URL, retrying transient failures with linear backoff.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
			log.Printf("[fetch] retry %d/%d for %s", attempt, c.retries, url)
		}

		data, err := c.getOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GetCSV downloads and parses a CSV source. It strips a UTF-8 BOM if present
// and drops the header row when skipHeader is set. The raw bytes are
// returned alongside the rows for content hashing.
func (c *Client) GetCSV(ctx context.Context, url string, skipHeader bool) ([][]string, []byte, error) {
	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	rows, err := ParseCSV(data, skipHeader)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return rows, data, nil
}

// ParseCSV decodes CSV bytes into rows of trimmed-as-read fields. Ragged
// rows are allowed; the loaders enforce per-source column requirements.
func ParseCSV(data []byte, skipHeader bool) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}

// MonthURL expands a month-templated source URL. Templates carry {year} and
// {month} placeholders, e.g. ".../{year}-{month}_all_all.csv".
func MonthURL(template string, m domain.Month) string {
	url := strings.ReplaceAll(template, "{year}", fmt.Sprintf("%04d", m.Year))
	return strings.ReplaceAll(url, "{month}", fmt.Sprintf("%02d", m.Month))
}
