// Package fetch downloads the review snapshot from a datasets-server style
// rows endpoint into the raw artifact.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/cognicore/gourmet/internal/logging"
	"github.com/cognicore/gourmet/pkg/gourmet/artifact"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// maxPageSize is the largest page the rows endpoint serves.
const maxPageSize = 100

// Client pages through a remote dataset split.
type Client struct {
	Endpoint string
	Dataset  string
	Config   string
	Split    string
	PageSize int
	MaxRows  int // 0 fetches everything

	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// NewClient builds a client from the dataset settings.
func NewClient(cfg config.DatasetConfig, logger logrus.FieldLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		Endpoint:   cfg.Endpoint,
		Dataset:    cfg.Name,
		Config:     cfg.Config,
		Split:      cfg.Split,
		PageSize:   cfg.PageSize,
		MaxRows:    cfg.MaxRows,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

type rowsResponse struct {
	Rows []struct {
		RowIdx int                        `json:"row_idx"`
		Row    map[string]json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int    `json:"num_rows_total"`
	Error        string `json:"error"`
}

// Fetch downloads the split and writes it to dest as review_body,stars.
// Nothing is written unless every page succeeds. It returns the number of
// rows written.
func (c *Client) Fetch(ctx context.Context, dest string) (int, error) {
	if c.Endpoint == "" || c.Dataset == "" {
		return 0, fmt.Errorf("%w: endpoint and dataset required", internalerr.ErrFetch)
	}
	log := logging.OrDiscard(c.Logger).WithField("dataset", c.Dataset)

	var out []review.RawReview
	offset := 0
	for {
		length := c.pageSize()
		if c.MaxRows > 0 && c.MaxRows-len(out) < length {
			length = c.MaxRows - len(out)
		}

		page, err := c.page(ctx, offset, length)
		if err != nil {
			return 0, err
		}
		for _, r := range page.Rows {
			rec, ok := toRaw(r.Row)
			if !ok {
				log.WithField("row_idx", r.RowIdx).Warn("row has no review body column")
				continue
			}
			out = append(out, rec)
		}
		offset += len(page.Rows)

		log.WithFields(logrus.Fields{"offset": offset, "total": page.NumRowsTotal}).Debug("fetched page")

		if len(page.Rows) == 0 || offset >= page.NumRowsTotal {
			break
		}
		if c.MaxRows > 0 && len(out) >= c.MaxRows {
			break
		}
	}

	if len(out) == 0 {
		return 0, fmt.Errorf("%w: %w: dataset %s returned no reviews", internalerr.ErrFetch, internalerr.ErrEmptyCorpus, c.Dataset)
	}
	if err := artifact.WriteRaw(dest, out); err != nil {
		return 0, err
	}
	log.WithField("rows", len(out)).Info("raw snapshot written")
	return len(out), nil
}

func (c *Client) pageSize() int {
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return maxPageSize
	}
	return c.PageSize
}

func (c *Client) page(ctx context.Context, offset, length int) (*rowsResponse, error) {
	q := url.Values{}
	q.Set("dataset", c.Dataset)
	q.Set("config", c.Config)
	q.Set("split", c.Split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(length))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", internalerr.ErrFetch, err)
	}

	var payload rowsResponse
	decodeErr := json.Unmarshal(body, &payload)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("%w: HTTP %d at offset %d: %s", internalerr.ErrFetch, resp.StatusCode, offset, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode page at offset %d: %v", internalerr.ErrFetch, offset, decodeErr)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func toRaw(row map[string]json.RawMessage) (review.RawReview, bool) {
	body, ok := row[artifact.ColReviewBody]
	if !ok {
		body, ok = row[artifact.ColReview]
	}
	if !ok {
		return review.RawReview{}, false
	}
	rating, ok := row[artifact.ColStars]
	if !ok {
		rating = row[artifact.ColRating]
	}
	return review.RawReview{
		Body:   StripHTML(cell(body)),
		Rating: review.ParseRating(cell(rating)),
	}, true
}

// cell renders a JSON scalar as CSV text; null and composites become "".
func cell(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 'n', '{', '[':
		return ""
	default:
		return string(raw)
	}
}

// StripHTML returns the text content of s. Text without markup is
// returned unchanged.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
