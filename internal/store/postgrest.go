package store

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

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
)

const (
	defaultPageSize = 1000
	defaultTimeout  = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept in messages.
	maxErrorBody = 512
)

// PostgREST implements Store over the Supabase REST interface.
type PostgREST struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	table    string
	pageSize int
}

// NewPostgREST creates a REST store. baseURL is the project URL
// (https://<ref>.supabase.co); apiKey is sent as both apikey and bearer token.
func NewPostgREST(baseURL, apiKey, table string, timeout time.Duration) *PostgREST {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewPostgRESTWithClient(logging.NewClient(timeout), baseURL, apiKey, table)
}

// NewPostgRESTWithClient creates a REST store with a custom HTTP client.
func NewPostgRESTWithClient(client *http.Client, baseURL, apiKey, table string) *PostgREST {
	if table == "" {
		table = DefaultTable
	}
	return &PostgREST{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		table:    table,
		pageSize: defaultPageSize,
	}
}

// SetPageSize changes how many rows FetchAll requests per page.
func (s *PostgREST) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// FetchAll pages through the table ordered by id. The server may cap rows per
// response below the requested limit, so paging advances by the rows actually
// received and stops only on an empty page.
func (s *PostgREST) FetchAll(ctx context.Context) ([]flashcard.Card, error) {
	var all []flashcard.Card
	offset := 0
	for {
		q := url.Values{}
		q.Set("select", "id,arabic,spanish,category,phonetic")
		q.Set("order", "id.asc")
		q.Set("limit", strconv.Itoa(s.pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page []flashcard.Card
		if err := s.do(ctx, http.MethodGet, q, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch flashcards: %w", err)
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		offset += len(page)
	}
}

// Update patches the given columns of one row.
func (s *PostgREST) Update(ctx context.Context, id int64, fields flashcard.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}

	body := make(map[string]string, len(fields))
	for f, v := range fields {
		body[string(f)] = v
	}

	var updated []json.RawMessage
	if err := s.do(ctx, http.MethodPatch, idFilter(id), body, &updated); err != nil {
		return fmt.Errorf("failed to update flashcard %d: %w", id, err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("update flashcard %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes one row.
func (s *PostgREST) Delete(ctx context.Context, id int64) error {
	var deleted []json.RawMessage
	if err := s.do(ctx, http.MethodDelete, idFilter(id), nil, &deleted); err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}
	if len(deleted) == 0 {
		return fmt.Errorf("delete flashcard %d: %w", id, ErrNotFound)
	}
	return nil
}

func idFilter(id int64) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return q
}

// do sends one request to the table endpoint and decodes the JSON response
// into out. Mutations ask for the affected rows back so a missing id can be
// told apart from success.
func (s *PostgREST) do(ctx context.Context, method string, query url.Values, body any, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, url.PathEscape(s.table), query.Encode())

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
