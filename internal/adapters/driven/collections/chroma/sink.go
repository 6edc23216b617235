// Package chroma provides a collection sink backed by a Chroma server's
// HTTP API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

var _ driven.CollectionStore = (*Sink)(nil)

var log = logger.Named("chroma")

const defaultTimeout = 30 * time.Second

// Sink writes manifest entries to Chroma collections, creating collections
// on first use. Writes are rate limited so a burst of dropzone files cannot
// flood the server.
type Sink struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter

	mu          sync.Mutex
	collections map[string]string // name -> collection ID
}

// Option configures a Sink.
type Option func(*Sink)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sink) { s.client = c }
}

// New creates a sink against baseURL. requestsPerSecond of zero disables
// rate limiting.
func New(baseURL string, requestsPerSecond float64, opts ...Option) *Sink {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	s := &Sink{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(limit, 1),
		collections: make(map[string]string),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store writes one entry.
func (s *Sink) Store(ctx context.Context, entry *domain.ManifestEntry) error {
	return s.StoreBatch(ctx, []*domain.ManifestEntry{entry})
}

// StoreBatch writes a manifest, grouped per collection into single add
// calls.
func (s *Sink) StoreBatch(ctx context.Context, entries []*domain.ManifestEntry) error {
	grouped := make(map[string][]*domain.ManifestEntry)
	for _, e := range entries {
		if e == nil || e.Collection == "" {
			return fmt.Errorf("chroma store: %w: missing collection", domain.ErrInvalidInput)
		}
		grouped[e.Collection] = append(grouped[e.Collection], e)
	}

	for name, group := range grouped {
		id, err := s.collectionID(ctx, name)
		if err != nil {
			return err
		}
		if err := s.add(ctx, id, group); err != nil {
			return fmt.Errorf("chroma store to %s: %w", name, err)
		}
		log.Debug("stored %d entries in %s", len(group), name)
	}
	return nil
}

// Close is a no-op; the sink holds no persistent connection.
func (s *Sink) Close() error { return nil }

// collectionID resolves (and caches) a collection name, creating the
// collection if it does not exist.
func (s *Sink) collectionID(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	if id, ok := s.collections[name]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{"name": name, "get_or_create": true}
	if err := s.post(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", fmt.Errorf("chroma get-or-create %s: %w", name, err)
	}

	s.mu.Lock()
	s.collections[name] = resp.ID
	s.mu.Unlock()
	return resp.ID, nil
}

// add appends documents to a collection.
func (s *Sink) add(ctx context.Context, collectionID string, entries []*domain.ManifestEntry) error {
	ids := make([]string, len(entries))
	docs := make([]string, len(entries))
	metas := make([]map[string]any, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		docs[i] = e.ChunkText
		metas[i] = map[string]any{
			"float_id":     string(e.FloatID),
			"source_path":  e.SourcePath,
			"chunk_index":  e.ChunkIndex,
			"total_chunks": e.TotalChunks,
			"domain":       string(e.Domain),
			"oversized":    e.Oversized,
			"truncated":    e.Truncated,
		}
	}

	body := map[string]any{
		"ids":       ids,
		"documents": docs,
		"metadatas": metas,
	}
	return s.post(ctx, "/api/v1/collections/"+collectionID+"/add", body, nil)
}

// post sends one rate-limited JSON request and decodes the response into
// out when out is non-nil.
func (s *Sink) post(ctx context.Context, path string, body, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("chroma returned %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
