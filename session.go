// Package clarity is a domain object layer over the Clarity LIMS XML REST
// API. A Session owns the transport, a per-type factory registry, and an
// entity cache; entities wrap one XML document each and expose their fields
// through declarative descriptors from the element package.
//
// The model is single-threaded and synchronous: every fetch or link
// resolution is a blocking call, and a Session must not be shared across
// goroutines. Callers needing parallelism fan out with separate sessions.
package clarity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

// maxResponseSize limits response bodies to prevent memory exhaustion from
// a misbehaving endpoint.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// riNamespace is the shared resource-index namespace used by batch link and
// paging envelopes.
const riNamespace = "http://genologics.com/ri"

// Session is one authenticated connection to a Clarity server. It holds the
// per-type factories, created once at construction and read-only afterward,
// and a cache of entity handles keyed by URI so repeated link resolution
// yields the same object.
type Session struct {
	baseURI    string
	username   string
	password   string
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger

	registry map[xmldoc.QName]anyFactory
	cache    map[string]Element

	Artifacts    *Factory[*Artifact]
	Samples      *Factory[*Sample]
	Files        *Factory[*File]
	Containers   *Factory[*Container]
	Processes    *Factory[*Process]
	Steps        *Factory[*Step]
	Stages       *Factory[*Stage]
	ControlTypes *Factory[*ControlType]
	Queues       *Factory[*Queue]
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(s *Session) { s.httpClient = c }
}

// WithRetryConfig sets the retry configuration for transient failures.
func WithRetryConfig(cfg RetryConfig) SessionOption {
	return func(s *Session) { s.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session against the API root, e.g.
// "https://lims.example.com/api/v2".
func NewSession(baseURI, username, password string, opts ...SessionOption) (*Session, error) {
	baseURI = strings.TrimRight(baseURI, "/")
	if baseURI == "" {
		return nil, errors.New("base URI is required")
	}
	s := &Session{
		baseURI:    baseURI,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retry:      DefaultRetryConfig(),
		logger:     slog.Default(),
		registry:   make(map[xmldoc.QName]anyFactory),
		cache:      make(map[string]Element),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.Artifacts, err = NewFactory(s, artifactMeta, func() *Artifact { return &Artifact{} }); err != nil {
		return nil, err
	}
	if s.Samples, err = NewFactory(s, sampleMeta, func() *Sample { return &Sample{} }); err != nil {
		return nil, err
	}
	if s.Files, err = NewFactory(s, fileMeta, func() *File { return &File{} }); err != nil {
		return nil, err
	}
	if s.Containers, err = NewFactory(s, containerMeta, func() *Container { return &Container{} }); err != nil {
		return nil, err
	}
	if s.Processes, err = NewFactory(s, processMeta, func() *Process { return &Process{} }); err != nil {
		return nil, err
	}
	if s.Steps, err = NewFactory(s, stepMeta, func() *Step { return &Step{} }); err != nil {
		return nil, err
	}
	if s.Stages, err = NewFactory(s, stageMeta, func() *Stage { return &Stage{} }); err != nil {
		return nil, err
	}
	if s.ControlTypes, err = NewFactory(s, controlTypeMeta, func() *ControlType { return &ControlType{} }); err != nil {
		return nil, err
	}
	if s.Queues, err = NewFactory(s, queueMeta, func() *Queue { return &Queue{} }); err != nil {
		return nil, err
	}
	return s, nil
}

// BaseURI returns the API root the session was created with.
func (s *Session) BaseURI() string { return s.baseURI }

// Resolve turns a link into an entity handle through the factory registry
// for the link's declared type. The handle is lazy: no fetch happens until
// a field is first accessed. Resolution never mutates the source document.
func (s *Session) Resolve(l *element.Link) (Element, error) {
	if l == nil {
		return nil, nil
	}
	f, ok := s.registry[l.Tag]
	if !ok {
		return nil, fmt.Errorf("no factory registered for %s", l.Tag)
	}
	return f.elementFromURI(l.URI), nil
}

// FetchDocument retrieves and parses the document at uri.
func (s *Session) FetchDocument(ctx context.Context, uri string) (*xmldoc.Document, error) {
	data, err := s.do(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	doc, err := xmldoc.Parse(data, uri)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("%s: %w", uri, err))
	}
	return doc, nil
}

// PutDocument writes a document back to its canonical URI and returns the
// server's updated representation.
func (s *Session) PutDocument(ctx context.Context, doc *xmldoc.Document) (*xmldoc.Document, error) {
	if doc.URI() == "" {
		return nil, NewFatalError(errors.New("document has no URI to save to"))
	}
	body, err := doc.Bytes()
	if err != nil {
		return nil, NewFatalError(err)
	}
	data, err := s.do(ctx, http.MethodPut, doc.URI(), body)
	if err != nil {
		return nil, err
	}
	updated, err := xmldoc.Parse(data, doc.URI())
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("%s: %w", doc.URI(), err))
	}
	return updated, nil
}

// PostDocument sends a document to uri and parses the response document.
func (s *Session) PostDocument(ctx context.Context, uri string, doc *xmldoc.Document) (*xmldoc.Document, error) {
	body, err := doc.Bytes()
	if err != nil {
		return nil, NewFatalError(err)
	}
	data, err := s.do(ctx, http.MethodPost, uri, body)
	if err != nil {
		return nil, err
	}
	resp, err := xmldoc.Parse(data, "")
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("%s: %w", uri, err))
	}
	return resp, nil
}

// Save writes a dirty entity back to the server and replaces its cached
// document with the server's representation. Clean entities are skipped.
func (s *Session) Save(ctx context.Context, e Element) error {
	b := e.base()
	if b.doc == nil || !b.doc.Dirty() {
		return nil
	}
	updated, err := s.PutDocument(ctx, b.doc)
	if err != nil {
		return err
	}
	b.doc = updated
	return nil
}

// do runs one request with retry on transient failures. The caller's
// context bounds the whole exchange including backoff waits.
func (s *Session) do(ctx context.Context, method, uri string, body []byte) ([]byte, error) {
	reqID := uuid.NewString()
	attempts := s.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := s.doOnce(ctx, method, uri, body, reqID)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == attempts {
			return nil, err
		}
		wait := s.retry.backoff(attempt)
		s.logger.Warn("transient request failure, retrying",
			"request_id", reqID,
			"method", method,
			"uri", uri,
			"attempt", attempt,
			"backoff", wait,
			"error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (s *Session) doOnce(ctx context.Context, method, uri string, body []byte, reqID string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, reader)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Accept", "application/xml")
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, NewTransientError(fmt.Errorf("%s %s: %w", method, uri, err))
	}
	defer resp.Body.Close()
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response from %s: %w", uri, err))
	}

	s.logger.Debug("api request",
		"request_id", reqID,
		"method", method,
		"uri", uri,
		"status", resp.StatusCode,
		"duration", elapsed)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewFatalError(fmt.Errorf("%s: %w", uri, ErrNotFound))
	case resp.StatusCode >= 500:
		return nil, NewTransientError(&StatusError{StatusCode: resp.StatusCode, URI: uri, Body: string(data)})
	default:
		return nil, NewFatalError(&StatusError{StatusCode: resp.StatusCode, URI: uri, Body: string(data)})
	}
}
