package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mdproxy/pkg/types"
)

// Prompter supplies names for newly created files and folders. The GUI wires
// a dialog here; the CLI wires a terminal prompt.
type Prompter interface {
	PromptName(ctx context.Context, purpose string) (string, error)
}

// Uploader opens an external file-upload surface. The proxy only triggers
// it; transfer and callback wiring belong to the collaborator.
type Uploader interface {
	OpenUpload(ctx context.Context) error
}

// Proxy mediates between a local consumer and a remote modeling server.
// Use New to construct one.
type Proxy struct {
	baseURL  string
	hc       *http.Client
	log      zerolog.Logger
	prompter Prompter
	uploader Uploader

	mu        sync.Mutex
	listeners []func()

	snapshot cache[types.Snapshot]
	catalog  cache[*types.TypeCatalog]
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithHTTPClient replaces the default HTTP client (e.g. to set timeouts or
// a custom transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Proxy) {
		if hc != nil {
			p.hc = hc
		}
	}
}

// WithLogger installs a structured logger used by the proxy.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Proxy) { p.log = l }
}

// WithPrompter installs the name-prompt collaborator used by NewFile and
// NewFolder.
func WithPrompter(pr Prompter) Option {
	return func(p *Proxy) { p.prompter = pr }
}

// WithUploader installs the upload collaborator used by UploadFile.
func WithUploader(u Uploader) Option {
	return func(p *Proxy) { p.uploader = u }
}

// New builds a Proxy for the server at baseURL.
func New(baseURL string, opts ...Option) (*Proxy, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	p := &Proxy{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
		snapshot: cache[types.Snapshot]{name: "snapshot"},
		catalog:  cache[*types.TypeCatalog]{name: "types"},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// get issues a GET against endpoint with optional query values and returns
// the raw response body.
func (p *Proxy) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	return p.do(ctx, http.MethodGet, endpoint, q, nil)
}

// post marshals body as JSON and issues a POST against endpoint.
func (p *Proxy) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return p.do(ctx, http.MethodPost, endpoint, nil, body)
}

func (p *Proxy) do(ctx context.Context, method, endpoint string, q url.Values, body any) ([]byte, error) {
	u := p.baseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, endpoint, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := p.hc.Do(req)
	if err != nil {
		observeRequest(endpoint, method, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	observeRequest(endpoint, method, resp.StatusCode, time.Since(start))
	p.log.Debug().Str("endpoint", endpoint).Str("method", method).
		Int("status", resp.StatusCode).Dur("dur", time.Since(start)).Msg("request")
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusErrorFrom(endpoint, resp.StatusCode, out)
	}
	return out, nil
}
