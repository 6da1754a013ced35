package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// maxRawSize is the largest file read from its raw URL. Larger files are an
// error rather than a partial read.
const maxRawSize = 10 << 20

// GistConfig holds the connection parameters for the GitHub gists API.
type GistConfig struct {
	// Token is the personal access token sent as a bearer credential.
	Token string `json:"token"`

	// BaseURL overrides the API root, e.g. for GitHub Enterprise
	// ("https://github.example.com/api/v3/"). Empty means api.github.com.
	BaseURL string `json:"base_url"`

	// Timeout bounds each HTTP request. Zero means 30 seconds.
	Timeout time.Duration `json:"timeout"`

	// HTTPClient replaces the default pooled client when set. Timeout is
	// ignored in that case.
	HTTPClient *http.Client `json:"-"`
}

// GistHost is a Host backed by GitHub gists.
type GistHost struct {
	gh   *github.Client
	http *http.Client
}

// Compile-time interface check.
var _ Host = (*GistHost)(nil)

// NewGistHost creates a gist host authenticated with cfg.Token.
func NewGistHost(cfg GistConfig) (*GistHost, error) {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	gh := github.NewClient(hc)
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
		}
		gh.BaseURL = u
	}

	return &GistHost{gh: gh, http: hc}, nil
}

// ReadFile fetches the gist and returns the content of filename. Files the
// API reports truncated (over 1 MB) are read in full from their raw URL.
func (h *GistHost) ReadFile(ctx context.Context, gistID, filename string) (string, error) {
	gist, _, err := h.gh.Gists.Get(ctx, gistID)
	if err != nil {
		return "", classify(err, gistID)
	}

	f, ok := gist.Files[github.GistFilename(filename)]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
	}

	content := f.GetContent()
	if f.GetSize() > len(content) && f.GetRawURL() != "" {
		return h.readRaw(ctx, f.GetRawURL())
	}
	return content, nil
}

// WriteFile replaces the content of filename, creating it if absent.
func (h *GistHost) WriteFile(ctx context.Context, gistID, filename, content string) error {
	edit := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(filename): {Content: github.String(content)},
		},
	}
	if _, _, err := h.gh.Gists.Edit(ctx, gistID, edit); err != nil {
		return classify(err, gistID)
	}
	return nil
}

// DeleteFile removes filename from the gist. The API deletes a file whose
// entry is null, which github.GistFile cannot express, so the request body
// is built by hand.
func (h *GistHost) DeleteFile(ctx context.Context, gistID, filename string) error {
	gist, _, err := h.gh.Gists.Get(ctx, gistID)
	if err != nil {
		return classify(err, gistID)
	}
	if _, ok := gist.Files[github.GistFilename(filename)]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
	}

	body := map[string]any{"files": map[string]any{filename: nil}}
	req, err := h.gh.NewRequest(http.MethodPatch, "gists/"+url.PathEscape(gistID), body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if _, err := h.gh.Do(ctx, req, nil); err != nil {
		return classify(err, gistID)
	}
	return nil
}

func (h *GistHost) readRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create raw request: %w", ErrRequestFailed, err)
	}
	resp, err := h.http.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: raw content HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRawSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read raw content: %w", ErrRequestFailed, err)
	}
	if len(body) > maxRawSize {
		return "", fmt.Errorf("%w: raw content exceeds %d bytes", ErrRequestFailed, maxRawSize)
	}
	return string(body), nil
}

// classify maps go-github errors onto the host sentinels.
func classify(err error, gistID string) error {
	if IsTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrGistNotFound, gistID)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrRequestFailed, err)
}
