// Package source loads flow graphs from files, stdin, and URLs.
//
// A source ref identifies where a graph comes from:
//
//   - "-" reads a JSON graph from stdin
//   - "http://..." or "https://..." fetches a JSON graph over HTTP
//   - anything else is treated as a local file path
//
// Remote fetches retry transient failures with exponential backoff and
// cache both the raw HTTP response and the fetched graph, so repeated
// renders of the same URL don't re-download it. Local files and stdin
// are never cached.
//
// # Usage
//
//	loader := source.NewLoader(cache, nil, logger)
//	g, err := loader.Load(ctx, "https://example.com/flows/train.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowviz/pkg/cache"
	apperrors "github.com/matzehuels/flowviz/pkg/errors"
	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/httputil"
	"github.com/matzehuels/flowviz/pkg/observability"
)

// DefaultTimeout bounds a single fetch attempt for remote refs.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps remote graph downloads at 32 MiB. A flow export is a
// few kilobytes; anything near this limit is not a graph.
const maxBodySize = 32 << 20

// httpNamespace scopes HTTP response cache keys for source fetches.
const httpNamespace = "source:"

// Loader resolves source refs into flow graphs.
//
// A Loader is safe for concurrent use. The zero value is not usable;
// construct one with [NewLoader].
type Loader struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Client *http.Client
	Logger *log.Logger

	// HTTPCache, when set, keeps raw HTTP response bodies on disk below
	// the graph cache, so an expired or flushed graph entry doesn't force
	// a re-download. Nil disables response caching.
	HTTPCache *httputil.Cache

	// Stdin is the reader used for the "-" ref. Defaults to os.Stdin.
	Stdin io.Reader
}

// NewLoader creates a loader with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewLoader(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Loader {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		Cache:  c,
		Keyer:  keyer,
		Client: &http.Client{Timeout: DefaultTimeout},
		Logger: logger,
		Stdin:  os.Stdin,
	}
}

// Load resolves ref into a flow graph.
func (l *Loader) Load(ctx context.Context, ref string) (*flow.Graph, error) {
	g, _, err := l.LoadWithCacheInfo(ctx, ref, false)
	return g, err
}

// LoadWithCacheInfo resolves ref into a flow graph and reports whether it
// came from the cache. Set refresh to bypass the cached copy of a remote
// ref; local files and stdin never hit the cache.
func (l *Loader) LoadWithCacheInfo(ctx context.Context, ref string, refresh bool) (*flow.Graph, bool, error) {
	if err := apperrors.ValidateSourceRef(ref); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, ref)

	g, hit, err := l.load(ctx, ref, refresh)

	taskCount := 0
	if g != nil {
		taskCount = g.TaskCount()
	}
	observability.Pipeline().OnLoadComplete(ctx, ref, taskCount, time.Since(start), err)

	if err != nil {
		return nil, false, err
	}

	if err := g.Validate(); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "flow graph failed validation")
	}

	l.Logger.Debug("loaded flow graph",
		"ref", ref,
		"tasks", g.TaskCount(),
		"edges", g.EdgeCount(),
		"cached", hit)

	return g, hit, nil
}

func (l *Loader) load(ctx context.Context, ref string, refresh bool) (*flow.Graph, bool, error) {
	switch {
	case ref == "-":
		g, err := l.loadStdin()
		return g, false, err
	case IsRemote(ref):
		return l.loadRemote(ctx, ref, refresh)
	default:
		g, err := l.loadFile(ref)
		return g, false, err
	}
}

// IsRemote reports whether ref is an HTTP or HTTPS URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (l *Loader) loadStdin() (*flow.Graph, error) {
	in := l.Stdin
	if in == nil {
		in = os.Stdin
	}
	g, err := flow.ReadJSON(in)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read flow graph from stdin")
	}
	return g, nil
}

func (l *Loader) loadFile(path string) (*flow.Graph, error) {
	g, err := flow.ImportJSON(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "flow file not found: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "load flow file")
	}
	return g, nil
}

func (l *Loader) loadRemote(ctx context.Context, ref string, refresh bool) (*flow.Graph, bool, error) {
	if err := apperrors.ValidateURL(ref); err != nil {
		return nil, false, err
	}

	cacheKey := l.Keyer.GraphKey(ref)

	// Try cache first (unless refresh requested)
	if !refresh {
		if data, hit, err := l.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			g, err := flow.ReadJSON(bytes.NewReader(data))
			if err == nil {
				return g, true, nil // Cache hit
			}
			// Corrupt entry - refetch
		} else {
			observability.Cache().OnCacheMiss(ctx, "graph")
		}
	}

	data, err := l.fetch(ctx, ref, refresh)
	if err != nil {
		return nil, false, err
	}

	g, err := flow.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse remote flow graph")
	}

	if err := l.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err == nil {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}

	return g, false, nil // Cache miss
}

// fetch downloads a remote ref, retrying transient failures. Responses
// are looked up in and written to the HTTP cache when one is configured;
// refresh skips the lookup but still refreshes the stored copy.
func (l *Loader) fetch(ctx context.Context, ref string, refresh bool) ([]byte, error) {
	key := l.Keyer.HTTPKey(httpNamespace, ref)
	if !refresh && l.HTTPCache != nil {
		var cached []byte
		if ok, err := l.HTTPCache.Get(key, &cached); ok && err == nil {
			observability.Cache().OnCacheHit(ctx, "http")
			return cached, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = fetchOnce(ctx, client, ref)
		return err
	})
	if err != nil {
		return nil, err
	}

	if l.HTTPCache != nil {
		if err := l.HTTPCache.Set(key, body); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(body))
		}
	}
	return body, nil
}

func fetchOnce(ctx context.Context, client *http.Client, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse source URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, u.Host, u.Path)

	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("fetch %s: %w", ref, err)}
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, &httputil.RetryableError{Err: fmt.Errorf("read body: %w", err)}
		}
		return body, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.New(apperrors.ErrCodeGraphNotFound, "flow source not found: %s", ref)

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &apperrors.RateLimitedError{
			RetryAfter: retryAfterSeconds(resp),
			Message:    fmt.Sprintf("rate limited fetching %s", ref),
		}

	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: fmt.Errorf("fetch %s: server returned %s", ref, resp.Status)}

	default:
		return nil, apperrors.New(apperrors.ErrCodeNetwork, "fetch %s: unexpected status %s", ref, resp.Status)
	}
}

func retryAfterSeconds(resp *http.Response) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return secs
		}
	}
	return 60
}
