// Package httputil provides HTTP utilities for fetching remote flow sources.
//
// # Overview
//
// This package provides the infrastructure used when a flow graph is
// loaded from a URL instead of a local file:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores fetched responses in the filesystem (~/.cache/flowviz/)
// with configurable TTL. Flow exports rarely change between renders, so
// repeated invocations skip the network entirely.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var body []byte
//	ok, err := cache.Get("source:"+url, &body)  // Check cache
//	if !ok {
//	    body = fetch(url)
//	    cache.Set("source:"+url, body)          // Store for later
//	}
//
// Cache keys should be namespaced to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures
// such as network errors and 5xx responses. Wrap the transient error in
// [RetryableError] to signal a retry:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/flowviz/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `flowviz cache clear` or by deleting the
// cache directory.
package httputil
