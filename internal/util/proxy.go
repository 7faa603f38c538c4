// Package util holds shared HTTP plumbing for provider clients.
package util

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// NewHTTPClient builds an HTTP client with the given timeout and proxy
// settings. When no proxy is configured explicitly the standard
// environment variables apply. noProxy takes the usual comma-separated
// host list and is honored in both cases.
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *http.Client {
	cfg := &httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	if httpProxy == "" && httpsProxy == "" {
		cfg = httpproxy.FromEnvironment()
		if noProxy != "" {
			cfg.NoProxy = noProxy
		}
	}

	proxyFor := cfg.ProxyFunc()
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return proxyFor(req.URL)
			},
		},
	}
}
