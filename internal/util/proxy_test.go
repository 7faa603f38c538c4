package util

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClientExplicitProxy(t *testing.T) {
	client := NewHTTPClient(time.Second, "http://proxy.internal:3128", "", "localhost")

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("unexpected transport type %T", client.Transport)
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if err != nil {
		t.Fatal(err)
	}
	proxyURL, err := transport.Proxy(req)
	if err != nil {
		t.Fatalf("Proxy failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "proxy.internal:3128" {
		t.Errorf("proxy = %v, want proxy.internal:3128", proxyURL)
	}

	// Hosts on the no-proxy list connect directly
	direct, err := http.NewRequest(http.MethodGet, "http://localhost:11434/api/tags", nil)
	if err != nil {
		t.Fatal(err)
	}
	proxyURL, err = transport.Proxy(direct)
	if err != nil {
		t.Fatalf("Proxy failed: %v", err)
	}
	if proxyURL != nil {
		t.Errorf("localhost should bypass the proxy, got %v", proxyURL)
	}

	if client.Timeout != time.Second {
		t.Errorf("timeout = %v", client.Timeout)
	}
}
