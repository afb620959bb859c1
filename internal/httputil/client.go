// ABOUTME: Shared tuned HTTP client construction for the tool endpoint
// ABOUTME: Proxy from environment, TLS floor, dial and header timeouts

package httputil

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// New returns an http.Client tuned for long-lived streamed responses.
// No overall client timeout is set: the diagnosis call carries its own
// context deadline, and a client-level timeout would cut streams short
// independently of that budget.
func New() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			MaxIdleConns:          16,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
