// Package clients holds the shared HTTP plumbing for outbound calls.
package clients

import (
	"net"
	"net/http"
	"time"
)

// DefaultTransport returns an HTTP transport with connection limits suitable
// for a short-lived publisher run. Capping connections per host keeps a dead
// webhook provider from piling up dials.
func DefaultTransport() *http.Transport {
	return &http.Transport{
		MaxConnsPerHost:     10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     60 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
