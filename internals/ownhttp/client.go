package ownhttp

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent with every request made through this package
var UserAgent = "blocklift/0 (+https://github.com/blocklift/blocklift)"

// AddHeaderTransport sets the User-Agent header on every request
type AddHeaderTransport struct {
	T http.RoundTripper
}

func (t *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", UserAgent)
	return t.T.RoundTrip(req)
}

// NewAddHeaderTransport wraps T (or the default transport) with the
// User-Agent header
func NewAddHeaderTransport(T http.RoundTripper) *AddHeaderTransport {
	if T == nil {
		T = defaultTransport()
	}
	return &AddHeaderTransport{T}
}

// New returns a new http.Client with the AddHeaderTransport
// (setting the User-Agent header) and sane dial timeouts
func New() *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil)}
}

func defaultTransport() *http.Transport {
	return &http.Transport{
		Dial: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
