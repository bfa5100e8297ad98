package translate

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
	userAgent       = "event-announcer/1.0 (github.com/pfrederiksen/event-announcer)"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
