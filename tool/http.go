package tool

import (
	"net/http"
	"time"
)

var (
	DefaultTimeout       = 30 * time.Second
	ConnectionHttpClient *http.Client
)

func init() {
	ConnectionHttpClient = NewHTTPClient()
}

// NewHTTPClient creates the HTTP client used for streaming file downloads
// from the Bot API file endpoint. No overall timeout: large transfers are
// bounded by per-chunk context checks instead.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: DefaultTimeout,
		},
	}
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
