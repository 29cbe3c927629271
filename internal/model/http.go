package model

import (
	"net/http"
	"time"
)

// Request describes a single outbound page fetch.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the result of executing a Request through a WebClient backend.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}
