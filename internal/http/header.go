package http

import (
	"net/http"
	"strings"
)

const (
	headerRequestID    = "x-request-id"
	headerContentType  = "content-type"
	headerCacheControl = "cache-control"

	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}
