package integration

import "errors"

var (
	ErrUpstreamUnavailable       = errors.New("upstream service unavailable")
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
	ErrNotFound                  = errors.New("resource not found")
)
