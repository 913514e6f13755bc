package content

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrParse        = errors.New("parse error")
	ErrNetwork      = errors.New("network error")
)

// Kind names the error class of err for display, or "" when err is nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrRateLimited):
		return "RateLimited"
	case errors.Is(err, ErrParse):
		return "ParseError"
	case errors.Is(err, ErrNetwork):
		return "NetworkError"
	default:
		return "Unknown"
	}
}

func statusError(code int, url string) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrRateLimited, url)
	default:
		return fmt.Errorf("%w: GET %s: HTTP %d", ErrNetwork, url, code)
	}
}
