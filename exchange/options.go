package exchange

import (
	"net/http"
	"time"
)

type Options struct {
	Timeout         time.Duration
	FollowRedirects bool
	Auth            AuthOptions
	SkipVerify      bool
	ForceHTTP1      bool

	// MaxIdleConnsPerHost is usually set to the number of concurrent workers.
	MaxIdleConnsPerHost int

	// Transport replaces the default transport when non-nil (used by tests).
	Transport http.RoundTripper
}

type AuthOptions struct {
	Enabled  bool
	UserName string
	Password string
}
