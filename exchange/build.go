package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nojima/httpbench-go/generator"
	"github.com/nojima/httpbench-go/version"
	"github.com/pkg/errors"
)

const defaultDataContentType = "application/x-www-form-urlencoded; charset=utf-8"

// BuildHTTPRequest turns a descriptor into a request against base.
func BuildHTTPRequest(ctx context.Context, base *url.URL, d generator.Descriptor, options *Options) (*http.Request, error) {
	u, err := buildURL(base, d.URI)
	if err != nil {
		return nil, err
	}

	header := buildHTTPHeader(d)
	if d.Data != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", defaultDataContentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", fmt.Sprintf("httpbench-go/%s", version.Current()))
	}

	method := d.Method
	if method == "" {
		method = guessMethod(d)
	}

	r, err := http.NewRequestWithContext(ctx, string(method), u.String(), strings.NewReader(d.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, u)
	}
	if d.Data == "" {
		r.Body = http.NoBody
		r.ContentLength = 0
	}
	r.Header = header
	if host := header.Get("Host"); host != "" {
		r.Host = host
	}
	if options.Auth.Enabled {
		r.SetBasicAuth(options.Auth.UserName, options.Auth.Password)
	}
	return r, nil
}

func guessMethod(d generator.Descriptor) generator.Method {
	if d.Data == "" {
		return generator.MethodGet
	}
	return generator.MethodPost
}

// buildURL joins the descriptor URI onto the base path and merges query strings.
// Absolute URIs are used as they are.
func buildURL(base *url.URL, uri string) (*url.URL, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing URI '%s'", uri)
	}
	if ref.IsAbs() {
		return ref, nil
	}

	u := *base
	if ref.Path != "" {
		// Join the escaped forms too so that "%2F" in the URI stays encoded
		u.Path = joinPath(base.Path, ref.Path)
		u.RawPath = joinPath(base.EscapedPath(), ref.EscapedPath())
	}
	if ref.RawQuery != "" {
		if base.RawQuery == "" {
			u.RawQuery = ref.RawQuery
		} else {
			u.RawQuery = base.RawQuery + "&" + ref.RawQuery
		}
	}
	u.Fragment = ""
	return &u, nil
}

func joinPath(base, ref string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

func buildHTTPHeader(d generator.Descriptor) http.Header {
	if d.Header == nil {
		return make(http.Header)
	}
	return d.Header.Clone()
}
