package router

import (
	"net/http"
	"slices"
	"strings"
)

// corsPolicy is the parsed CORS configuration. Allowed methods come from the
// registered routes rather than a fixed list.
type corsPolicy struct {
	origins     map[string]bool
	wildcard    bool
	credentials bool
	methods     string
}

// newCORSPolicy parses a comma separated origin list. An empty list allows
// every origin.
func newCORSPolicy(allowOrigin string, allowCredentials bool, methods []string) *corsPolicy {
	p := &corsPolicy{origins: map[string]bool{}, credentials: allowCredentials}
	for _, o := range strings.Split(allowOrigin, ",") {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[o] = true
		}
	}
	if len(p.origins) == 0 {
		p.wildcard = true
	}

	methods = append(slices.Clone(methods), http.MethodOptions)
	slices.Sort(methods)
	p.methods = strings.Join(slices.Compact(methods), ", ")
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for a request
// origin and whether the answer depends on it.
func (p *corsPolicy) allowOrigin(requestOrigin string) (string, bool) {
	if p.wildcard {
		if p.credentials && requestOrigin != "" {
			return requestOrigin, true
		}
		return "*", false
	}
	if p.origins[requestOrigin] {
		return requestOrigin, true
	}
	return "", true
}

// wrap sets the CORS headers and answers preflight requests itself.
func (p *corsPolicy) wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		origin, vary := p.allowOrigin(r.Header.Get("Origin"))
		if origin != "" {
			header.Set("Access-Control-Allow-Origin", origin)
		}
		if vary {
			header.Add("Vary", "Origin")
		}
		if p.credentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Expose-Headers", requestIDHeader)

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			header.Set("Access-Control-Allow-Methods", p.methods)
			header.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
			header.Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}
