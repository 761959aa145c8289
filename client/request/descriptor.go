package request

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Descriptor captures the static properties of an outgoing request that drive the pipeline stages
type Descriptor struct {
	Method       string
	URL          string
	Path         string
	Query        url.Values
	Key          string
	IsMutating   bool
	IsPaginated  bool
	IsAuthExempt bool
}

// Rules classifies requests
type Rules struct {
	// ExemptMarkers match endpoints that never carry a token nor participate in caching
	ExemptMarkers []string
	// MutatingMarkers match read requests that still invalidate the cache (downloads, reports)
	MutatingMarkers []string
	// PageParams mark paginated requests
	PageParams []string
}

// DefaultRules returns payroll backend rules
func DefaultRules() *Rules {
	return &Rules{
		ExemptMarkers:   []string{"verify", "login", "register", "refresh", "resetpassword", "new/password"},
		MutatingMarkers: []string{"download", "report"},
		PageParams:      []string{"page", "size"},
	}
}

// Describe derives a descriptor from the request
func (r *Rules) Describe(req *http.Request) *Descriptor {
	query := req.URL.Query()
	ret := &Descriptor{
		Method: req.Method,
		URL:    req.URL.String(),
		Path:   req.URL.Path,
		Query:  query,
		Key:    Key(req.Method, req.URL.Path, query),
	}
	ret.IsAuthExempt = containsAny(ret.Path, r.ExemptMarkers)
	for _, param := range r.PageParams {
		if query.Has(param) {
			ret.IsPaginated = true
			break
		}
	}
	ret.IsMutating = !isRead(req.Method) || containsAny(ret.Path, r.MutatingMarkers)
	return ret
}

// Key returns canonical cache identity: METHOD:path?sorted(query)
func Key(method, path string, query url.Values) string {
	if method == "" {
		method = http.MethodGet
	}
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	var pairs []string
	for _, name := range names {
		values := append([]string(nil), query[name]...)
		sort.Strings(values)
		for _, value := range values {
			pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(value))
		}
	}
	return strings.ToUpper(method) + ":" + path + "?" + strings.Join(pairs, "&")
}

func isRead(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead:
		return true
	}
	return false
}

func containsAny(path string, markers []string) bool {
	path = strings.ToLower(path)
	for _, marker := range markers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

type descriptorKey struct{}

// NewContext returns context carrying descriptor
func NewContext(ctx context.Context, descriptor *Descriptor) context.Context {
	return context.WithValue(ctx, descriptorKey{}, descriptor)
}

// FromContext returns the descriptor carried by ctx
func FromContext(ctx context.Context) (*Descriptor, bool) {
	descriptor, ok := ctx.Value(descriptorKey{}).(*Descriptor)
	return descriptor, ok && descriptor != nil
}

// Describe returns the descriptor attached to the request context, or derives one with rules
func Describe(req *http.Request, rules *Rules) *Descriptor {
	if descriptor, ok := FromContext(req.Context()); ok {
		return descriptor
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return rules.Describe(req)
}
