package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are query parameter names dropped during URL
// canonicalization. Anything not listed here (and not an utm_* parameter) is
// preserved — unknown parameters may be job identifiers, so the default is
// conservative.
var trackingParams = map[string]struct{}{
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
	"twclid":       {},
	"igshid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
	"ref":          {},
	"source":       {},
	"campaign":     {},
	"medium":       {},
	"sid":          {},
	"session_id":   {},
	"sessionid":    {},
	"phpsessid":    {},
	"jsessionid":   {},
	"click_id":     {},
	"clickid":      {},
	"irclickid":    {},
	"trk":          {},
	"lever-origin": {},
	"tk":           {},
	"from":         {},
}

// URL strips tracking parameters from a URL's query string, preserving the
// order and encoding of everything it keeps. Fail-open: input that does not
// parse, or has no query string, is returned unchanged. If no parameters
// survive, the query component is removed entirely (no trailing "?").
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	pairs := strings.Split(u.RawQuery, "&")
	kept := make([]string, 0, len(pairs))
	dropped := false
	for _, pair := range pairs {
		if pair == "" {
			dropped = true
			continue
		}
		name := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			name = pair[:i]
		}
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = decoded
		}
		if isTrackingParam(strings.ToLower(name)) {
			dropped = true
			continue
		}
		kept = append(kept, pair)
	}

	if !dropped {
		return raw
	}

	u.RawQuery = strings.Join(kept, "&")
	u.ForceQuery = false
	return u.String()
}

func isTrackingParam(name string) bool {
	if strings.HasPrefix(name, "utm_") {
		return true
	}
	_, ok := trackingParams[name]
	return ok
}
