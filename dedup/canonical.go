// Package dedup provides URL canonicalization and product deduplication
// across filter paths.
package dedup

import (
	"net/url"
	"sort"
	"strings"

	"github.com/fwojciec/catmap"
	"golang.org/x/net/publicsuffix"
)

// trackingParams are query parameters that never change catalog content:
// session identifiers, analytics tags and referral markers. Everything
// not listed here is preserved, since an unknown parameter may be a
// variant selector.
var trackingParams = map[string]bool{
	"gclid":       true,
	"fbclid":      true,
	"msclkid":     true,
	"mc_cid":      true,
	"mc_eid":      true,
	"ref":         true,
	"referrer":    true,
	"sessionid":   true,
	"session_id":  true,
	"sid":         true,
	"phpsessid":   true,
	"jsessionid":  true,
	"_ga":         true,
	"_gl":         true,
	"igshid":      true,
	"spm":         true,
	"affiliateid": true,
	"aff_id":      true,
	"cmpid":       true,
}

// Canonicalizer normalizes product URLs into stable deduplication keys.
// The zero value strips the default tracking parameters; StripParams adds
// site-specific ones.
type Canonicalizer struct {
	// StripParams are additional query parameter names to remove,
	// matched case-insensitively.
	StripParams []string
}

// Canonicalize returns the stable form of a raw product URL: lowercased
// scheme and host, default port and fragment removed, tracking query
// parameters stripped, remaining parameters sorted, and the trailing
// slash trimmed from non-root paths.
//
// Canonicalize is deterministic and idempotent: the same underlying
// product always canonicalizes to the same string regardless of which
// filter path or strategy discovered it.
func (c *Canonicalizer) Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", catmap.Errorf(catmap.EINVALID, "invalid product URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", catmap.Errorf(catmap.EINVALID, "product URL %q has no host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// Strip default ports.
	if host, port, ok := strings.Cut(u.Host, ":"); ok {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			u.Host = host
		}
	}

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	q := u.Query()
	for name := range q {
		if c.stripped(name) {
			q.Del(name)
		}
	}
	u.RawQuery = encodeSorted(q)

	return u.String(), nil
}

// stripped reports whether a query parameter should be removed.
func (c *Canonicalizer) stripped(name string) bool {
	lower := strings.ToLower(name)
	if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
		return true
	}
	for _, p := range c.StripParams {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// encodeSorted encodes query values with keys in sorted order so that
// parameter order on the wire never produces distinct canonical URLs.
func encodeSorted(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		values := q[k]
		sort.Strings(values)
		for _, v := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// DomainKey returns the registrable domain (eTLD+1) for a URL, used as
// the cache and selector-store key so www.example.com and
// shop.example.com share learned state.
func DomainKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", catmap.Errorf(catmap.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", catmap.Errorf(catmap.EINVALID, "URL %q has no host", rawURL)
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Hosts without a public suffix (e.g. localhost) key by themselves.
		return host, nil
	}
	return domain, nil
}
