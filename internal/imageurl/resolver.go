// Package imageurl turns the pictureUrl values stored by the content API into
// URLs a browser can load.
package imageurl

import (
	"net/url"
	"regexp"
	"strings"
)

const placeholderSVG = `<svg xmlns='http://www.w3.org/2000/svg' width='800' height='600' viewBox='0 0 800 600'>
  <rect width='100%' height='100%' fill='#f3f4f6' />
  <g transform='translate(0,0)'>
    <rect x='140' y='120' width='520' height='360' rx='20' fill='#e5e7eb' />
    <g transform='translate(180,160)'>
      <path d='M0 160 L120 40 L240 160 L360 0 L420 80 L480 0' stroke='#d1d5db' stroke-width='10' fill='none' stroke-linecap='round' stroke-linejoin='round'/>
    </g>
  </g>
</svg>`

var (
	absolutePattern = regexp.MustCompile(`(?i)^(https?:)?//`)
	placeholder     = "data:image/svg+xml;utf8," + encodeComponent(placeholderSVG)
)

// Placeholder returns the inline SVG shown when an item has no picture.
func Placeholder() string {
	return placeholder
}

// Resolver resolves picture paths against the site origin and the asset base.
type Resolver struct {
	// Origin is the scheme and host the site is served from.
	Origin string
	// Base prefixes bare relative paths. Origin is used when empty.
	Base string
}

// Resolve returns a loadable URL for picture.
func (r Resolver) Resolve(picture string) string {
	p := strings.TrimSpace(picture)
	if p == "" {
		return Placeholder()
	}

	origin := strings.TrimRight(r.Origin, "/")
	if absolutePattern.MatchString(p) {
		if strings.HasPrefix(p, "//") {
			return r.scheme() + p
		}
		return p
	}
	if strings.HasPrefix(p, "/") {
		return origin + p
	}

	base := strings.TrimRight(r.Base, "/")
	if base == "" {
		base = origin
	}
	return base + "/" + strings.TrimLeft(p, "/")
}

func (r Resolver) scheme() string {
	if u, err := url.Parse(r.Origin); err == nil && u.Scheme != "" {
		return u.Scheme + ":"
	}
	return "https:"
}

// encodeComponent escapes s the way browsers' encodeURIComponent does.
func encodeComponent(s string) string {
	replacer := strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
	return replacer.Replace(url.QueryEscape(s))
}
