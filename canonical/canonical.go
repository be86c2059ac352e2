// Package canonical normalizes recipe source URLs so that syntactic variants
// of the same page compare equal: protocol differences, known domain
// rebrands, trailing slashes, per-site category path variants and dated blog
// paths. Destination systems normalize URLs internally in incompatible ways;
// normalizing client-side catches rebrand and restructure duplicates without
// a network fetch per URL.
package canonical

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"tandoorimport/config"
)

var datePathRe = regexp.MustCompile(`/\d{4}/\d{2}/\d{2}/`)

// Canonicalizer applies the site rule table. The zero value is not usable;
// construct with New.
type Canonicalizer struct {
	rebrands []rebrand
	collapse []collapseRule
}

type rebrand struct {
	old string // lower-case, matched against the comparison form
	new string
	re  *regexp.Regexp // case-insensitive, for the case-preserving form
}

type collapseRule struct {
	host string // lower-case substring gate
	path string // "/" + collection + "/", lower-case substring gate
	// comparison form: trailing slash already stripped, so it is optional
	compareRe *regexp.Regexp
	// outbound form: anchored on the trailing slash, matching only URLs
	// that clearly end in /collection/category/slug/ — the outbound URL is
	// rewritten solely when the variant is unambiguous
	outboundRe *regexp.Regexp
}

// New compiles the rule table. Pass nil for the built-in rules.
func New(rules *config.SiteRules) *Canonicalizer {
	if rules == nil {
		rules = config.DefaultSiteRules()
	}
	c := &Canonicalizer{}
	for _, r := range rules.Rebrands {
		old := strings.ToLower(r.Old)
		c.rebrands = append(c.rebrands, rebrand{
			old: old,
			new: r.New,
			re:  regexp.MustCompile(`(?i)` + regexp.QuoteMeta(old)),
		})
	}
	for _, cr := range rules.CategoryCollapse {
		collection := regexp.QuoteMeta(cr.Collection)
		c.collapse = append(c.collapse, collapseRule{
			host:       strings.ToLower(cr.Host),
			path:       "/" + strings.ToLower(cr.Collection) + "/",
			compareRe:  regexp.MustCompile(`(/` + collection + `/)[^/]+/([^/]+)/?$`),
			outboundRe: regexp.MustCompile(`(/` + collection + `/)[^/]+/([^/]+/)$`),
		})
	}
	return c
}

// Canonicalize returns the comparison form of a URL. Pure and total: any
// input comes back as a string, malformed ones only trimmed and lowered.
// Rules apply in a fixed order — protocol, rebrands, trailing slash,
// category collapse, date paths — so the output is idempotent.
func (c *Canonicalizer) Canonicalize(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return u
	}

	u = strings.ReplaceAll(u, "http://", "https://")

	for _, r := range c.rebrands {
		if strings.Contains(u, r.old) {
			u = strings.ReplaceAll(u, r.old, strings.ToLower(r.new))
		}
	}

	u = strings.TrimSuffix(u, "/")

	for _, cr := range c.collapse {
		if strings.Contains(u, cr.host) && strings.Contains(u, cr.path) {
			u = cr.compareRe.ReplaceAllString(u, "${1}${2}")
		}
	}

	if datePathRe.MatchString(u) {
		u = datePathRe.ReplaceAllString(u, "/")
	}

	return u
}

// PreParse returns the case-preserving form actually sent to the scrape
// endpoint: known rebrands and path variants are rewritten so the
// destination's own duplicate checker sees one consistent URL, but letter
// case and the trailing slash survive for sites that care.
func (c *Canonicalizer) PreParse(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return u
	}

	if strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}

	lower := strings.ToLower(u)
	for _, r := range c.rebrands {
		if strings.Contains(lower, r.old) {
			u = r.re.ReplaceAllString(u, r.new)
			lower = strings.ToLower(u)
		}
	}

	for _, cr := range c.collapse {
		if strings.Contains(lower, cr.host) && strings.Contains(lower, cr.path) {
			u = cr.outboundRe.ReplaceAllString(u, "${1}${2}")
			lower = strings.ToLower(u)
		}
	}

	if datePathRe.MatchString(u) {
		u = datePathRe.ReplaceAllString(u, "/")
	}

	return u
}

// CollapseHosts reports the hosts with a category-collapse rule, used by the
// duplicate resolver's slug comparison.
func (c *Canonicalizer) CollapseHosts() []string {
	hosts := make([]string, 0, len(c.collapse))
	for _, cr := range c.collapse {
		hosts = append(hosts, cr.host)
	}
	return hosts
}

// CollapsePathFor returns the collection path gate for host, or "" when host
// has no collapse rule.
func (c *Canonicalizer) CollapsePathFor(host string) string {
	for _, cr := range c.collapse {
		if cr.host == host {
			return cr.path
		}
	}
	return ""
}

// Slug extracts the last non-empty path segment of a URL, the piece that
// usually names the recipe.
func Slug(url string) string {
	s := strings.TrimSuffix(strings.TrimSpace(url), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ResolveRedirect follows the URL's redirect chain with a HEAD probe and
// returns the canonical form of the final location. On any failure it falls
// back to plain canonicalization. This costs a round trip per URL, so it is
// disabled unless configured.
func (c *Canonicalizer) ResolveRedirect(ctx context.Context, client *http.Client, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return c.Canonicalize(rawURL)
	}
	resp, err := client.Do(req)
	if err != nil {
		return c.Canonicalize(rawURL)
	}
	defer resp.Body.Close()
	if resp.Request != nil && resp.Request.URL != nil {
		return c.Canonicalize(resp.Request.URL.String())
	}
	return c.Canonicalize(rawURL)
}
