package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tandoorimport/types"
)

// SiteRules is the per-site URL normalization table: known domain rebrands
// and category-collapse rules. The built-in table covers the sites this
// importer was written against; SITE_RULES_FILE may point at a YAML file
// replacing it when new redirects are discovered.
type SiteRules struct {
	Rebrands         []Rebrand      `yaml:"rebrands"`
	CategoryCollapse []CollapseRule `yaml:"category_collapse"`
}

// Rebrand maps an old domain to its current one. Order matters: entries with
// a www prefix must precede the bare domain so a URL is rewritten exactly
// once.
type Rebrand struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// CollapseRule names a site whose recipes are filed both under
// /{collection}/{category}/{slug}/ and directly under
// /{collection}/{slug}/. The category segment is dropped for comparison.
type CollapseRule struct {
	// Host is matched as a substring of the lower-cased URL.
	Host string `yaml:"host"`
	// Collection is the fixed path segment preceding the category.
	Collection string `yaml:"collection"`
}

// DefaultSiteRules returns the built-in rule table.
func DefaultSiteRules() *SiteRules {
	return &SiteRules{
		Rebrands: []Rebrand{
			{Old: "www.kingarthurflour.com", New: "www.kingarthurbaking.com"},
			{Old: "kingarthurflour.com", New: "kingarthurbaking.com"},
		},
		CategoryCollapse: []CollapseRule{
			{Host: "chilipeppermadness.com", Collection: "chili-pepper-recipes"},
		},
	}
}

// LoadSiteRules reads the rule table from path, or returns the defaults when
// path is empty.
func LoadSiteRules(path string) (*SiteRules, error) {
	if path == "" {
		return DefaultSiteRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.ConfigError{Msg: fmt.Sprintf("cannot read site rules file %s", path), Err: err}
	}
	var rules SiteRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, &types.ConfigError{Msg: fmt.Sprintf("cannot parse site rules file %s", path), Err: err}
	}
	for _, r := range rules.Rebrands {
		if r.Old == "" || r.New == "" {
			return nil, &types.ConfigError{Msg: fmt.Sprintf("site rules file %s: rebrand entries need both old and new domains", path)}
		}
	}
	for _, c := range rules.CategoryCollapse {
		if c.Host == "" || c.Collection == "" {
			return nil, &types.ConfigError{Msg: fmt.Sprintf("site rules file %s: category_collapse entries need both host and collection", path)}
		}
	}
	return &rules, nil
}
