package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tandoorimport/types"
)

// Config holds the settings the importer validates before any network
// activity. Optional integrations (Redis seen-cache, S3 report archive) read
// their own environment at init time and degrade with a warning instead of
// living here.
type Config struct {
	// TandoorURL is the base URL of the Tandoor instance, without a
	// trailing slash.
	TandoorURL string

	// APIToken is the bearer token sent on every API call.
	APIToken string

	// Delay is the pause between successive URL imports.
	Delay time.Duration

	// FollowRedirects enables the network fallback that resolves a URL's
	// final redirect target before canonical comparison. Off by default:
	// it costs one round trip per URL.
	FollowRedirects bool

	// SiteRulesFile optionally points at a YAML file overriding the
	// built-in per-site URL rules.
	SiteRulesFile string
}

// Placeholder values from the setup instructions. Treated the same as unset
// so a copied template never points the importer at a fake instance.
const (
	placeholderURL   = "https://your-tandoor-instance.com"
	placeholderToken = "your_api_token_here"
)

// Load reads configuration from the environment and validates it.
// godotenv.Load is the caller's job so tests can set the environment
// directly.
func Load() (*Config, error) {
	tandoorURL := strings.TrimRight(strings.TrimSpace(os.Getenv("TANDOOR_URL")), "/")
	apiToken := strings.TrimSpace(os.Getenv("TANDOOR_API_TOKEN"))

	if tandoorURL == "" || tandoorURL == placeholderURL {
		return nil, &types.ConfigError{Msg: "TANDOOR_URL is not configured; set it to your Tandoor instance URL"}
	}
	if !strings.HasPrefix(tandoorURL, "http://") && !strings.HasPrefix(tandoorURL, "https://") {
		return nil, &types.ConfigError{Msg: fmt.Sprintf("invalid Tandoor URL %q: must start with http:// or https://", tandoorURL)}
	}
	if apiToken == "" || apiToken == placeholderToken {
		return nil, &types.ConfigError{Msg: "TANDOOR_API_TOKEN is not configured; set it to your Tandoor API token"}
	}

	delaySeconds := int(DefaultDelay / time.Second)
	if v := strings.TrimSpace(os.Getenv("IMPORT_DELAY_SECONDS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &types.ConfigError{Msg: fmt.Sprintf("invalid IMPORT_DELAY_SECONDS %q", v), Err: err}
		}
		delaySeconds = n
	}
	if delaySeconds < MinDelaySeconds || delaySeconds > MaxDelaySeconds {
		return nil, &types.ConfigError{Msg: fmt.Sprintf("invalid delay value: %d. Must be between %d and %d seconds", delaySeconds, MinDelaySeconds, MaxDelaySeconds)}
	}

	return &Config{
		TandoorURL:      tandoorURL,
		APIToken:        apiToken,
		Delay:           time.Duration(delaySeconds) * time.Second,
		FollowRedirects: envBool("FOLLOW_REDIRECTS"),
		SiteRulesFile:   strings.TrimSpace(os.Getenv("SITE_RULES_FILE")),
	}, nil
}

func envBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// GetEnvOrDefault returns the environment value for key, or def when unset
// or blank.
func GetEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
