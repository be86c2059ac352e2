package sources

import (
	"context"
	"fmt"
	"strings"

	"tandoorimport/types"

	"github.com/mmcdole/gofeed"
)

// FeedPresets maps short names to recipe-site feeds so runs can be started
// with -feed kingarthur instead of a full URL.
var FeedPresets = map[string]string{
	"kingarthur":     "https://www.kingarthurbaking.com/blog/feed",
	"seriouseats":    "https://feeds.feedburner.com/seriouseats/recipes",
	"smittenkitchen": "https://smittenkitchen.com/feed/",
}

// ResolveFeedURL turns a preset name into its feed URL; anything containing
// a scheme separator is treated as a URL and passed through unchanged.
func ResolveFeedURL(input string) string {
	if strings.Contains(input, "://") {
		return input
	}
	if url, ok := FeedPresets[input]; ok {
		return url
	}
	return input
}

// FetchFeed retrieves an RSS/Atom feed and returns the item links in feed
// order. maxCount 0 means no cap.
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]string, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &types.NetworkError{Msg: fmt.Sprintf("failed to fetch feed %s", feedURL), Err: err}
	}

	count := len(feed.Items)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}

	urls := make([]string, 0, count)
	for _, item := range feed.Items[:count] {
		if item.Link == "" {
			continue
		}
		urls = append(urls, item.Link)
	}
	return urls, nil
}
