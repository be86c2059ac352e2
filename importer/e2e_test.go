package importer

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tandoorimport/canonical"
	"tandoorimport/config"
	"tandoorimport/mocktandoor"
	"tandoorimport/tandoor"
)

// TestRunAgainstMockServer drives the whole pipeline over HTTP: real client,
// real index fetch, real scrape and create round trips against the in-memory
// server.
func TestRunAgainstMockServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := mocktandoor.NewStore()
	store.Add("Existing Bread", "https://site.com/recipes/existing-bread/", "")

	srv := mocktandoor.New(store, mocktandoor.Options{Token: "test-token"})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	cfg := &config.Config{TandoorURL: ts.URL, APIToken: "test-token", Delay: time.Millisecond}
	imp := New(tandoor.New(ts.URL, "test-token"), cfg, canonical.New(nil))

	urls := []string{
		"http://site.com/recipes/existing-bread", // seed recipe under a protocol/slash variant
		"https://site.com/recipes/fresh-cake/",
	}
	rec, err := imp.Run(context.Background(), urls, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rec.Stats.Duplicates != 1 || rec.Stats.Successful != 1 {
		t.Fatalf("stats = %+v", rec.Stats)
	}
	if store.Len() != 2 {
		t.Fatalf("store holds %d recipes, want 2", store.Len())
	}

	found := false
	for _, r := range store.List("") {
		if r.Name == "Fresh Cake" && r.SourceURL == "https://site.com/recipes/fresh-cake/" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created recipe missing or without source_url: %+v", store.List(""))
	}
}
