package mocktandoor

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tandoorimport/tandoor"
	"tandoorimport/types"
)

func init() { gin.SetMode(gin.TestMode) }

// mockClient boots the mock server and a real API client against it, so
// these tests double as a wire-compatibility check between the two.
func mockClient(t *testing.T, store *Store, opts Options) (*Server, *tandoor.Client) {
	t.Helper()
	srv := New(store, opts)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	token := opts.Token
	if token == "" {
		token = "test-token"
	}
	return srv, tandoor.New(ts.URL, token)
}

func TestListPaginatesOverSeededRecipes(t *testing.T) {
	store := NewStore()
	for _, name := range []string{"Bread", "Soup", "Cake"} {
		store.Add(name, "", "")
	}
	_, client := mockClient(t, store, Options{})

	page, err := client.ListRecipes(context.Background(), 1, 2, "")
	if err != nil {
		t.Fatalf("ListRecipes page 1: %v", err)
	}
	if page.Count != 3 || len(page.Results) != 2 || !page.HasNext() {
		t.Fatalf("page 1 = %+v", page)
	}

	page, err = client.ListRecipes(context.Background(), 2, 2, "")
	if err != nil {
		t.Fatalf("ListRecipes page 2: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Name != "Cake" || page.HasNext() {
		t.Fatalf("page 2 = %+v", page)
	}
}

func TestListQueryFiltersByName(t *testing.T) {
	store := NewStore()
	store.Add("Ghost Pepper Sauce", "", "")
	store.Add("Banana Bread", "", "")
	_, client := mockClient(t, store, Options{})

	rows, err := client.SearchByName(context.Background(), "pepper")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Ghost Pepper Sauce" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDetailCarriesSourceURLAndImage(t *testing.T) {
	store := NewStore()
	id := store.Add("Bread", "https://site.com/bread", "https://img.site.com/bread.jpg")
	_, client := mockClient(t, store, Options{})

	got, err := client.GetRecipe(context.Background(), id)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.SourceURL != "https://site.com/bread" || !got.HasImage() {
		t.Fatalf("detail = %+v", got)
	}

	if _, err := client.GetRecipe(context.Background(), 999); err == nil {
		t.Fatal("expected error for unknown recipe")
	}
}

func TestScrapeSynthesizesDraft(t *testing.T) {
	_, client := mockClient(t, NewStore(), Options{})

	res := client.ScrapeFromSource(context.Background(), "https://site.com/recipes/ghost-pepper-sauce/")
	if res.Kind != tandoor.ScrapeOK {
		t.Fatalf("kind = %v (%s)", res.Kind, res.Reason)
	}
	if res.Recipe.Name != "Ghost Pepper Sauce" {
		t.Errorf("name = %q", res.Recipe.Name)
	}
	if len(res.Recipe.Steps) == 0 {
		t.Error("synthesized draft has no steps")
	}
}

func TestScrapeReportsNameCollision(t *testing.T) {
	store := NewStore()
	id := store.Add("Ghost Pepper Sauce", "https://old.example/gps", "")
	_, client := mockClient(t, store, Options{})

	res := client.ScrapeFromSource(context.Background(), "https://site.com/ghost-pepper-sauce")
	if res.Kind != tandoor.ScrapeDuplicate {
		t.Fatalf("kind = %v (%s)", res.Kind, res.Reason)
	}
	if res.Duplicate == nil || res.Duplicate.ID != id {
		t.Fatalf("duplicate = %+v", res.Duplicate)
	}
}

func TestScrapeFixtureError(t *testing.T) {
	srv, client := mockClient(t, NewStore(), Options{})
	srv.Stub("https://site.com/about", ScrapeFixture{ErrorMsg: "The requested page provided no usable data"})

	res := client.ScrapeFromSource(context.Background(), "https://site.com/about")
	if res.Kind != tandoor.ScrapeNonRecipe {
		t.Fatalf("kind = %v (%s)", res.Kind, res.Reason)
	}
}

func TestScrapeFixtureStatus(t *testing.T) {
	srv, client := mockClient(t, NewStore(), Options{})
	srv.Stub("https://site.com/broken", ScrapeFixture{Status: 502})

	res := client.ScrapeFromSource(context.Background(), "https://site.com/broken")
	if res.Kind != tandoor.ScrapeFailed {
		t.Fatalf("kind = %v (%s)", res.Kind, res.Reason)
	}
}

func TestCreateThenAttachImage(t *testing.T) {
	store := NewStore()
	_, client := mockClient(t, store, Options{})

	created, err := client.CreateRecipe(context.Background(), &types.Recipe{
		Name:      "Bread",
		Servings:  2,
		SourceURL: "https://site.com/bread",
		Steps:     []types.Step{{Instruction: "Bake."}},
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	if err := client.AttachImage(context.Background(), created.ID, "https://img.site.com/bread.jpg"); err != nil {
		t.Fatalf("AttachImage: %v", err)
	}

	r, ok := store.Get(created.ID)
	if !ok || r.Image != "https://img.site.com/bread.jpg" || r.SourceURL != "https://site.com/bread" {
		t.Fatalf("stored = %+v", r)
	}
}

func TestThrottleAnswers429WithRetryAfter(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)
	_, client := mockClient(t, NewStore(), Options{Throttle: limiter})

	for i := 0; i < 2; i++ {
		if _, err := client.ListRecipes(context.Background(), 1, 10, ""); err != nil {
			t.Fatalf("request %d within burst: %v", i+1, err)
		}
	}

	_, err := client.ListRecipes(context.Background(), 1, 10, "")
	if !tandoor.IsRateLimited(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var se *tandoor.StatusError
	if !errors.As(err, &se) || se.RetryAfter < 1 {
		t.Fatalf("expected Retry-After propagation, got %+v", se)
	}

	cleared, err := client.RateLimitCleared(context.Background())
	if err != nil || cleared {
		t.Fatalf("cleared = %v, %v; want false while drained", cleared, err)
	}
}

func TestRequireToken(t *testing.T) {
	srv := New(NewStore(), Options{Token: "secret"})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	good := tandoor.New(ts.URL, "secret")
	if _, err := good.ListRecipes(context.Background(), 1, 10, ""); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}

	bad := tandoor.New(ts.URL, "wrong")
	_, err := bad.ListRecipes(context.Background(), 1, 10, "")
	if !tandoor.IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestNameFromSlug(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://site.com/recipes/ghost-pepper-sauce/", "Ghost Pepper Sauce"},
		{"https://site.com/banana_bread", "Banana Bread"},
		{"https://site.com/", "Mock Recipe"},
	}
	for _, tc := range cases {
		if got := nameFromSlug(tc.raw); got != tc.want {
			t.Errorf("nameFromSlug(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
