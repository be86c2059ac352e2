// Package mocktandoor is an in-memory stand-in for a Tandoor server,
// covering the five API endpoints the importer touches plus an optional
// bearer-token check and an optional throttle that answers 429 the way the
// real thing does. Importer tests run it via httptest; cmd/mock-tandoor
// serves it standalone for dry runs.
package mocktandoor

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tandoorimport/types"
)

const defaultPageSize = 50

// ScrapeFixture scripts the scrape endpoint's response for one URL. The
// first set field wins: Status for a plain HTTP failure, ErrorMsg for an
// error envelope, Recipe for a canned draft. A URL with no fixture gets a
// draft synthesized from its path.
type ScrapeFixture struct {
	Recipe   *types.Recipe
	Images   []string
	ErrorMsg string
	Status   int
}

// Options configures optional server behavior.
type Options struct {
	// Token, when set, is the only accepted bearer token; anything else
	// gets a 401.
	Token string
	// Throttle, when set, gates every request and answers 429 with a
	// Retry-After header once drained.
	Throttle *rate.Limiter
}

// Server fakes the Tandoor API against a Store.
type Server struct {
	store *Store
	opts  Options

	mu    sync.Mutex
	stubs map[string]ScrapeFixture
}

// New builds a mock server around store.
func New(store *Store, opts Options) *Server {
	return &Server{store: store, opts: opts, stubs: make(map[string]ScrapeFixture)}
}

// Stub scripts the scrape response for one URL.
func (s *Server) Stub(u string, fx ScrapeFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[u] = fx
}

func (s *Server) fixture(u string) (ScrapeFixture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fx, ok := s.stubs[u]
	return fx, ok
}

// Router assembles the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.opts.Throttle != nil {
		r.Use(Throttle(s.opts.Throttle))
	}
	if s.opts.Token != "" {
		r.Use(s.requireToken)
	}

	api := r.Group("/api")
	api.GET("/recipe/", s.list)
	api.GET("/recipe/:id/", s.detail)
	api.POST("/recipe/", s.create)
	api.PUT("/recipe/:id/image/", s.image)
	api.POST("/recipe-from-source/", s.scrape)
	return r
}

func (s *Server) requireToken(c *gin.Context) {
	got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if got != s.opts.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	all := s.store.List(c.Query("query"))
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	results := make([]gin.H, 0, end-start)
	for _, r := range all[start:end] {
		results = append(results, gin.H{"id": r.ID, "name": r.Name})
	}

	var next any
	if end < len(all) {
		next = fmt.Sprintf("/api/recipe/?page=%d&page_size=%d", page+1, pageSize)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(all), "next": next, "results": results})
}

func (s *Server) detail(c *gin.Context) {
	r, ok := s.recipeParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         r.ID,
		"name":       r.Name,
		"source_url": r.SourceURL,
		"image":      r.Image,
	})
}

func (s *Server) create(c *gin.Context) {
	var draft types.Recipe
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if strings.TrimSpace(draft.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"name": []string{"This field may not be blank."}})
		return
	}

	id := s.store.Add(draft.Name, draft.SourceURL, "")
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": draft.Name})
}

func (s *Server) image(c *gin.Context) {
	r, ok := s.recipeParam(c)
	if !ok {
		return
	}
	imageURL := c.PostForm("image_url")
	if strings.TrimSpace(imageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "image_url is required"})
		return
	}
	s.store.SetImage(r.ID, imageURL)
	c.JSON(http.StatusOK, gin.H{"image": imageURL})
}

type scrapeReq struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) scrape(c *gin.Context) {
	var req scrapeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "msg": "url is required"})
		return
	}

	fx, ok := s.fixture(req.URL)
	if ok && fx.Status != 0 {
		c.JSON(fx.Status, gin.H{"detail": http.StatusText(fx.Status)})
		return
	}
	if ok && fx.ErrorMsg != "" {
		c.JSON(http.StatusOK, gin.H{"error": true, "msg": fx.ErrorMsg})
		return
	}

	recipe := fx.Recipe
	images := fx.Images
	if recipe == nil {
		recipe = draftFromURL(req.URL)
	}

	// The real server runs a name collision check while scraping and
	// reports matches instead of importing blind.
	var dups []gin.H
	for _, r := range s.store.FindByName(recipe.Name) {
		dups = append(dups, gin.H{"id": r.ID, "name": r.Name})
	}

	c.JSON(http.StatusOK, gin.H{
		"error":      false,
		"msg":        "",
		"recipe":     recipe,
		"images":     images,
		"duplicates": dups,
	})
}

// recipeParam resolves the :id route param against the store, answering the
// 404 itself when the recipe is missing.
func (s *Server) recipeParam(c *gin.Context) (StoredRecipe, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return StoredRecipe{}, false
	}
	r, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return StoredRecipe{}, false
	}
	return r, true
}

// draftFromURL synthesizes a plausible draft for URLs without a fixture, so
// dry runs can import arbitrary lists.
func draftFromURL(raw string) *types.Recipe {
	return &types.Recipe{
		Name:        nameFromSlug(raw),
		Description: "Imported from " + raw,
		Servings:    4,
		Steps: []types.Step{{
			Instruction: "Combine the ingredients and cook until done.",
			Ingredients: []types.Ingredient{
				{Food: &types.Food{Name: "salt"}, Unit: &types.Unit{Name: "pinch"}, Amount: 1},
			},
		}},
	}
}

// nameFromSlug turns the last path segment into a display name:
// "ghost-pepper-sauce" becomes "Ghost Pepper Sauce".
func nameFromSlug(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "Mock Recipe"
	}

	var last string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			last = p
		}
	}
	if last == "" {
		return "Mock Recipe"
	}

	last = strings.ReplaceAll(last, "-", " ")
	last = strings.ReplaceAll(last, "_", " ")
	var b strings.Builder
	prevLetter := false
	for _, r := range last {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
