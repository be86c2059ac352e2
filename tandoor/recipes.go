package tandoor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"tandoorimport/config"
	"tandoorimport/types"
)

// RecipeListPage is one page of the paginated recipe list. The list omits
// source_url; detail fetches fill that in.
type RecipeListPage struct {
	Count   int                     `json:"count"`
	Next    string                  `json:"next"`
	Results []types.RecipeListEntry `json:"results"`
}

// HasNext reports whether another page follows.
func (p *RecipeListPage) HasNext() bool { return p.Next != "" }

// CreatedRecipe is the record returned by a successful create call.
type CreatedRecipe struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ListRecipes fetches one page of the recipe list. query optionally narrows
// the listing with the server-side search.
func (c *Client) ListRecipes(ctx context.Context, page, pageSize int, query string) (*RecipeListPage, error) {
	path := fmt.Sprintf("/api/recipe/?page=%d&page_size=%d", page, pageSize)
	if query != "" {
		path += "&query=" + url.QueryEscape(query)
	}

	var result RecipeListPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRecipe fetches the full record for one recipe.
func (c *Client) GetRecipe(ctx context.Context, id int) (*types.RecipeDetail, error) {
	var result types.RecipeDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/recipe/%d/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchByName queries the recipe list for a term, bounded to one page so a
// broad term cannot stall an import. Feeds the name-based duplicate check.
func (c *Client) SearchByName(ctx context.Context, query string) ([]types.RecipeListEntry, error) {
	path := fmt.Sprintf("/api/recipe/?page_size=%d&query=%s", config.NameSearchPageSize, url.QueryEscape(query))

	var result RecipeListPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// CreateRecipe posts a draft and returns the created record. A 429 comes
// back as a *StatusError recognizable via IsRateLimited.
func (c *Client) CreateRecipe(ctx context.Context, draft *types.Recipe) (*CreatedRecipe, error) {
	var result CreatedRecipe
	if err := c.doJSON(ctx, http.MethodPost, "/api/recipe/", draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AttachImage points an existing recipe at a remote image. Tandoor fetches
// and stores the image itself; the call is a multipart form with a single
// image_url field.
func (c *Client) AttachImage(ctx context.Context, recipeID int, imageURL string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("image_url", imageURL); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/recipe/%d/image/", recipeID), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// RateLimitCleared probes the API with the cheapest possible list call.
// Only a 429 means the limit still holds; any other response, including
// server errors, lets the importer resume and fail per URL if it must.
func (c *Client) RateLimitCleared(ctx context.Context) (bool, error) {
	err := c.doJSON(ctx, http.MethodGet, "/api/recipe/?page_size=1", nil, nil)
	if err == nil {
		return true, nil
	}
	if IsRateLimited(err) {
		return false, nil
	}
	var se *StatusError
	if errors.As(err, &se) {
		return true, nil
	}
	return false, err
}
