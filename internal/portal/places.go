package portal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/osamhq/portal/internal/api"
)

// PlaceService reads place records.
type PlaceService struct {
	c *api.Client
}

func NewPlaceService(c *api.Client) *PlaceService {
	return &PlaceService{c: c}
}

// List returns places with pagination.
func (s *PlaceService) List(ctx context.Context, skip, limit int) ([]PlaceSummary, error) {
	return api.Get[[]PlaceSummary](ctx, s.c, "/places", &api.CallOptions{
		Label: "places.list",
		Query: pageQuery(skip, limit),
	})
}

// Get returns one place by ID.
func (s *PlaceService) Get(ctx context.Context, id int) (Place, error) {
	return api.Get[Place](ctx, s.c, "/places/"+strconv.Itoa(id), &api.CallOptions{
		Label: "places.get",
	})
}

// SearchByName returns places matching the query string.
func (s *PlaceService) SearchByName(ctx context.Context, query string) ([]PlaceSummary, error) {
	return api.Get[[]PlaceSummary](ctx, s.c, "/places/search/by-name", &api.CallOptions{
		Label: "places.search",
		Query: url.Values{"query": {query}},
	})
}

// FilterByCategory returns places of one category: place, landmark,
// viewpoint, or parking.
func (s *PlaceService) FilterByCategory(ctx context.Context, category string) ([]PlaceSummary, error) {
	return api.Get[[]PlaceSummary](ctx, s.c, "/places/filter/by-category", &api.CallOptions{
		Label: "places.by-category",
		Query: url.Values{"category": {category}},
	})
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
