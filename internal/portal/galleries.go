package portal

import (
	"context"
	"strconv"

	"github.com/osamhq/portal/internal/api"
)

// GalleryService reads gallery records.
type GalleryService struct {
	c *api.Client
}

func NewGalleryService(c *api.Client) *GalleryService {
	return &GalleryService{c: c}
}

// List returns galleries with pagination.
func (s *GalleryService) List(ctx context.Context, skip, limit int) ([]GallerySummary, error) {
	return api.Get[[]GallerySummary](ctx, s.c, "/galleries", &api.CallOptions{
		Label: "galleries.list",
		Query: pageQuery(skip, limit),
	})
}

// Get returns one gallery with its images.
func (s *GalleryService) Get(ctx context.Context, id int) (Gallery, error) {
	return api.Get[Gallery](ctx, s.c, "/galleries/"+strconv.Itoa(id), &api.CallOptions{
		Label: "galleries.get",
	})
}

// ForPlace returns the galleries attached to a place.
func (s *GalleryService) ForPlace(ctx context.Context, placeID int) ([]GallerySummary, error) {
	return api.Get[[]GallerySummary](ctx, s.c, "/galleries/for-place/"+strconv.Itoa(placeID),
		&api.CallOptions{Label: "galleries.for-place"})
}

// ForEvent returns the galleries attached to an event.
func (s *GalleryService) ForEvent(ctx context.Context, eventID int) ([]GallerySummary, error) {
	return api.Get[[]GallerySummary](ctx, s.c, "/galleries/for-event/"+strconv.Itoa(eventID),
		&api.CallOptions{Label: "galleries.for-event"})
}

// Featured returns galleries flagged for the portal front page.
func (s *GalleryService) Featured(ctx context.Context) ([]GallerySummary, error) {
	return api.Get[[]GallerySummary](ctx, s.c, "/galleries/featured/", &api.CallOptions{
		Label: "galleries.featured",
	})
}
