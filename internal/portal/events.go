package portal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/osamhq/portal/internal/api"
)

// EventService reads event records.
type EventService struct {
	c *api.Client
}

func NewEventService(c *api.Client) *EventService {
	return &EventService{c: c}
}

// List returns events with pagination.
func (s *EventService) List(ctx context.Context, skip, limit int) ([]EventSummary, error) {
	return api.Get[[]EventSummary](ctx, s.c, "/events", &api.CallOptions{
		Label: "events.list",
		Query: pageQuery(skip, limit),
	})
}

// Get returns one event by ID.
func (s *EventService) Get(ctx context.Context, id int) (Event, error) {
	return api.Get[Event](ctx, s.c, "/events/"+strconv.Itoa(id), &api.CallOptions{
		Label: "events.get",
	})
}

// Upcoming returns events that have not started yet.
func (s *EventService) Upcoming(ctx context.Context) ([]EventSummary, error) {
	return api.Get[[]EventSummary](ctx, s.c, "/events/status/upcoming", &api.CallOptions{
		Label: "events.upcoming",
	})
}

// Ongoing returns events currently running.
func (s *EventService) Ongoing(ctx context.Context) ([]EventSummary, error) {
	return api.Get[[]EventSummary](ctx, s.c, "/events/status/ongoing", &api.CallOptions{
		Label: "events.ongoing",
	})
}

// SearchByName returns events matching the query string.
func (s *EventService) SearchByName(ctx context.Context, query string) ([]EventSummary, error) {
	return api.Get[[]EventSummary](ctx, s.c, "/events/search/by-name", &api.CallOptions{
		Label: "events.search",
		Query: url.Values{"query": {query}},
	})
}

// Featured returns events flagged for the portal front page.
func (s *EventService) Featured(ctx context.Context) ([]EventSummary, error) {
	return api.Get[[]EventSummary](ctx, s.c, "/events/featured/", &api.CallOptions{
		Label: "events.featured",
	})
}
