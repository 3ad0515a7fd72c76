package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

// defaultTimeout bounds every provider call. On timeout the caller sees
// PROVIDER_UNAVAILABLE; retry policy belongs to the caller, not this client.
const defaultTimeout = 10 * time.Second

// Client resolves free-text places and computes driving routes via the Mapbox
// geocoding and directions APIs. It holds no state and performs no caching,
// so staleness is controlled by callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a routing client. An empty token is allowed at
// construction; requests then fail with NOT_CONFIGURED.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		token:      token,
	}
}

type geocodingResponse struct {
	Features []struct {
		Center    [2]float64 `json:"center"`
		PlaceName string     `json:"place_name"`
	} `json:"features"`
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// ResolveRoute geocodes both endpoints and computes the best driving route
// between them. Distance is returned in kilometers, duration in hours.
func (c *Client) ResolveRoute(ctx context.Context, originText, destinationText string) (*Route, error) {
	if c.token == "" {
		return nil, errs.ErrNotConfigured
	}
	if originText == "" || destinationText == "" {
		return nil, errs.New(errs.CodeInvalidInput, "origin and destination are required")
	}

	origin, err := c.geocode(ctx, originText)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrOriginNotFound, originText)
	}

	destination, err := c.geocode(ctx, destinationText)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrDestinationNotFound, destinationText)
	}

	route, err := c.directions(ctx, origin.Coord, destination.Coord)
	if err != nil {
		return nil, err
	}
	route.Origin = *origin
	route.Destination = *destination
	return route, nil
}

// ReverseGeocode resolves a coordinate to the provider's best place name.
func (c *Client) ReverseGeocode(ctx context.Context, coord Coordinate) (string, error) {
	if c.token == "" {
		return "", errs.ErrNotConfigured
	}
	place, err := c.geocode(ctx, fmt.Sprintf("%f,%f", coord.Lng, coord.Lat))
	if err != nil {
		return "", err
	}
	if place == nil {
		return "", fmt.Errorf("%w: %f,%f", errs.ErrOriginNotFound, coord.Lng, coord.Lat)
	}
	return place.Name, nil
}

// geocode returns the provider's highest-confidence match, or nil when the
// query resolves to nothing.
func (c *Client) geocode(ctx context.Context, query string) (*Place, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.token))

	var resp geocodingResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, nil
	}
	f := resp.Features[0]
	return &Place{
		Name:  f.PlaceName,
		Coord: Coordinate{Lng: f.Center[0], Lat: f.Center[1]},
	}, nil
}

// directions requests a driving route and takes the first candidate.
func (c *Client) directions(ctx context.Context, origin, destination Coordinate) (*Route, error) {
	endpoint := fmt.Sprintf(
		"%s/directions/v5/mapbox/driving/%f,%f;%f,%f?geometries=geojson&overview=full&access_token=%s",
		c.baseURL, origin.Lng, origin.Lat, destination.Lng, destination.Lat, url.QueryEscape(c.token))

	var resp directionsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, errs.ErrRouteNotFound
	}

	best := resp.Routes[0]
	polyline := make([]Coordinate, len(best.Geometry.Coordinates))
	for i, pair := range best.Geometry.Coordinates {
		polyline[i] = Coordinate{Lng: pair[0], Lat: pair[1]}
	}

	return &Route{
		DistanceKm:    best.Distance / 1000,
		DurationHours: best.Duration / 3600,
		Polyline:      polyline,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Wrap(errs.CodeProviderUnavailable, "failed to build provider request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(errs.CodeProviderUnavailable, "routing provider request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errs.Newf(errs.CodeProviderUnavailable, "routing provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(errs.CodeProviderUnavailable, "malformed provider response", err)
	}
	return nil
}
