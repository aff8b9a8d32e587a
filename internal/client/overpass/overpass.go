// Package overpass queries the public street/amenity database for lit ways
// whose centroids serve as safe-route via candidates.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// DefaultURL is the public Overpass interpreter endpoint.
const DefaultURL = "https://overpass-api.de/api/interpreter"

// candidateCap bounds how many lit-street midpoints one query contributes.
const candidateCap = 8

// Client queries the Overpass API.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an Overpass client for the given endpoint, defaulting
// to the public one.
func NewClient(endpoint string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	return &Client{
		url:        endpoint,
		httpClient: &http.Client{Timeout: 45 * time.Second},
		logger:     logger,
	}
}

type element struct {
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

// LitStreetMidpoints returns one centroid per lit highway or footway
// inside the box, deduplicated and capped.
func (c *Client) LitStreetMidpoints(ctx context.Context, box route.BBox) ([]geo.Point, error) {
	bbox := fmt.Sprintf("%v,%v,%v,%v", box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	query := fmt.Sprintf(`[out:json][timeout:40];
(
  way["highway"]["lit"="yes"](%s);
  way["footway"]["lit"="yes"](%s);
);
out tags geom;`, bbox, bbox)

	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass http %d", resp.StatusCode)
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	var midpoints []geo.Point
	for _, el := range decoded.Elements {
		if len(el.Geometry) == 0 {
			continue
		}
		var sumLon, sumLat float64
		for _, g := range el.Geometry {
			sumLon += g.Lon
			sumLat += g.Lat
		}
		n := float64(len(el.Geometry))
		midpoints = append(midpoints, geo.Point{Lon: sumLon / n, Lat: sumLat / n})
	}

	out := dedupe(midpoints, candidateCap)
	c.logger.Debug("lit street midpoints found", zap.Int("count", len(out)))
	return out, nil
}

func dedupe(pts []geo.Point, limit int) []geo.Point {
	type key struct{ lon, lat int64 }
	seen := make(map[key]struct{}, len(pts))
	var out []geo.Point
	for _, p := range pts {
		k := key{lon: int64(math.Round(p.Lon * 1e5)), lat: int64(math.Round(p.Lat * 1e5))}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out
}
