package dgis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// candidateCap bounds the number of via candidates one source contributes.
const candidateCap = 8

// WorkInterval is one opening-hours interval. Days uses three-letter
// weekday prefixes; an empty Days list means every day.
type WorkInterval struct {
	Days []string `json:"days,omitempty"`
	From string   `json:"from,omitempty"`
	To   string   `json:"to,omitempty"`
}

// Schedule is a venue's opening schedule as returned by the places search.
type Schedule struct {
	Is247     bool           `json:"is_24_7,omitempty"`
	WorkHours []WorkInterval `json:"work_hours,omitempty"`
}

// OpenAt reports whether the schedule is open at the given local time.
// Intervals crossing midnight are honored.
func (s Schedule) OpenAt(t time.Time) bool {
	if s.Is247 {
		return true
	}
	dow := strings.ToLower(t.Weekday().String())[:3]
	minute := t.Hour()*60 + t.Minute()

	for _, iv := range s.WorkHours {
		if len(iv.Days) > 0 && !matchesDay(iv.Days, dow) {
			continue
		}
		start := parseHHMM(iv.From, 0)
		end := parseHHMM(iv.To, 23*60+59)
		if start < 0 || end < 0 {
			continue
		}
		if end >= start {
			if minute >= start && minute <= end {
				return true
			}
		} else if minute >= start || minute <= end {
			// Open across midnight.
			return true
		}
	}
	return false
}

func matchesDay(days []string, dow string) bool {
	for _, d := range days {
		d = strings.ToLower(d)
		if len(d) >= 3 && d[:3] == dow {
			return true
		}
	}
	return false
}

// parseHHMM parses "HH:MM" into minutes since midnight. Empty strings get
// the fallback; malformed strings yield -1.
func parseHHMM(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	h, m, found := strings.Cut(s, ":")
	if !found {
		return -1
	}
	hour, err1 := strconv.Atoi(h)
	min, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil {
		return -1
	}
	return hour*60 + min
}

type placeItem struct {
	Lon      float64  `json:"lon"`
	Lat      float64  `json:"lat"`
	Schedule Schedule `json:"schedule"`
}

type placesResponse struct {
	Items []placeItem `json:"items"`
}

// OpenPlaces searches shops and restaurants inside the box and returns the
// coordinates of those open at the given time, deduplicated and capped.
func (c *Client) OpenPlaces(ctx context.Context, box route.BBox, now time.Time) ([]geo.Point, error) {
	q := url.Values{}
	q.Set("bbox", box.PlacesParam())
	q.Set("categories", "shops,restaurants")
	q.Set("limit", "20")
	q.Set("key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.CatalogURL+"/places/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api http %d", resp.StatusCode)
	}

	var decoded placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	var open []geo.Point
	for _, item := range decoded.Items {
		if item.Lon == 0 || item.Lat == 0 {
			continue
		}
		if item.Schedule.OpenAt(now) {
			open = append(open, geo.Point{Lon: item.Lon, Lat: item.Lat})
		}
	}

	out := dedupePoints(open, candidateCap)
	c.logger.Debug("open places found", zap.Int("count", len(out)))
	return out, nil
}

// dedupePoints drops near-duplicate coordinates (1e-5 degree grid, about a
// meter) preserving order, capped at limit.
func dedupePoints(pts []geo.Point, limit int) []geo.Point {
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
