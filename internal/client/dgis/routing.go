package dgis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// Mode is a transport mode accepted by the routing endpoint.
type Mode string

const (
	ModeWalking    Mode = "walking"
	ModeDriving    Mode = "driving"
	ModeTaxi       Mode = "taxi"
	ModeBicycle    Mode = "bicycle"
	ModeScooter    Mode = "scooter"
	ModeTruck      Mode = "truck"
	ModeMotorcycle Mode = "motorcycle"
)

// StatusError reports a routing call rejected by the provider, either at
// the HTTP level or via a non-OK status field.
type StatusError struct {
	HTTPStatus int
	APIStatus  string
	Message    string
}

func (e *StatusError) Error() string {
	if e.APIStatus != "" {
		return fmt.Sprintf("routing api status %q: %s", e.APIStatus, e.Message)
	}
	return fmt.Sprintf("routing api http %d: %s", e.HTTPStatus, e.Message)
}

// BuildRouteBody assembles the v7 routing payload for any transport mode.
// All modes share one shape; extra params are merged last and may override
// any default. Point roles are preserved; entries without a role become
// stops.
func BuildRouteBody(points []route.PointSpec, mode Mode, locale string, extra map[string]any) map[string]any {
	normalized := make([]route.PointSpec, len(points))
	for i, p := range points {
		if p.Type == "" {
			p.Type = route.RoleStop
		}
		normalized[i] = p
	}

	body := map[string]any{
		"points":    normalized,
		"transport": string(mode),
		"locale":    locale,
		"output":    "detailed",
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// Route issues a walking routing call with the given ordered points and
// returns the decoded response, routes sorted by ascending total duration.
// Non-2xx responses and non-OK statuses are returned as *StatusError.
func (c *Client) Route(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
	return c.RouteMode(ctx, ModeWalking, points, extra)
}

// RouteMode is Route with an explicit transport mode.
func (c *Client) RouteMode(ctx context.Context, mode Mode, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
	body := BuildRouteBody(points, mode, c.cfg.Locale, extra)
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal routing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RoutingURL+"?key="+c.cfg.APIKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build routing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("routing request",
		zap.String("transport", string(mode)),
		zap.Int("points", len(points)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{HTTPStatus: resp.StatusCode, Message: string(snippet)}
	}

	var decoded route.Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if decoded.Status != route.StatusOK {
		msg := decoded.Message
		if msg == "" {
			msg = "unknown routing error"
		}
		return nil, &StatusError{HTTPStatus: resp.StatusCode, APIStatus: decoded.Status, Message: msg}
	}

	sort.SliceStable(decoded.Result, func(i, j int) bool {
		return decoded.Result[i].TotalDuration < decoded.Result[j].TotalDuration
	})
	return &decoded, nil
}
