package dgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultRegionID is the fallback region when the lookup fails.
const DefaultRegionID = "32"

// RegionCache memoizes region-name lookups across requests. Memoization is
// explicit and injectable rather than hidden client state.
type RegionCache interface {
	Get(name string) (string, bool)
	Set(name, id string)
}

// MemoryRegionCache is a concurrency-safe in-memory RegionCache.
type MemoryRegionCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

// NewMemoryRegionCache creates an empty MemoryRegionCache.
func NewMemoryRegionCache() *MemoryRegionCache {
	return &MemoryRegionCache{ids: make(map[string]string)}
}

// Get returns the cached region id for the name.
func (c *MemoryRegionCache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[name]
	return id, ok
}

// Set stores the region id for the name.
func (c *MemoryRegionCache) Set(name, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[name] = id
}

type regionItem struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type regionResponse struct {
	Result struct {
		Items []regionItem `json:"items"`
	} `json:"result"`
}

// RegionID resolves a region name to the provider's region id, preferring
// an item whose name contains the query. Lookups are memoized in cache;
// failures fall back to DefaultRegionID rather than erroring, since every
// downstream request still works with the default region.
func (c *Client) RegionID(ctx context.Context, name string, cache RegionCache) string {
	if cache != nil {
		if id, ok := cache.Get(name); ok {
			return id
		}
	}

	id, err := c.lookupRegion(ctx, name)
	if err != nil {
		c.logger.Warn("region lookup failed, using default",
			zap.String("region", name),
			zap.Error(err),
		)
		id = DefaultRegionID
	}
	if cache != nil {
		cache.Set(name, id)
	}
	return id
}

func (c *Client) lookupRegion(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.CatalogURL+"/region/search?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build region request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("region request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("regions api http %d", resp.StatusCode)
	}

	var decoded regionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode region response: %w", err)
	}
	items := decoded.Result.Items
	if len(items) == 0 {
		return "", fmt.Errorf("no regions matched %q", name)
	}

	lower := strings.ToLower(name)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), lower) {
			return item.ID.String(), nil
		}
	}
	return items[0].ID.String(), nil
}
