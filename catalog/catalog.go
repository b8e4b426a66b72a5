// Package catalog proxies the external CKAN property datastore. Records are
// normalized to one canonical schema at this boundary; the rest of the
// application never sees the raw datastore field variants.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Property is the canonical catalog record.
type Property struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Type          string   `json:"type"`
	ListingStatus string   `json:"listingStatus"`
	Images        []string `json:"images"`
	LivingSize    float64  `json:"livingSize,omitempty"`
	YearBuilt     int      `json:"yearBuilt,omitempty"`
}

// Query filters a catalog page. Zero values mean "no filter"; MinPrice and
// MaxPrice use < 0 for "unset" so a 0 bound stays expressible.
type Query struct {
	Page     int
	Limit    int
	Q        string
	City     string
	Type     string
	MinPrice float64
	MaxPrice float64
}

// Page is one page of normalized catalog records.
type Page struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	Pages      int        `json:"pages"`
	Properties []Property `json:"properties"`
}

// Client talks to a CKAN datastore_search endpoint. The HTTP client and the
// response cache are injected; the cache TTL protects the upstream from list
// view refresh storms.
type Client struct {
	base       string
	resourceID string
	http       *http.Client
	cache      *Cache
}

// NewClient reads CKAN_BASE and CKAN_RID from the environment. Both must be
// set for Search to work; a client with missing config returns an error from
// every call rather than panicking at startup.
func NewClient(httpClient *http.Client, cache *Cache) *Client {
	return &Client{
		base:       strings.TrimRight(os.Getenv("CKAN_BASE"), "/"),
		resourceID: os.Getenv("CKAN_RID"),
		http:       httpClient,
		cache:      cache,
	}
}

type ckanResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Total   int                      `json:"total"`
		Records []map[string]interface{} `json:"records"`
	} `json:"result"`
}

// Search fetches one page from the datastore, normalizes the records and
// applies the local filters. Identical queries inside the cache TTL are
// answered from memory.
func (c *Client) Search(ctx context.Context, q Query) (*Page, error) {
	if c.base == "" || c.resourceID == "" {
		return nil, fmt.Errorf("catalog not configured: CKAN_BASE or CKAN_RID missing")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	cacheKey := fmt.Sprintf("%d|%d|%s|%s|%s|%f|%f", q.Page, q.Limit, q.Q, q.City, q.Type, q.MinPrice, q.MaxPrice)
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			return cached.(*Page), nil
		}
	}

	u, err := url.Parse(c.base + "/datastore_search")
	if err != nil {
		return nil, fmt.Errorf("parse catalog URL: %w", err)
	}
	params := u.Query()
	params.Set("resource_id", c.resourceID)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa((q.Page-1)*q.Limit))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog HTTP %d", resp.StatusCode)
	}

	var body ckanResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("catalog responded success=false")
	}

	records := make([]Property, 0, len(body.Result.Records))
	for _, rec := range body.Result.Records {
		records = append(records, normalizeRecord(rec))
	}

	records = applyFilters(records, q)

	page := &Page{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      body.Result.Total,
		Pages:      (body.Result.Total + q.Limit - 1) / q.Limit,
		Properties: records,
	}
	if c.cache != nil {
		c.cache.Set(cacheKey, page)
		c.cache.Purge()
	}
	return page, nil
}

func applyFilters(records []Property, q Query) []Property {
	out := records[:0]
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	city := strings.ToLower(strings.TrimSpace(q.City))
	ptype := strings.ToLower(strings.TrimSpace(q.Type))
	for _, p := range records {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if city != "" && strings.ToLower(p.City) != city {
			continue
		}
		if ptype != "" && strings.ToLower(p.Type) != ptype {
			continue
		}
		if q.MinPrice >= 0 && p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice >= 0 && p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// normalizeRecord maps the datastore's drifting field names onto the
// canonical schema. This is the only place those variants are allowed.
func normalizeRecord(rec map[string]interface{}) Property {
	title := firstString(rec, "title", "Title", "name")
	if title == "" {
		title = "Property"
	}
	city := firstString(rec, "city", "City", "yishuv")
	price := toNumber(firstRaw(rec, "price", "Price", "sum"))
	ptype := strings.ToLower(firstString(rec, "type", "Type"))
	if ptype == "" {
		ptype = "apartment"
	}

	img := firstString(rec, "imageUrl", "image", "ImageURL")
	if img == "" {
		img = placeholderImage(city, ptype)
	}

	id := firstString(rec, "_id", "id")
	if id == "" {
		id = fmt.Sprintf("%s-%s-%.0f", title, city, price)
	}

	status := strings.ToLower(firstString(rec, "listingStatus"))
	if status == "" {
		status = "for-sale"
	}

	return Property{
		ID:            id,
		Title:         title,
		Description:   firstString(rec, "description"),
		Price:         price,
		Currency:      "ILS",
		Address:       firstString(rec, "address"),
		City:          city,
		Country:       "Israel",
		Bedrooms:      int(toNumber(firstRaw(rec, "bedrooms"))),
		Bathrooms:     int(toNumber(firstRaw(rec, "bathrooms"))),
		Type:          ptype,
		ListingStatus: status,
		Images:        []string{img},
		LivingSize:    toNumber(firstRaw(rec, "livingSize", "sqft")),
		YearBuilt:     int(toNumber(firstRaw(rec, "yearBuilt"))),
	}
}

func placeholderImage(city, ptype string) string {
	if city == "" {
		city = "Israel"
	}
	return fmt.Sprintf("https://source.unsplash.com/featured/800x600?real-estate,%s,%s",
		url.QueryEscape(city), url.QueryEscape(ptype))
}

func firstRaw(rec map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(rec map[string]interface{}, keys ...string) string {
	v := firstRaw(rec, keys...)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// toNumber parses numbers that may arrive as JSON numbers or as display
// strings with thousands separators and currency marks.
func toNumber(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		cleaned := strings.NewReplacer(",", "", "₪", "", " ", "").Replace(n)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
