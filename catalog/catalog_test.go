package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T, hits *int32, records []map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		require.Equal(t, "/datastore_search", r.URL.Path)
		require.Equal(t, "test-resource", r.URL.Query().Get("resource_id"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"result": map[string]interface{}{
				"total":   len(records),
				"records": records,
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchNormalizesRecords(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits, []map[string]interface{}{
		{
			"_id":   "101",
			"title": "  Herzliya Duplex ",
			"city":  "Herzliya",
			"price": "1,250,000",
			"type":  "Duplex",
		},
		{
			// Field variants and missing values still yield a usable record.
			"id":     "102",
			"name":   "Old Jaffa Loft",
			"yishuv": "Tel Aviv",
			"sum":    900000.0,
		},
	})
	t.Setenv("CKAN_BASE", srv.URL)
	t.Setenv("CKAN_RID", "test-resource")

	c := NewClient(srv.Client(), nil)
	page, err := c.Search(context.Background(), Query{MinPrice: -1, MaxPrice: -1})
	require.NoError(t, err)
	require.Len(t, page.Properties, 2)

	first := page.Properties[0]
	require.Equal(t, "101", first.ID)
	require.Equal(t, "Herzliya Duplex", first.Title)
	require.Equal(t, 1250000.0, first.Price)
	require.Equal(t, "duplex", first.Type)
	require.Equal(t, "ILS", first.Currency)

	second := page.Properties[1]
	require.Equal(t, "102", second.ID)
	require.Equal(t, "Old Jaffa Loft", second.Title)
	require.Equal(t, "Tel Aviv", second.City)
	require.Equal(t, 900000.0, second.Price)
	require.Equal(t, "apartment", second.Type)
	require.NotEmpty(t, second.Images)
	require.NotEmpty(t, second.Images[0])
}

func TestSearchFilters(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits, []map[string]interface{}{
		{"_id": "1", "title": "Rothschild Penthouse", "city": "Tel Aviv", "price": 2000000.0, "type": "penthouse"},
		{"_id": "2", "title": "Carmel Garden Flat", "city": "Haifa", "price": 800000.0, "type": "apartment"},
		{"_id": "3", "title": "Rothschild Studio", "city": "Tel Aviv", "price": 600000.0, "type": "apartment"},
	})
	t.Setenv("CKAN_BASE", srv.URL)
	t.Setenv("CKAN_RID", "test-resource")

	c := NewClient(srv.Client(), nil)

	page, err := c.Search(context.Background(), Query{Q: "rothschild", MinPrice: -1, MaxPrice: -1})
	require.NoError(t, err)
	require.Len(t, page.Properties, 2)

	page, err = c.Search(context.Background(), Query{City: "haifa", MinPrice: -1, MaxPrice: -1})
	require.NoError(t, err)
	require.Len(t, page.Properties, 1)
	require.Equal(t, "2", page.Properties[0].ID)

	page, err = c.Search(context.Background(), Query{MinPrice: 700000, MaxPrice: 2100000})
	require.NoError(t, err)
	require.Len(t, page.Properties, 2)
}

func TestSearchUsesCacheWithinTTL(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits, []map[string]interface{}{
		{"_id": "1", "title": "Cached Flat", "city": "Eilat", "price": 500000.0},
	})
	t.Setenv("CKAN_BASE", srv.URL)
	t.Setenv("CKAN_RID", "test-resource")

	c := NewClient(srv.Client(), NewCache(time.Minute))
	q := Query{MinPrice: -1, MaxPrice: -1}

	_, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// A different query misses the cache.
	_, err = c.Search(context.Background(), Query{City: "Eilat", MinPrice: -1, MaxPrice: -1})
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSearchRefetchesAfterExpiry(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits, []map[string]interface{}{
		{"_id": "1", "title": "Short Lived", "city": "Eilat", "price": 500000.0},
	})
	t.Setenv("CKAN_BASE", srv.URL)
	t.Setenv("CKAN_RID", "test-resource")

	c := NewClient(srv.Client(), NewCache(10*time.Millisecond))
	q := Query{MinPrice: -1, MaxPrice: -1}

	_, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = c.Search(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSearchRequiresConfig(t *testing.T) {
	t.Setenv("CKAN_BASE", "")
	t.Setenv("CKAN_RID", "")
	c := NewClient(http.DefaultClient, nil)
	_, err := c.Search(context.Background(), Query{})
	require.Error(t, err)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(15 * time.Millisecond)
	c.Set("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(30 * time.Millisecond)
	c.Purge()
	require.Equal(t, 0, c.Len())
}
