package wikidata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		input   string
		wantLat float64
		wantLon float64
		wantNil bool
	}{
		{input: "Point(80.44 16.3)", wantLat: 16.3, wantLon: 80.44},
		{input: "Point(-0.1 51.5)", wantLat: 51.5, wantLon: -0.1},
		{input: "", wantNil: true},
		{input: "Point()", wantNil: true},
		{input: "Point(abc def)", wantNil: true},
		{input: "Point(80.44)", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lat, lon := ParsePoint(tt.input)
			if tt.wantNil {
				assert.Nil(t, lat)
				assert.Nil(t, lon)
				return
			}
			require.NotNil(t, lat)
			require.NotNil(t, lon)
			assert.Equal(t, tt.wantLat, *lat)
			assert.Equal(t, tt.wantLon, *lon)
		})
	}
}

const districtsJSON = `{
	"results": {"bindings": [
		{
			"item": {"value": "http://www.wikidata.org/entity/Q15383"},
			"itemLabel": {"value": "Guntur district"},
			"stateLabel": {"value": "Andhra Pradesh"},
			"coord": {"value": "Point(80.44 16.3)"}
		},
		{
			"item": {"value": "http://www.wikidata.org/entity/Q42313"},
			"itemLabel": {"value": "Nagaon district"},
			"stateLabel": {"value": "Assam"},
			"altLabel": {"value": "Nowgong"}
		}
	]}
}`

func newTestClient(endpoint string) *Client {
	c := NewClient()
	c.Endpoint = endpoint
	c.RateLimitWait = 10 * time.Millisecond
	c.RetryWait = 10 * time.Millisecond
	return c
}

func TestDistricts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.URL.Query().Get("query"))
		w.Write([]byte(districtsJSON))
	}))
	defer srv.Close()

	entries, err := newTestClient(srv.URL).Districts(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Q15383", entries[0].QID)
	assert.Equal(t, "Guntur district", entries[0].Label)
	assert.Equal(t, "Andhra Pradesh", entries[0].Parent)
	require.NotNil(t, entries[0].Latitude)
	assert.Equal(t, 16.3, *entries[0].Latitude)
	assert.Equal(t, 80.44, *entries[0].Longitude)

	assert.Equal(t, "Q42313", entries[1].QID)
	assert.Equal(t, "Nowgong", entries[1].AltLabel)
	assert.Nil(t, entries[1].Latitude)
}

func TestQueryRateLimitBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(districtsJSON))
	}))
	defer srv.Close()

	rows, err := newTestClient(srv.URL).Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueryGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Query(context.Background(), "SELECT 1")
	assert.Error(t, err)
}

func TestQueryCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(districtsJSON))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStateSubdistrictsFallback(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First (narrow) query returns nothing; the broad fallback hits.
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"results": {"bindings": []}}`))
			return
		}
		w.Write([]byte(`{
			"results": {"bindings": [
				{
					"item": {"value": "http://www.wikidata.org/entity/Q111"},
					"itemLabel": {"value": "Karveer taluka"},
					"districtLabel": {"value": "Kolhapur district"}
				}
			]}
		}`))
	}))
	defer srv.Close()

	entries, err := newTestClient(srv.URL).StateSubdistricts(context.Background(), "Q1191")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Q111", entries[0].QID)
	assert.Equal(t, "Kolhapur district", entries[0].Parent)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
