package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points a Client at srv without transport retries and without retry delays.
func newTestClient(srv *httptest.Server, attempts int) *Client {
	cfg := Config{
		BaseURL:     srv.URL + "/api/appdetails",
		CountryCode: "us",
		Language:    "english",
		UserAgent:   "dlc-updater/test",
		MaxAttempts: attempts,
	}
	return NewClient(cfg, zap.NewNop(), WithHTTPClient(srv.Client()))
}

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Equal(t, "447680", q.Get("appids"))
		assert.Equal(t, "basic", q.Get("filters"))
		assert.Equal(t, "us", q.Get("cc"))
		assert.Equal(t, "english", q.Get("l"))
		assert.Equal(t, "dlc-updater/test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"447680":{"success":true,"data":{"type":"dlc","name":"Stellaris: Symbols of Domination"}}}`)
	}))
	defer srv.Close()

	name, err := newTestClient(srv, 3).Resolve(context.Background(), "447680")
	require.NoError(t, err)
	assert.Equal(t, "Stellaris: Symbols of Domination", name)
}

func TestResolve_MissingNameUsesPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"123":{"success":true,"data":{"type":"dlc"}}}`)
	}))
	defer srv.Close()

	name, err := newTestClient(srv, 3).Resolve(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Unknown DLC 123", name)
}

func TestResolve_RetriesThenGivesUp(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter)
	}{
		{"Success False", func(w http.ResponseWriter) { fmt.Fprint(w, `{"999":{"success":false}}`) }},
		{"Missing Success Flag", func(w http.ResponseWriter) { fmt.Fprint(w, `{"999":{"data":{"name":"x"}}}`) }},
		{"Malformed JSON", func(w http.ResponseWriter) { fmt.Fprint(w, `{"999":`) }},
		{"Empty Data Array", func(w http.ResponseWriter) { fmt.Fprint(w, `{"999":{"success":true,"data":[]}}`) }},
		{"Not Found", func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				tt.handler(w)
			}))
			defer srv.Close()

			name, err := newTestClient(srv, 3).Resolve(context.Background(), "999")
			assert.ErrorIs(t, err, ErrUnresolved)
			assert.Empty(t, name)
			assert.Equal(t, int32(3), hits.Load(), "should try exactly three times")
		})
	}
}

func TestResolve_RecoversOnLaterAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			fmt.Fprint(w, `{"42":{"success":false}}`)
			return
		}
		fmt.Fprint(w, `{"42":{"success":true,"data":{"name":"Third Time"}}}`)
	}))
	defer srv.Close()

	name, err := newTestClient(srv, 3).Resolve(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Third Time", name)
}

func TestDLCList(t *testing.T) {
	t.Run("Declared List", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "basic,dlc", r.URL.Query().Get("filters"))
			fmt.Fprint(w, `{"281990":{"success":true,"data":{"name":"Stellaris","dlc":[447680,461073]}}}`)
		}))
		defer srv.Close()

		ids, err := newTestClient(srv, 3).DLCList(context.Background(), 281990)
		require.NoError(t, err)
		assert.Equal(t, []string{"447680", "461073"}, ids)
	})

	t.Run("No List", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"281990":{"success":true,"data":{"name":"Stellaris"}}}`)
		}))
		defer srv.Close()

		ids, err := newTestClient(srv, 3).DLCList(context.Background(), 281990)
		assert.ErrorIs(t, err, ErrNoDLCList)
		assert.Nil(t, ids)
	})

	t.Run("Failed Record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"281990":{"success":false}}`)
		}))
		defer srv.Close()

		ids, err := newTestClient(srv, 3).DLCList(context.Background(), 281990)
		assert.Error(t, err)
		assert.Nil(t, ids)
	})
}

func TestResolve_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"7":{"success":false}}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv, 3).Resolve(ctx, "7")
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_TimeoutCoversRetryWaits(t *testing.T) {
	c := NewClient(Config{TimeoutSeconds: 30, TransportRetries: 5}, zap.NewNop())
	defer c.Close()

	// two capped Retry-After hints must fit with room for every attempt
	assert.GreaterOrEqual(t, c.httpClient.Timeout, 6*30*time.Second+5*maxRetryAfter)
	assert.Equal(t, 30*time.Second, NewClient(Config{TimeoutSeconds: 30}, nil).httpClient.Timeout)
}
