package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path  string
	query url.Values
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	hits     atomic.Int64
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
		api.mu.Unlock()
		api.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return api, srv
}

func (f *fakeAPI) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.query.Get("key")
	}

	return out
}

func newTestClient(t *testing.T, baseURL string, keys []string, dailyCap int64) Client {
	t.Helper()

	cfg := &Config{
		BaseURL:  baseURL,
		Keys:     keys,
		DailyCap: dailyCap,
		Costs:    Costs{Search: 100, Videos: 1, Channels: 1},
	}

	c, err := NewClientWithHTTP(logrus.New(), cfg, http.DefaultClient)
	require.NoError(t, err)

	return c
}

func TestClient_AttachesKeyAndRotates(t *testing.T) {
	api, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1", "k2", "k3"}, 9500)

	for i := 0; i < 4; i++ {
		_, err := c.Videos(context.Background(), []string{"v1"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"k1", "k2", "k3", "k1"}, api.keys())
	assert.Equal(t, "/videos", api.requests[0].path)
	assert.Equal(t, "statistics,snippet,contentDetails", api.requests[0].query.Get("part"))
}

func TestClient_Search(t *testing.T) {
	api, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"abc"},"snippet":{"channelId":"ch1","title":"A deep dive","publishedAt":"2024-01-01T00:00:00Z"}}]}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1"}, 9500)

	resp, err := c.Search(context.Background(), "documentary", 50)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "abc", resp.Items[0].ID.VideoID)
	assert.Equal(t, "ch1", resp.Items[0].Snippet.ChannelID)

	q := api.requests[0].query
	assert.Equal(t, "/search", api.requests[0].path)
	assert.Equal(t, "documentary", q.Get("q"))
	assert.Equal(t, "video", q.Get("type"))
	assert.Equal(t, "date", q.Get("order"))
	assert.Equal(t, "50", q.Get("maxResults"))

	usage := c.Usage()
	assert.Equal(t, int64(100), usage[0].Consumed)
}

func TestClient_APIErrorPayload(t *testing.T) {
	_, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1", "k2"}, 9500)

	_, err := c.Channels(context.Background(), []string{"ch1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamAPI))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Code)
	assert.Equal(t, "quotaExceeded", apiErr.Reason)
	assert.Equal(t, EndpointChannels, apiErr.Endpoint)

	// Charged regardless of outcome, but an error payload does not exhaust the key
	usage := c.Usage()
	assert.Equal(t, int64(1), usage[0].Consumed)
	assert.Equal(t, 2, c.RemainingCapacityCount())
}

func TestClient_ErrorPayloadWithOKStatus(t *testing.T) {
	_, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid id"}}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1"}, 9500)

	_, err := c.Videos(context.Background(), []string{"bad"})
	require.ErrorIs(t, err, ErrUpstreamAPI)
	assert.Contains(t, err.Error(), "Invalid id")
}

func TestClient_NonJSONFailureStatus(t *testing.T) {
	_, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestClient(t, srv.URL, []string{"k1"}, 9500)

	_, err := c.Videos(context.Background(), []string{"v1"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_MalformedBody(t *testing.T) {
	_, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	c := newTestClient(t, srv.URL, []string{"k1"}, 9500)

	_, err := c.Videos(context.Background(), []string{"v1"})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_QuotaExhaustedBeforeNetworkIO(t *testing.T) {
	api, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1", "k2"}, 100)

	// One search per key exhausts both
	_, err := c.Search(context.Background(), "q1", 50)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "q2", 50)
	require.NoError(t, err)
	require.Equal(t, 0, c.RemainingCapacityCount())
	require.Equal(t, int64(2), api.hits.Load())

	_, err = c.Videos(context.Background(), []string{"v1"})
	require.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Equal(t, int64(2), api.hits.Load(), "no request may reach the network once quota is exhausted")

	c.ResetAllUsage()
	assert.Equal(t, 2, c.RemainingCapacityCount())

	_, err = c.Videos(context.Background(), []string{"v1"})
	require.NoError(t, err)
}

func TestClient_BatchTooLarge(t *testing.T) {
	api, srv := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c := newTestClient(t, srv.URL, []string{"k1"}, 9500)

	ids := make([]string, MaxBatchSize+1)
	_, err := c.Videos(context.Background(), ids)
	require.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Zero(t, api.hits.Load())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing keys",
			cfg:     Config{BaseURL: "http://x", DailyCap: 1, Costs: Costs{1, 1, 1}},
			wantErr: ErrKeysRequired,
		},
		{
			name:    "blank keys only",
			cfg:     Config{BaseURL: "http://x", Keys: []string{" ", ""}, DailyCap: 1, Costs: Costs{1, 1, 1}},
			wantErr: ErrKeysRequired,
		},
		{
			name:    "missing base url",
			cfg:     Config{Keys: []string{"k"}, DailyCap: 1, Costs: Costs{1, 1, 1}},
			wantErr: ErrBaseURLRequired,
		},
		{
			name:    "zero cap",
			cfg:     Config{BaseURL: "http://x", Keys: []string{"k"}, Costs: Costs{1, 1, 1}},
			wantErr: ErrInvalidDailyCap,
		},
		{
			name:    "zero cost",
			cfg:     Config{BaseURL: "http://x", Keys: []string{"k"}, DailyCap: 1, Costs: Costs{Search: 100}},
			wantErr: ErrInvalidCost,
		},
		{
			name:    "negative rate",
			cfg:     Config{BaseURL: "http://x", Keys: []string{"k"}, DailyCap: 1, RequestsPerSecond: -1, Costs: Costs{1, 1, 1}},
			wantErr: ErrInvalidRate,
		},
		{
			name: "valid",
			cfg:  Config{BaseURL: "http://x/", Keys: []string{" k1 ", "k2", "k1"}, DailyCap: 9500, Costs: Costs{100, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{"k1", "k2"}, tt.cfg.Keys)
			assert.Equal(t, "http://x", tt.cfg.BaseURL)
		})
	}
}

func TestVideoSnippet_BestThumbnail(t *testing.T) {
	s := &VideoSnippet{Thumbnails: map[string]Thumbnail{
		"default": {URL: "d"},
		"medium":  {URL: "m"},
	}}
	assert.Equal(t, "m", s.BestThumbnail())

	s.Thumbnails["high"] = Thumbnail{URL: "h"}
	assert.Equal(t, "h", s.BestThumbnail())

	assert.Empty(t, (&VideoSnippet{}).BestThumbnail())
}
