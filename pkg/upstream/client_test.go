package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/middleware/requestid"
)

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (r *recordingObserver) ObserveUpstream(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{method, route, status})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	return New(Config{BaseURL: srv.URL + "/", Timeout: time.Second, Observer: obs}), obs
}

func TestGetDecodesJSONAndForwardsRequestID(t *testing.T) {
	var gotPath, gotQuery, gotReqID string
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotReqID = r.Header.Get(requestid.HeaderKey)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"payment_type":"mensualidad","month":3,"year":2026}]`))
	})

	ctx := requestid.WithValue(context.Background(), "req-9")
	var out []map[string]interface{}
	err := client.Get(ctx, "/payments/A-1", "/payments/{id}", url.Values{"x": {"1"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/payments/A-1", gotPath)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, "req-9", gotReqID)
	assert.Len(t, out, 1)
	assert.Equal(t, []observation{{http.MethodGet, "/payments/{id}", http.StatusOK}}, obs.seen)
}

func TestPostSendsJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	})

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, client.Post(context.Background(), "/products/", "", nil, map[string]string{"code": "A"}, &out))
	assert.Equal(t, 7, out.ID)
}

func TestRejectionCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Package not found"}`))
	})

	err := client.Delete(context.Background(), "/packages/9", "/packages/{id}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrServerRejection))

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Package not found", appErr.Message)
}

func TestServerErrorMapsToBadGateway(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Get(context.Background(), "/stats/", "", nil, &struct{}{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrServerRejection.Code, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestValidationDetailList(t *testing.T) {
	raw := []byte(`{"detail":[{"loc":["body","age"],"msg":"field required"},{"msg":"value is not a valid integer"}]}`)
	assert.Equal(t, "field required; value is not a valid integer", extractDetail(raw))
	assert.Equal(t, "plain failure", extractDetail([]byte("plain failure")))
}

func TestDataShapeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	var out []struct{}
	err := client.Get(context.Background(), "/products/", "", nil, &out)
	assert.True(t, errors.Is(err, appErrors.ErrDataShape))
	assert.True(t, appErrors.IsCollaboratorFailure(err))
}

func TestNetworkFailureOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	err := client.Get(context.Background(), "/stats/", "", nil, &struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNetworkFailure))
	assert.Equal(t, "upstream request timed out", appErrors.FromError(err).Message)
}

func TestNetworkFailureOnRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := New(Config{BaseURL: base, Timeout: time.Second})
	err := client.Get(context.Background(), "/stats/", "", nil, &struct{}{})
	assert.True(t, errors.Is(err, appErrors.ErrNetworkFailure))
}
