package orderfetcher

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

func newTestClient(baseUrl string) Client {
	return NewClient(&ClientCfg{
		HttpClient: http.Client{},
		Timeout:    5 * time.Second,
		BaseUrl:    baseUrl,
		Apikey:     "testkey",
	})
}

func TestResolvePartialOrder(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("testkey", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"order":{"offerer":"0x01"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	raw, err := c.ResolvePartialOrder(bCtx.Background(), &PartialOrderRequest{
		ChainId:   1,
		OrderHash: "0xabc",
	})
	req.NoError(err)
	req.JSONEq(`{"offerer":"0x01"}`, string(raw))
}

func TestPostRetriesServerErrors(t *testing.T) {
	req := require.New(t)
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"order":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ResolvePartialOrder(bCtx.Background(), &PartialOrderRequest{ChainId: 1, OrderHash: "0xabc"})
	req.NoError(err)
	req.EqualValues(3, atomic.LoadInt64(&calls))
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	req := require.New(t)
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ResolvePartialOrder(bCtx.Background(), &PartialOrderRequest{ChainId: 1, OrderHash: "0xabc"})
	req.ErrorIs(err, ErrRecoverable)
	req.EqualValues(1, atomic.LoadInt64(&calls))
}

func TestPostReplacementBestEffort(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		req.NoError(json.NewDecoder(r.Body).Decode(&payload))
		req.Contains(string(payload["replacedOrders"]), "0xdead")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.PostReplacement(bCtx.Background(), 1, json.RawMessage(`{}`), []domain.OrderHash{"0xdead"})
	req.NoError(err)
}
