package notify

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

func newTestNotifier() (*Notifier, *[]time.Duration) {
	n := NewNotifier()
	var slept []time.Duration
	n.sleep = func(d time.Duration) { slept = append(slept, d) }
	return n, &slept
}

func payloadFixture() Payload {
	return Payload{
		Email:     "a@b.com",
		Task:      "demo1",
		Round:     1,
		Nonce:     "abc",
		RepoURL:   "https://github.example/octo/demo1",
		CommitSHA: "sha-2",
		PagesURL:  "https://octo.github.io/demo1/",
	}
}

func TestNotifyFirstAttemptSucceeds(t *testing.T) {
	var attempts int32
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, slept := newTestNotifier()
	delivered := n.Notify(context.Background(), srv.URL, payloadFixture())

	require.True(t, delivered)
	require.EqualValues(t, 1, attempts, "exactly one attempt on immediate 200")
	require.Empty(t, *slept, "no delay before the first attempt")
	require.Equal(t, payloadFixture(), received)
}

func TestNotifyRetriesThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, slept := newTestNotifier()
	delivered := n.Notify(context.Background(), srv.URL, payloadFixture())

	require.True(t, delivered)
	require.EqualValues(t, 3, attempts)
	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestNotifyExhaustsScheduleWithoutError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		// 201 is not good enough; only exactly 200 counts as delivered.
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n, slept := newTestNotifier()
	delivered := n.Notify(context.Background(), srv.URL, payloadFixture())

	require.False(t, delivered)
	require.EqualValues(t, 5, attempts, "five attempts total")
	require.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}, *slept)
}

func TestNotifyTransportFailureCountsAsAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	n, slept := newTestNotifier()
	delivered := n.Notify(context.Background(), srv.URL, payloadFixture())

	require.False(t, delivered)
	require.Len(t, *slept, 4)
}
