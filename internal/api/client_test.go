package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

type fixedCreds string

func (f fixedCreds) Token() string { return string(f) }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, fixedCreds("tok-123"), zerolog.Nop())
}

func TestQueueStatus_Normalizes404(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no active membership"}`, http.StatusNotFound)
	})

	m, err := c.QueueStatus(context.Background())
	require.NoError(t, err, "404 is not an error for queue-status")
	assert.False(t, m.InQueue)
	assert.Zero(t, m.Position)
	assert.Nil(t, m.Barber)
	assert.Nil(t, m.EnteredAt)
}

func TestQueueStatus_ParsesMembership(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/queue-status", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"queueStatus": {
				"inQueue": true,
				"queuePosition": 3,
				"barber": {"id": 7, "name": "Tony", "lat": 12.5, "long": 77.6},
				"enteredAt": "2026-08-29T10:00:00Z",
				"service": "haircut",
				"estimatedWaitTime": 30
			}
		}`))
	})

	m, err := c.QueueStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, m.InQueue)
	assert.Equal(t, 3, m.Position)
	require.NotNil(t, m.Barber)
	assert.Equal(t, "Tony", m.Barber.Name)
	assert.Equal(t, queue.ServiceHaircut, m.Service)
	assert.Equal(t, 30, m.EstimatedWaitMin)
	require.NotNil(t, m.EnteredAt)
}

func TestUnauthorized_FiresExpiryHookOnce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	expired := 0
	c.OnSessionExpired(func() { expired++ })

	_, err := c.QueueStatus(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, expired)
}

func TestJoinQueue_SurfacesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"already in a queue"}`, http.StatusBadRequest)
	})

	err := c.JoinQueue(context.Background(), 7, queue.ServiceBeard)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "already in a queue", se.Message)
}

func TestLeaveQueue_ReturnsRemovedFromName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/leavequeue", r.URL.Path)
		_, _ = w.Write([]byte(`{"msg":"ok","data":{"removedFrom":{"id":7,"name":"Tony"},"removedAt":"2026-08-29T10:30:00Z"}}`))
	})

	name, err := c.LeaveQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tony", name)
}

func TestNearbyBarbers_MapsSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/barbers", r.URL.Path)
		_, _ = w.Write([]byte(`{"barbers":[
			{"id":1,"name":"Tony","username":"tony","lat":12.5,"long":77.6,"queueLength":2,"estimatedWaitTime":30},
			{"id":2,"name":"Gus","username":"gus","lat":12.6,"long":77.7}
		]}`))
	})

	bs, err := c.NearbyBarbers(context.Background(), 12.4, 77.5, 4)
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, 2, bs[0].QueueLength)
	assert.Zero(t, bs[1].QueueLength, "missing queueLength defaults to 0")
	assert.Zero(t, bs[0].DistanceKm, "client does not trust server distance")
}

func TestBarberQueue_MapsEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"barberId":7,"queueLength":2,"queue":[
			{"position":1,"queueId":11,"user":{"id":100,"name":"Ana"},"enteredAt":"2026-08-29T09:00:00Z"},
			{"position":2,"queueId":12,"user":{"id":101,"name":"Raj"},"enteredAt":"2026-08-29T09:05:00Z"}
		]}`))
	})

	d, err := c.BarberQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.BarberID)
	require.Len(t, d.Entries, 2)
	assert.Equal(t, "Ana", d.Entries[0].UserName)
	assert.Equal(t, 2, d.Entries[1].Position)
}

func TestWithToken_OverridesCredentials(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"msg":"ok","queue":{"id":1,"barberId":7,"userId":9}}`))
	})

	err := c.WithToken("walkin-tok").JoinQueue(context.Background(), 7, queue.ServiceHaircut)
	require.NoError(t, err)
	assert.Equal(t, "Bearer walkin-tok", got)
}

func TestJoinQueueAs_UsesCustomerToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"msg":"ok","queue":{"id":1,"barberId":7,"userId":9}}`))
	})

	err := c.JoinQueueAs(context.Background(), "walkin-tok", 7, queue.ServiceBeard)
	require.NoError(t, err)
	assert.Equal(t, "Bearer walkin-tok", got)
}

func TestProtectedEndpoints_RequireToken(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	t.Cleanup(srv.Close)
	c := New(srv.URL, 2*time.Second, fixedCreds(""), zerolog.Nop())

	_, err := c.QueueStatus(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorIs(t, c.JoinQueue(context.Background(), 7, queue.ServiceHaircut), ErrNoToken)
	_, err = c.LeaveQueue(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = c.BarberQueue(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)

	assert.Zero(t, hits, "signed-out calls must not reach the backend")
}
