// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// CredentialSource hands out the bearer token for outgoing requests.
// An empty token means the request goes out unauthenticated.
type CredentialSource interface {
	Token() string
}

// staticToken lets a request run under a different user's token, which
// the barber walk-in flow needs.
type staticToken string

func (s staticToken) Token() string { return string(s) }

type Client struct {
	base      string
	http      *http.Client
	creds     CredentialSource
	onExpired func() // fired once per 401
	log       zerolog.Logger
}

func New(base string, timeout time.Duration, creds CredentialSource, log zerolog.Logger) *Client {
	if base == "" {
		base = "http://localhost:3000"
	}
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		creds: creds,
		log:   log.With().Str("component", "api").Logger(),
	}
}

// OnSessionExpired registers the hook fired whenever the backend answers
// 401. The hook should clear persisted credentials.
func (c *Client) OnSessionExpired(fn func()) { c.onExpired = fn }

// WithToken returns a shallow copy of the client that authenticates with
// the given token instead of the session store.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.creds = staticToken(token)
	return &cp
}

// requireToken short-circuits protected calls when nobody is signed in,
// so the caller gets a stable sentinel instead of a backend 401.
func (c *Client) requireToken() error {
	if c.creds == nil || c.creds.Token() == "" {
		return ErrNoToken
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("nextcut %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn().Str("path", path).Msg("session rejected by backend")
		if c.onExpired != nil {
			c.onExpired()
		}
		return resp.StatusCode, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		msg := ae.Error
		if msg == "" {
			msg = ae.Msg
		}
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// QueueStatus polls the user's current membership. A 404 means the
// backend has no active membership for this user and is normalized to
// the zero Membership, not an error.
func (c *Client) QueueStatus(ctx context.Context) (queue.Membership, error) {
	if err := c.requireToken(); err != nil {
		return queue.Membership{}, err
	}
	var payload queueStatusResp
	status, err := c.do(ctx, http.MethodGet, "/user/queue-status", nil, &payload)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && status == http.StatusNotFound {
			return queue.Membership{}, nil
		}
		return queue.Membership{}, err
	}
	return toMembership(payload.QueueStatus), nil
}

// JoinQueue enters the given barber's queue for the selected service.
// The authoritative position comes from the next QueueStatus poll, not
// from this response.
func (c *Client) JoinQueue(ctx context.Context, barberID int64, svc queue.Service) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	var payload joinQueueResp
	_, err := c.do(ctx, http.MethodPost, "/user/joinqueue", joinQueueReq{
		BarberID: barberID,
		Service:  string(svc),
	}, &payload)
	return err
}

// JoinQueueAs joins barberID's queue under someone else's token. The
// barber walk-in flow uses it to seat a customer under the customer's
// own membership rather than the barber's.
func (c *Client) JoinQueueAs(ctx context.Context, token string, barberID int64, svc queue.Service) error {
	return c.WithToken(token).JoinQueue(ctx, barberID, svc)
}

// LeaveQueue exits whatever queue the user is in. Returns the barber
// name the backend reports having removed the user from, when present.
func (c *Client) LeaveQueue(ctx context.Context) (string, error) {
	if err := c.requireToken(); err != nil {
		return "", err
	}
	var payload leaveQueueResp
	_, err := c.do(ctx, http.MethodPost, "/user/leavequeue", struct{}{}, &payload)
	if err != nil {
		return "", err
	}
	if payload.Data != nil && payload.Data.RemovedFrom != nil {
		return payload.Data.RemovedFrom.Name, nil
	}
	return "", nil
}

// NearbyBarbers returns the raw snapshots around (lat, long). Distance
// annotation happens in the discovery engine, client-side.
func (c *Client) NearbyBarbers(ctx context.Context, lat, long, radiusKm float64) ([]queue.Barber, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var payload nearbyResp
	_, err := c.do(ctx, http.MethodPost, "/user/barbers", nearbyReq{
		Lat: lat, Long: long, Radius: radiusKm,
	}, &payload)
	if err != nil {
		return nil, err
	}
	out := make([]queue.Barber, 0, len(payload.Barbers))
	for _, b := range payload.Barbers {
		out = append(out, toBarber(b))
	}
	return out, nil
}

// BarberQueue fetches the signed-in barber's own queue view.
func (c *Client) BarberQueue(ctx context.Context) (queue.Dashboard, error) {
	if err := c.requireToken(); err != nil {
		return queue.Dashboard{}, err
	}
	var payload barberQueueResp
	_, err := c.do(ctx, http.MethodGet, "/barber/queue", nil, &payload)
	if err != nil {
		return queue.Dashboard{}, err
	}
	return toDashboard(payload), nil
}

// RemoveUser marks a customer as served and removes them from the
// barber's queue. Returns the removed customer's name.
func (c *Client) RemoveUser(ctx context.Context, userID int64) (string, error) {
	if err := c.requireToken(); err != nil {
		return "", err
	}
	var payload removeUserResp
	_, err := c.do(ctx, http.MethodPost, "/barber/remove-user", removeUserReq{UserID: userID}, &payload)
	if err != nil {
		return "", err
	}
	return payload.Data.RemovedUser.Name, nil
}
