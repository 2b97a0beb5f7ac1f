// Package discovery - locator.go
// Where the device is. The platform capability is behind an interface;
// the default implementation asks an IP-geolocation endpoint and keeps
// the fix warm for a few minutes.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Locator resolves the device's current coordinates.
type Locator interface {
	Locate(ctx context.Context) (Coords, error)
}

// LocateErrorKind classifies a failed fix so callers can decide how loud
// to be about it.
type LocateErrorKind int

const (
	// LocateDenied means the user opted out of location. A choice, not
	// a failure: callers stay silent about it.
	LocateDenied LocateErrorKind = iota
	LocateUnavailable
	LocateTimeout
)

type LocateError struct {
	Kind LocateErrorKind
	Msg  string
}

func (e *LocateError) Error() string { return e.Msg }

// GeoDisabled is the sentinel endpoint value for a user who opted out.
const GeoDisabled = "off"

// IPLocator resolves a coarse fix from an IP-geolocation service.
// A fix younger than maxAge is reused instead of re-requested.
type IPLocator struct {
	endpoint string
	http     *http.Client
	maxAge   time.Duration
	clock    clockwork.Clock

	mu      sync.Mutex
	fix     Coords
	fixedAt time.Time
}

func NewIPLocator(endpoint string, timeout, maxAge time.Duration, clock clockwork.Clock) *IPLocator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &IPLocator{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		maxAge:   maxAge,
		clock:    clock,
	}
}

type ipAPIResp struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (Coords, error) {
	if l.endpoint == "" || l.endpoint == GeoDisabled {
		return Coords{}, &LocateError{Kind: LocateDenied, Msg: "location access is disabled"}
	}

	l.mu.Lock()
	if !l.fixedAt.IsZero() && l.clock.Since(l.fixedAt) < l.maxAge {
		fix := l.fix
		l.mu.Unlock()
		return fix, nil
	}
	l.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return Coords{}, &LocateError{Kind: LocateUnavailable, Msg: err.Error()}
	}
	resp, err := l.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return Coords{}, &LocateError{Kind: LocateTimeout, Msg: "location request timed out"}
		}
		return Coords{}, &LocateError{Kind: LocateUnavailable, Msg: fmt.Sprintf("location lookup failed: %v", err)}
	}
	defer resp.Body.Close()

	var payload ipAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coords{}, &LocateError{Kind: LocateUnavailable, Msg: "location response unreadable"}
	}
	if payload.Status == "fail" || !ValidCoords(payload.Lat, payload.Lon) {
		msg := payload.Message
		if msg == "" {
			msg = "location information is unavailable"
		}
		return Coords{}, &LocateError{Kind: LocateUnavailable, Msg: msg}
	}

	fix := Coords{Lat: payload.Lat, Long: payload.Lon}
	l.mu.Lock()
	l.fix = fix
	l.fixedAt = l.clock.Now()
	l.mu.Unlock()
	return fix, nil
}
