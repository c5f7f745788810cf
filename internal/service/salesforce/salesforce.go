// Package salesforce pushes user profile changes to the CRM connector.
//
// Sync is best effort: it runs after the user-facing write has already
// succeeded and its outcome never changes the API response. Failures are
// logged and dropped.
package salesforce

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gfw-api/gfw-user-api/internal/platform/gateway"
	applog "github.com/gfw-api/gfw-user-api/internal/platform/logging"
	"github.com/gfw-api/gfw-user-api/internal/service/user"
)

const (
	logActionPath   = "/v1/salesforce/contact/log-action"
	dispatchTimeout = 30 * time.Second
)

// Contact is the payload shape the CRM connector expects.
type Contact struct {
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	Email                  string `json:"email,omitempty"`
	Sector                 string `json:"sector,omitempty"`
	PrimaryRole            string `json:"primaryRole,omitempty"`
	Title                  string `json:"title,omitempty"`
	CountryOfInterest      string `json:"countryOfInterest,omitempty"`
	AreaOrRegionOfInterest string `json:"areaOrRegionOfInterest,omitempty"`
	TopicsOfInterest       string `json:"topicsOfInterest,omitempty"`
}

// ContactFromUser maps a user record to the CRM contact shape.
func ContactFromUser(u *user.User) Contact {
	return Contact{
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Email:                  u.Email,
		Sector:                 u.Sector,
		PrimaryRole:            u.Subsector,
		Title:                  u.JobTitle,
		CountryOfInterest:      u.AoiCountry,
		AreaOrRegionOfInterest: u.AreaOrRegionOfInterest(),
		TopicsOfInterest:       strings.Join(u.Interests, ","),
	}
}

// Dispatcher sends contact updates to the CRM connector without blocking the
// caller.
type Dispatcher struct {
	gateway *gateway.Client
	enabled bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. When enabled is false every Dispatch
// is a no-op.
func NewDispatcher(gw *gateway.Client, enabled bool) *Dispatcher {
	return &Dispatcher{gateway: gw, enabled: enabled}
}

// Dispatch queues a contact sync for u and returns immediately. The send
// outlives the request that triggered it.
func (d *Dispatcher) Dispatch(ctx context.Context, u *user.User) {
	if !d.enabled {
		return
	}

	contact := ContactFromUser(u)
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()

		if _, err := d.gateway.Request(ctx, http.MethodPost, logActionPath, contact); err != nil {
			applog.LogWarn(ctx, "salesforce contact sync failed",
				zap.String("user_id", u.ID),
				zap.Error(err))
		}
	}()
}

// Flush blocks until all queued dispatches have finished. Used on shutdown
// and in tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}
