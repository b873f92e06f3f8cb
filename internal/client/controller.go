package client

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baselinehq/pricing-api/internal/core/domain"
	"github.com/baselinehq/pricing-api/internal/pricing"
)

// PreviewLimit caps unauthenticated preview calculations. Advisory only:
// the counter lives client-side and is not a security boundary.
const PreviewLimit = 5

// Session is an active bearer credential.
type Session struct {
	Token     string
	AccountID string
}

// SessionProvider abstracts the auth session source. Current returns
// (nil, nil) when no session exists.
type SessionProvider interface {
	Current(ctx context.Context) (*Session, error)
	Refresh(ctx context.Context) (*Session, error)
}

// Prompt tells the UI which recovery surface to show.
type Prompt string

const (
	PromptNone       Prompt = ""
	PromptSignup     Prompt = "signup"      // preview quota exhausted
	PromptUpgrade    Prompt = "upgrade"     // free tier exhausted
	PromptLogin      Prompt = "login"       // session expired, re-authenticate
	PromptLicense    Prompt = "license"     // license key rejected, re-enter
	PromptRetryLater Prompt = "retry_later" // transient upstream failure
)

// AccountState is the controller's cached, possibly-stale view of the
// server-side account record.
type AccountState struct {
	Authenticated    bool
	HasFullAccess    bool
	CalculationsUsed int
}

// CalculationOutcome is what a "calculation requested" trigger produces.
type CalculationOutcome struct {
	Result    *pricing.Result
	Prompt    Prompt
	Remaining int // -1 when unlimited
	Stale     bool
	Message   string
}

// UpgradeOutcome is what an "upgrade requested" trigger produces.
type UpgradeOutcome struct {
	Upgraded bool
	Prompt   Prompt
	Message  string
}

// Controller orchestrates preview-mode counting, calculation gating, and the
// upgrade flow. All state mutation is expected to happen on a single logical
// thread (the UI event loop); the controller is not goroutine-safe.
type Controller struct {
	store    LocalStore
	api      EntitlementAPI
	sessions SessionProvider
	device   string
	log      zerolog.Logger

	state AccountState
	gen   uint64
}

func NewController(store LocalStore, api EntitlementAPI, sessions SessionProvider, env Environment, log zerolog.Logger) *Controller {
	return &Controller{
		store:    store,
		api:      api,
		sessions: sessions,
		device:   Identifier(store, env),
		log:      log,
	}
}

// DeviceIdentifier returns the identifier sent with device-tracking calls.
func (c *Controller) DeviceIdentifier() string {
	return c.device
}

// State returns the cached account view.
func (c *Controller) State() AccountState {
	return c.state
}

// PreviewCalculations returns the persisted preview counter.
func (c *Controller) PreviewCalculations() int {
	n, err := strconv.Atoi(c.store.Get(previewCountKey))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// OnAuthenticated applies a successful login, signup, or session restore.
// The local preview counter is superseded by server-side counting and reset.
func (c *Controller) OnAuthenticated(hasFullAccess bool, calculationsUsed int) {
	c.state = AccountState{
		Authenticated:    true,
		HasFullAccess:    hasFullAccess,
		CalculationsUsed: calculationsUsed,
	}
	c.store.Delete(previewCountKey)
}

// OnLoggedOut clears the cached authenticated state.
func (c *Controller) OnLoggedOut() {
	c.state = AccountState{}
}

// RequestCalculation handles the "calculation requested" trigger.
//
// The price itself is computed locally and is always available; whether it
// may be shown and counted depends on the entitlement state. A result from a
// superseded request (rapid repeated triggers) is marked Stale and must not
// be applied; the last request wins.
func (c *Controller) RequestCalculation(ctx context.Context, sel pricing.Selection, table pricing.Table, basePrice float64) (CalculationOutcome, error) {
	c.gen++
	gen := c.gen

	result, err := pricing.Compute(sel, table, basePrice)
	if err != nil {
		return CalculationOutcome{}, err
	}

	if !c.state.Authenticated {
		return c.previewCalculation(ctx, result), nil
	}

	// Known-exhausted free tier: short-circuit to the upgrade prompt without
	// contacting the server.
	if !c.state.HasFullAccess && c.state.CalculationsUsed >= domain.FreeCalculationLimit {
		return CalculationOutcome{
			Prompt:  PromptUpgrade,
			Message: "You've used all 5 free calculations. Upgrade to Full Access to continue.",
		}, nil
	}

	sess, err := c.sessions.Current(ctx)
	if err != nil || sess == nil {
		c.OnLoggedOut()
		return CalculationOutcome{Prompt: PromptLogin, Message: "Your session has expired. Please log in again."}, nil
	}

	reply, err := c.api.RecordCalculation(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			c.OnLoggedOut()
			return CalculationOutcome{Prompt: PromptLogin, Message: "Your session has expired. Please log in again."}, nil
		}
		c.log.Warn().Err(err).Msg("calculation counting failed")
		return CalculationOutcome{Prompt: PromptRetryLater, Message: "Something went wrong. Please try again later."}, nil
	}

	if c.gen != gen {
		// A newer request superseded this one; do not apply its counters.
		return CalculationOutcome{Stale: true}, nil
	}

	if reply.LimitReached {
		used := reply.CalculationsUsed
		if used < domain.FreeCalculationLimit {
			used = domain.FreeCalculationLimit
		}
		c.state.CalculationsUsed = used
		return CalculationOutcome{
			Prompt:  PromptUpgrade,
			Message: "Calculation limit reached. Please upgrade to Full Access.",
		}, nil
	}

	// Server acknowledged: reconcile the cached counters from its reply.
	c.state.HasFullAccess = reply.HasFullAccess
	if !reply.HasFullAccess {
		c.state.CalculationsUsed = reply.CalculationsUsed
	}

	return CalculationOutcome{
		Result:    &result,
		Remaining: reply.CalculationsRemaining,
	}, nil
}

// SubmitUpgrade handles the "upgrade requested" trigger. The upgrade call is
// only attempted once an active session is confirmed and refreshed. If the
// session is absent or the refresh fails, the cached authenticated state is
// cleared and the user is sent back to login rather than retried silently.
func (c *Controller) SubmitUpgrade(ctx context.Context, licenseKey string) (UpgradeOutcome, error) {
	if strings.TrimSpace(licenseKey) == "" {
		return UpgradeOutcome{Prompt: PromptLicense, Message: "Please enter a license key."}, nil
	}

	sess, err := c.sessions.Current(ctx)
	if err != nil || sess == nil {
		c.OnLoggedOut()
		return UpgradeOutcome{Prompt: PromptLogin, Message: "Your session has expired. Please log in again to upgrade."}, nil
	}

	refreshed, err := c.sessions.Refresh(ctx)
	if err != nil || refreshed == nil {
		c.OnLoggedOut()
		return UpgradeOutcome{Prompt: PromptLogin, Message: "Unable to verify your session. Please log in again."}, nil
	}

	if err := c.api.Upgrade(ctx, refreshed.Token, strings.TrimSpace(licenseKey)); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLicense):
			return UpgradeOutcome{Prompt: PromptLicense, Message: "Invalid license key. Please check your key and try again."}, nil
		case errors.Is(err, domain.ErrAuthExpired):
			c.OnLoggedOut()
			return UpgradeOutcome{Prompt: PromptLogin, Message: "Authentication failed. Please log in again."}, nil
		default:
			c.log.Warn().Err(err).Msg("upgrade failed")
			return UpgradeOutcome{Prompt: PromptRetryLater, Message: "Something went wrong. Please try again later."}, nil
		}
	}

	// No further counting needed once full access is granted.
	c.state.HasFullAccess = true
	return UpgradeOutcome{Upgraded: true}, nil
}

func (c *Controller) previewCalculation(ctx context.Context, result pricing.Result) CalculationOutcome {
	used := c.PreviewCalculations()
	if used >= PreviewLimit {
		return CalculationOutcome{
			Prompt:  PromptSignup,
			Message: "You've used all 5 preview calculations. Sign up to continue!",
		}
	}

	used++
	c.store.Set(previewCountKey, strconv.Itoa(used))
	c.trackCalculation(ctx)
	return CalculationOutcome{
		Result:    &result,
		Remaining: PreviewLimit - used,
	}
}

// trackCalculation feeds the server-side device abuse counters. Fire and
// forget: the call runs off the calculation path and failures are only
// logged, never surfaced.
func (c *Controller) trackCalculation(ctx context.Context) {
	go func() {
		if err := c.api.TrackDevice(ctx, c.device, "calculate", ""); err != nil {
			c.log.Debug().Err(err).Msg("device tracking failed")
		}
	}()
}
