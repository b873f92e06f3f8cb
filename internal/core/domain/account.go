package domain

import "time"

// FreeCalculationLimit is the number of calculations a free-tier account may
// record before it must upgrade to full access.
const FreeCalculationLimit = 5

// Device abuse thresholds. Advisory only: CheckDevice reports on them but no
// operation blocks on the result.
const (
	DeviceCalculationLimit = 15
	DeviceAccountLimit     = 3
)

// Account is the entitlement record kept per user. The account ID itself is
// owned by the session gateway; this record only carries entitlement state.
type Account struct {
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	HasFullAccess    bool      `json:"hasFullAccess"`
	CalculationsUsed int       `json:"calculationsUsed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Remaining returns how many free calculations the account has left.
// Full-access accounts are unlimited, reported as -1.
func (a *Account) Remaining() int {
	if a.HasFullAccess {
		return -1
	}
	r := FreeCalculationLimit - a.CalculationsUsed
	if r < 0 {
		return 0
	}
	return r
}

// Device tracks usage observed from a single device fingerprint. Fingerprints
// are low-entropy and collisions are acceptable; the record is an abuse
// signal, never an identity.
type Device struct {
	Calculations int       `json:"calculations"`
	Accounts     []string  `json:"accounts"`
	FirstSeen    time.Time `json:"firstSeen"`
	LastSeen     time.Time `json:"lastSeen"`
}

// HasAccount reports whether the given account id is already associated with
// the device.
func (d *Device) HasAccount(id string) bool {
	for _, a := range d.Accounts {
		if a == id {
			return true
		}
	}
	return false
}

// WithinLimits reports whether the device is still under both abuse
// thresholds.
func (d *Device) WithinLimits() bool {
	return d.Calculations < DeviceCalculationLimit && len(d.Accounts) < DeviceAccountLimit
}

// User models an authenticated actor as known to the session gateway.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
