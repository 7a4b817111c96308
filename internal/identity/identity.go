// Package identity resolves request credentials into an owner: an
// authenticated user, an anonymous device, or nobody at all. Everything
// downstream (ownership scoping, quotas) keys off the resolved Owner
// rather than raw headers.
package identity

import (
	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

// Kind discriminates the owner variants.
type Kind int

const (
	// KindUnidentified means no usable credentials were presented.
	KindUnidentified Kind = iota
	// KindUser is an authenticated account.
	KindUser
	// KindDevice is an anonymous device identified only by its client-generated ID.
	KindDevice
)

// Owner is the resolved identity a request acts as. Exactly one of the
// identifiers is set, matching the Kind. The zero value is Unidentified.
type Owner struct {
	kind     Kind
	userID   string
	deviceID string
}

// User returns an owner for an authenticated account.
func User(userID string) Owner {
	return Owner{kind: KindUser, userID: userID}
}

// Device returns an owner for an anonymous device.
func Device(deviceID string) Owner {
	return Owner{kind: KindDevice, deviceID: deviceID}
}

// Unidentified returns the owner for a request with no usable credentials.
func Unidentified() Owner {
	return Owner{kind: KindUnidentified}
}

// Kind returns the owner variant.
func (o Owner) Kind() Kind {
	return o.kind
}

// Identified reports whether the owner is a user or a device.
func (o Owner) Identified() bool {
	return o.kind != KindUnidentified
}

// IsUser reports whether the owner is an authenticated account.
func (o Owner) IsUser() bool {
	return o.kind == KindUser
}

// IsDevice reports whether the owner is an anonymous device.
func (o Owner) IsDevice() bool {
	return o.kind == KindDevice
}

// UserID returns the account ID when the owner is a user.
func (o Owner) UserID() (string, bool) {
	return o.userID, o.kind == KindUser
}

// DeviceID returns the device ID when the owner is an anonymous device.
func (o Owner) DeviceID() (string, bool) {
	return o.deviceID, o.kind == KindDevice
}

// String renders the owner for logging. Never includes credentials.
func (o Owner) String() string {
	switch o.kind {
	case KindUser:
		return "user:" + o.userID
	case KindDevice:
		return "device:" + o.deviceID
	default:
		return "unidentified"
	}
}

// TokenVerifier checks a bearer token and returns the account it belongs to.
// Kept as a narrow interface so the resolver doesn't care what token format
// sits underneath.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// Resolver turns (bearer token, device ID) credential pairs into Owners.
type Resolver struct {
	verifier TokenVerifier
}

// NewResolver creates a resolver backed by the given token verifier.
func NewResolver(verifier TokenVerifier) *Resolver {
	return &Resolver{verifier: verifier}
}

// Resolve performs strict resolution. A present bearer token always wins:
// if it verifies, the owner is that user; if it does not, resolution fails
// closed with an authentication error even when a device ID is also present.
// A device ID never rescues a bad token. With no bearer at all, a non-empty
// device ID yields an anonymous device owner; otherwise Unidentified.
func (r *Resolver) Resolve(bearer, deviceID string) (Owner, error) {
	if bearer != "" {
		userID, err := r.verifier.Verify(bearer)
		if err != nil {
			return Unidentified(), errors.Unauthorized("invalid or expired token").WithCause(err)
		}
		return User(userID), nil
	}

	if deviceID != "" {
		return Device(deviceID), nil
	}

	return Unidentified(), nil
}

// ResolveLenient is like Resolve but degrades an invalid bearer to
// Unidentified instead of failing. Used on public endpoints where
// identity only personalizes the response.
func (r *Resolver) ResolveLenient(bearer, deviceID string) Owner {
	owner, err := r.Resolve(bearer, deviceID)
	if err != nil {
		return Unidentified()
	}
	return owner
}
