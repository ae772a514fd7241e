package roster

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies roster fetch failures.
type FetchErrorKind int

const (
	// NotConfigured means the API integration or the guild identity is missing.
	NotConfigured FetchErrorKind = iota
	// Transient failures are retried by the next scheduled pass.
	Transient
	// AuthInvalid means the API rejected our credentials.
	AuthInvalid
)

func (k FetchErrorKind) String() string {
	switch k {
	case NotConfigured:
		return "not_configured"
	case AuthInvalid:
		return "auth_invalid"
	default:
		return "transient"
	}
}

var (
	ErrNotConfigured = errors.New("roster integration not configured")
	ErrTransient     = errors.New("roster temporarily unavailable")
	ErrAuthInvalid   = errors.New("roster API credentials rejected")

	// ErrNoCandidates is available to callers that want to turn an empty
	// match result into an error. The resolver never returns it.
	ErrNoCandidates = errors.New("no matching candidates")
)

// FetchError is returned by Fetcher implementations.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *FetchError) sentinel() error {
	switch e.Kind {
	case NotConfigured:
		return ErrNotConfigured
	case AuthInvalid:
		return ErrAuthInvalid
	default:
		return ErrTransient
	}
}

// NewFetchError wraps err with kind.
func NewFetchError(kind FetchErrorKind, err error) error {
	return &FetchError{Kind: kind, Err: err}
}

// OperatorMessage describes err for the person configuring the bot.
// Transient and unknown errors get a generic retry hint.
func OperatorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "The Blizzard API or the guild is not set up. Configure the integration first: set the guild name, realm and region, and provide API client credentials."
	case errors.Is(err, ErrAuthInvalid):
		return "The Blizzard API rejected the configured client credentials. Create a client on https://develop.battle.net/ and update the client ID and secret."
	default:
		return "The roster could not be fetched right now, try again later."
	}
}
