package testaiket

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCredentials     = errors.New("either a password or a session cookie must be specified")
	ErrInvalidPassword = errors.New("invalid credentials provided")
	ErrSessionActive   = errors.New("a session is already active for the specified credentials")
	ErrMissingElement  = errors.New("expected element is missing")
)

// loginErrors maps the text of the site's error banner to the error it means.
var loginErrors = []struct {
	text string
	err  error
}{
	{text: "Neteisingas kodas", err: ErrInvalidPassword},
	{text: "Šis naudotojas jau yra prisijungęs", err: ErrSessionActive},
}

// LoginError is an error banner shown on login that is not one of the known ones.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login rejected: %s", e.Message)
}

// StructureError reports that the listing page does not have the markup the
// parser relies on. It matches ErrMissingElement.
type StructureError struct {
	Question int
	Element  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("question %d: missing %s", e.Question, e.Element)
}

func (e *StructureError) Unwrap() error {
	return ErrMissingElement
}

func classifyLoginError(banner string) error {
	if banner == "" {
		return nil
	}
	for _, known := range loginErrors {
		if strings.Contains(banner, known.text) {
			return known.err
		}
	}
	return &LoginError{Message: banner}
}
