// Package credential resolves the API key used for outbound calls to the
// analytics backend.
//
// Five sources are consulted in strict precedence order; the first one that
// yields a value wins. The resolver is a pure function over its inputs so
// the precedence table is exhaustively testable.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Environment variables consulted by Resolve when Getenv is left nil.
const (
	EnvAPIKey     = "STATBRIDGE_API_KEY"
	EnvAPIKeyFile = "STATBRIDGE_API_KEY_FILE"
)

// Sources carries the candidate credential values for one invocation,
// highest precedence first:
//
//  1. Explicit — the api_key argument on the tool call itself
//  2. Metadata — a token lifted from transport headers into the context
//  3. Session — the key already configured on the shared backend client
//  4. the EnvAPIKey environment variable
//  5. the file named by EnvAPIKeyFile (contents trimmed, must be non-empty)
type Sources struct {
	Explicit string
	Metadata string
	Session  string

	// Getenv and ReadFile default to os.Getenv and os.ReadFile.
	// Injectable for tests.
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
}

// MissingError is returned when no source yields a credential. Its message
// enumerates every supported remediation path.
type MissingError struct{}

func (*MissingError) Error() string {
	return "no API key found; provide one via the api_key tool argument, " +
		"an Authorization or X-API-Key request header, " +
		"the " + EnvAPIKey + " environment variable, " +
		"or a key file named by " + EnvAPIKeyFile
}

// IsMissing reports whether err is a MissingError.
func IsMissing(err error) bool {
	var m *MissingError
	return errors.As(err, &m)
}

// Resolve returns the credential from the highest-precedence source that is
// present. A key-file read failure is surfaced as an error rather than
// falling through: a configured-but-unreadable file is an operator mistake
// the caller needs to hear about.
func Resolve(s Sources) (string, error) {
	if s.Explicit != "" {
		return s.Explicit, nil
	}
	if s.Metadata != "" {
		return s.Metadata, nil
	}
	if s.Session != "" {
		return s.Session, nil
	}

	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAPIKey); v != "" {
		return v, nil
	}

	if path := getenv(EnvAPIKeyFile); path != "" {
		return readKeyFile(path, s.ReadFile)
	}

	return "", &MissingError{}
}

func readKeyFile(path string, readFile func(string) ([]byte, error)) (string, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}

	data, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("credential: API key file %q does not exist (check %s)", path, EnvAPIKeyFile)
	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("credential: permission denied reading API key file %q", path)
	case err != nil:
		return "", fmt.Errorf("credential: read API key file %q: %w", path, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("credential: API key file %q is empty", path)
	}
	return key, nil
}
