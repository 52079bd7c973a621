// Package auth reads and stores the CMS bearer token.
//
// The system keyring is the primary store. auth.token in the config is a
// read-only fallback for headless machines without a keyring daemon.
package auth

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/key"
	"github.com/zalando/go-keyring"
)

const (
	service = "subgate-cli"
	user    = "cms-token"
)

// Source is where a token was found.
type Source string

const (
	SourceNone    Source = "none"
	SourceKeyring Source = "keyring"
	SourceConfig  Source = "config"
)

// SetToken stores the token in the system keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(service, user, token)
}

// DeleteToken removes the token from the system keyring.
// A missing entry is not an error.
func DeleteToken() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Lookup returns the current token and where it came from.
// An empty token with SourceNone means no credential is available.
func Lookup() (string, Source) {
	if token, err := keyring.Get(service, user); err == nil && token != "" {
		return token, SourceKeyring
	}

	if token := strings.TrimSpace(viper.GetString(key.AuthToken)); token != "" {
		return token, SourceConfig
	}

	return "", SourceNone
}

// Token returns the current token or "".
// Matches the backend token source signature.
func Token() string {
	token, _ := Lookup()
	return token
}
