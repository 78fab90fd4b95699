// Package auth provides a high-level API for persisting and retrieving user credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "vidlink-cli"
	user    = "enrich-api-key"
)

// SetKey persists the enrichment service credential to the system keyring.
func SetKey(apiKey string) error {
	return keyring.Set(service, user, apiKey)
}

// GetKey retrieves the enrichment service credential from the system keyring.
func GetKey() (string, error) {
	return keyring.Get(service, user)
}

// DeleteKey removes the enrichment service credential from the system keyring.
func DeleteKey() error {
	return keyring.Delete(service, user)
}
