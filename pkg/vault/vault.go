// Package vault stores bot tokens and other secrets in the OS keyring.
package vault

import (
	"fmt"

	"github.com/99designs/keyring"
)

type Vault struct {
	ring keyring.Keyring
}

func Open() (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: "agentpesa",
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

func (v *Vault) Set(key, value string) error {
	return v.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
}

func (v *Vault) Get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("secret %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (v *Vault) Delete(key string) error {
	return v.ring.Remove(key)
}
