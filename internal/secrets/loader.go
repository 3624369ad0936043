// Package secrets resolves secret values from files or inline configuration,
// keeping tokens and API keys out of the config file itself.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name labels the secret in error messages.
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File is a path to a file holding the secret. A set File wins over
	// Value.
	File string
}

// Load resolves the secret from the source and trims surrounding whitespace.
// It fails when neither the file nor the inline value yields a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q holds no value", name, src.File)
		}
		return "", fmt.Errorf("no %s configured", name)
	}

	return secret, nil
}
