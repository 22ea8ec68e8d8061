package env

import (
	"os"
	"strings"
)

const prefix = "JUNIORGOLF_"

// Get reads JUNIORGOLF_<key>, then <key>, then falls back.
func Get(key, fallback string) string {
	for _, name := range []string{prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
