package env

import "os"

// Get reads an environment variable, treating an unset or empty value
// the same and returning fallback for both.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
