package util

import "os"

// Getenv returns the environment variable, or the default value if the
// variable is not set
func Getenv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return defaultValue
}
