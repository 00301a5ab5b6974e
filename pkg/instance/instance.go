package instance

import "os"

// GetID returns the process instance identifier used to tag logs.
// DYNO wins over HOSTNAME so platform dyno names stay readable.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
