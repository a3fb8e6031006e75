package instance

import "os"

// GetID returns the host-assigned instance identifier (DYNO on Heroku, HOSTNAME in
// containers) or "local".
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
