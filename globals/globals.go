package globals

import "os"

var (
	JwtSecret       = secretFromEnv("JWT_SECRET", "change_me_in_production")
	BadgeHMACSecret = secretFromEnv("BADGE_HMAC_SECRET", "change_me_too")
)

func secretFromEnv(key, fallback string) []byte {
	if v := os.Getenv(key); v != "" {
		return []byte(v)
	}
	return []byte(fallback)
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
