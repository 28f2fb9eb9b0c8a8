package redis

import "fmt"

// Redis key patterns for the application
// Following the pattern: entity:id or entity:id:attribute

// Session keys
func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func UserSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// Token blacklist
func TokenBlacklistKey(token string) string {
	return fmt.Sprintf("token_blacklist:%s", token)
}

// Rate limiting keys
func RateLimitKey(identifier, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, identifier)
}

// Mentor conversation history
func MentorHistoryKey(userID string) string {
	return fmt.Sprintf("mentor:history:%s", userID)
}

// Dashboard cache keys, invalidated on every write touching the account
func DashboardMetricsKey(accountID string) string {
	return fmt.Sprintf("cache:dashboard:%s", accountID)
}
