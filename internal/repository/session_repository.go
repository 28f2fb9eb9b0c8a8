package repository

import (
	"context"
	"time"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/pkg/redis"
)

// SessionRepository stores refresh sessions and the token blacklist in Redis
type SessionRepository struct {
	redis *redis.Client
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(redisClient *redis.Client) *SessionRepository {
	return &SessionRepository{redis: redisClient}
}

// StoreSession saves a session with TTL matching the refresh token lifetime
func (r *SessionRepository) StoreSession(ctx context.Context, session *model.Session, ttl time.Duration) error {
	if err := r.redis.SetJSON(ctx, redis.SessionKey(session.ID), session, ttl); err != nil {
		return err
	}
	// Track session IDs per user so logout-all can find them
	if err := r.redis.RPush(ctx, redis.UserSessionsKey(session.UserID), session.ID); err != nil {
		return err
	}
	return r.redis.Expire(ctx, redis.UserSessionsKey(session.UserID), ttl)
}

// GetSession fetches a session by ID
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	if err := r.redis.GetJSON(ctx, redis.SessionKey(sessionID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session
func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.redis.Del(ctx, redis.SessionKey(sessionID))
}

// DeleteUserSessions removes every session of a user
func (r *SessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	ids, err := r.redis.LRange(ctx, redis.UserSessionsKey(userID), 0, -1)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.redis.Del(ctx, redis.SessionKey(id)); err != nil {
			return err
		}
	}
	return r.redis.Del(ctx, redis.UserSessionsKey(userID))
}

// BlacklistToken marks an access token revoked until it would have expired
func (r *SessionRepository) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.redis.Set(ctx, redis.TokenBlacklistKey(token), "1", ttl)
}

// IsTokenBlacklisted checks whether an access token was revoked
func (r *SessionRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return r.redis.Exists(ctx, redis.TokenBlacklistKey(token))
}
