package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrUnknownToken = errors.New("refresh token not recognized")

// RefreshStore tracks the JTI of every live refresh token in Redis so a
// refresh token is single-use: rotation consumes the old ID atomically and
// a stolen, already-rotated token stops working.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

func key(jti string) string        { return fmt.Sprintf("auth:refresh:%s", jti) }
func userSetKey(uid string) string { return fmt.Sprintf("auth:user_tokens:%s", uid) }

func (s *RefreshStore) Save(ctx context.Context, jti, userID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(jti), userID, s.ttl)
	pipe.SAdd(ctx, userSetKey(userID), jti)
	pipe.Expire(ctx, userSetKey(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Consume deletes the token ID and returns the user it belonged to.
// GETDEL keeps the check-and-invalidate step atomic under concurrent
// refresh attempts with the same token.
func (s *RefreshStore) Consume(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, key(jti)).Result()
	if err == redis.Nil {
		return "", ErrUnknownToken
	}
	if err != nil {
		return "", err
	}
	_ = s.rdb.SRem(ctx, userSetKey(userID), jti).Err()
	return userID, nil
}

// RevokeAll drops every live refresh token for a user, used when an admin
// deactivates the account.
func (s *RefreshStore) RevokeAll(ctx context.Context, userID string) error {
	ids, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, jti := range ids {
		pipe.Del(ctx, key(jti))
	}
	pipe.Del(ctx, userSetKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
