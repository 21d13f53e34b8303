package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestTokenService(t *testing.T) (TokenService, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := config.JWTConfig{
		Secret:       "test-secret",
		Issuer:       "admin-console",
		AccessExpiry: time.Hour,
	}
	return NewTokenService(cfg, client), mr
}

func TestTokenService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTokenService(t)

	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Username:  "zhangsan",
	}

	token, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "zhangsan", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTokenService(t)

	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "tester"}
	token, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	// 注销前有效
	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)

	err = svc.RevokeToken(ctx, token)
	assert.NoError(t, err)

	// 注销后拒绝
	_, err = svc.ValidateToken(ctx, token)
	assert.Equal(t, ErrTokenRevoked, err)
}

func TestTokenService_RevokeDoesNotAffectOtherTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTokenService(t)

	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "tester"}
	first, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)
	second, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	// 注销按 jti 生效，同一用户的其他令牌不受影响
	assert.NoError(t, svc.RevokeToken(ctx, first))

	_, err = svc.ValidateToken(ctx, first)
	assert.Equal(t, ErrTokenRevoked, err)
	_, err = svc.ValidateToken(ctx, second)
	assert.NoError(t, err)
}

func TestTokenService_Tampered(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTokenService(t)

	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "tester"}
	token, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateToken(ctx, tampered)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTokenService(t)

	other := NewTokenService(config.JWTConfig{
		Secret:       "another-secret",
		Issuer:       "admin-console",
		AccessExpiry: time.Hour,
	}, nil)

	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "tester"}
	token, err := other.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestTokenService_Expired(t *testing.T) {
	ctx := context.Background()
	_, mr := newTestTokenService(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	// 签发时就已过期的令牌
	expired := NewTokenService(config.JWTConfig{
		Secret:       "test-secret",
		Issuer:       "admin-console",
		AccessExpiry: -time.Minute,
	}, client)

	user := &model.User{BaseModel: model.BaseModel{ID: 5}, Username: "tester"}
	token, err := expired.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	_, err = expired.ValidateToken(ctx, token)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestTokenService_RedisDownFailsClosed(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestTokenService(t)

	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "tester"}
	token, err := svc.GenerateAccessToken(ctx, user)
	assert.NoError(t, err)

	// 注销名单查询失败时按已注销处理
	mr.Close()
	_, err = svc.ValidateToken(ctx, token)
	assert.Equal(t, ErrTokenRevoked, err)
}
