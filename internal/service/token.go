package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenInvalid = errors.New("令牌无效")
	ErrTokenRevoked = errors.New("令牌已失效")
)

// denylistKeyPrefix 注销令牌的 Redis 键前缀
const denylistKeyPrefix = "token:denylist:"

// TokenClaims 访问令牌载荷
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
}

// TokenService 访问令牌的签发、校验与注销
type TokenService interface {
	GenerateAccessToken(ctx context.Context, user *model.User) (string, error)
	// ValidateToken 校验签名和有效期，并检查注销名单
	ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error)
	// RevokeToken 把令牌的 jti 写入注销名单，存活期与令牌剩余有效期一致
	RevokeToken(ctx context.Context, tokenString string) error
}

type tokenService struct {
	cfg   config.JWTConfig
	redis *redis.Client
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig, redisClient *redis.Client) TokenService {
	return &tokenService{cfg: cfg, redis: redisClient}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *model.User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *tokenService) parse(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *tokenService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if s.redis != nil && claims.ID != "" {
		exists, err := s.redis.Exists(ctx, denylistKeyPrefix+claims.ID).Result()
		if err != nil {
			// 名单查不到就当已注销，宁可误拒不可误放
			return nil, ErrTokenRevoked
		}
		if exists > 0 {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *tokenService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if s.redis == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		// 已过期的令牌无需进名单
		return nil
	}
	return s.redis.Set(ctx, denylistKeyPrefix+claims.ID, "1", ttl).Err()
}
