package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/art-design-pro/admin-backend/internal/config"
)

// 使用 miniredis 作为内存 Redis 实例
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("启动 miniredis 失败: %v", err)
	}
	t.Cleanup(mr.Close)

	if err := Init(&config.RedisConfig{Addr: mr.Addr()}); err != nil {
		t.Fatalf("初始化 Redis 失败: %v", err)
	}
	t.Cleanup(func() { Close() })

	return mr
}

// TestInit 测试 Redis 初始化
func TestInit(t *testing.T) {
	setupTestRedis(t)

	if GetClient() == nil {
		t.Error("GetClient() 返回 nil")
	}
}

// TestSetGet 测试 Set 和 Get 操作
func TestSetGet(t *testing.T) {
	setupTestRedis(t)

	ctx := context.Background()
	key := "test:key:setget"
	value := "test_value"

	if err := Set(ctx, key, value, time.Minute); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	got, err := Get(ctx, key)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got != value {
		t.Errorf("Get 期望 %s, 实际 %s", value, got)
	}
}

// TestDel 测试删除操作
func TestDel(t *testing.T) {
	setupTestRedis(t)

	ctx := context.Background()
	key := "test:key:del"

	if err := Set(ctx, key, "v", time.Minute); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if err := Del(ctx, key); err != nil {
		t.Fatalf("Del 失败: %v", err)
	}

	n, err := Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists 失败: %v", err)
	}
	if n != 0 {
		t.Errorf("期望键已删除, Exists 返回 %d", n)
	}
}

// TestExpire 测试过期时间
func TestExpire(t *testing.T) {
	mr := setupTestRedis(t)

	ctx := context.Background()
	key := "test:key:expire"

	if err := Set(ctx, key, "v", 0); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if err := Expire(ctx, key, time.Minute); err != nil {
		t.Fatalf("Expire 失败: %v", err)
	}

	ttl, err := TTL(ctx, key)
	if err != nil {
		t.Fatalf("TTL 失败: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL 期望 (0, 1m], 实际 %v", ttl)
	}

	// 快进时间后键应过期
	mr.FastForward(2 * time.Minute)
	n, err := Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists 失败: %v", err)
	}
	if n != 0 {
		t.Error("期望键已过期")
	}
}
