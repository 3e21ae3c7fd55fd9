package redis_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	adaptredis "github.com/rafaelleal24/stockledger/internal/adapters/redis"
)

var (
	testClient   *adaptredis.Client
	testEndpoint string
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		log.Fatalf("failed to start redis container: %v", err)
	}

	testEndpoint, err = container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testClient, err = adaptredis.NewConnection(config.RedisConfig{URL: testEndpoint})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	code := m.Run()

	_ = testClient.Close()
	_ = container.Terminate(ctx)

	os.Exit(code)
}

func TestClient_KeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	if err := testClient.Set(ctx, "ns-check", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	opts, err := goredis.ParseURL(testEndpoint)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	raw := goredis.NewClient(opts)
	defer raw.Close()

	got, err := raw.Get(ctx, "stockledger:ns-check").Result()
	if err != nil {
		t.Fatalf("expected namespaced key, got %v", err)
	}
	if got != "v" {
		t.Fatalf("expected v, got %q", got)
	}
	if n, _ := raw.Exists(ctx, "ns-check").Result(); n != 0 {
		t.Fatalf("expected bare key to be absent")
	}
}

func TestNewConnection_BadURL(t *testing.T) {
	if _, err := adaptredis.NewConnection(config.RedisConfig{URL: "not-a-url"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
