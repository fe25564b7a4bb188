package database

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(mr.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultRedisConfig()
	cfg.Host = host
	cfg.Port = port

	client, err := NewRedisClient(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Expected connection, got %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
	if _, ok := client.Stats()["total_conns"]; !ok {
		t.Error("Expected pool stats")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	host, portStr, _ := strings.Cut(addr, ":")
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultRedisConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.MaxRetries = -1
	cfg.DialTimeout = 200 * time.Millisecond

	if _, err := NewRedisClient(context.Background(), cfg, logger.Nop()); err == nil {
		t.Error("Expected an error for a closed server")
	}
}
