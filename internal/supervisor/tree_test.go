// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package supervisor

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testSlogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingService struct {
	served atomic.Int32
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.served.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("expected threshold 5.0, got %v", cfg.FailureThreshold)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected shutdown timeout 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestNewTree_AppliesDefaults(t *testing.T) {
	tree := NewTree(testSlogger(), TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("expected default threshold, got %v", tree.config.FailureThreshold)
	}
	if tree.config.FailureBackoff != 15*time.Second {
		t.Errorf("expected default backoff, got %v", tree.config.FailureBackoff)
	}
}

func TestTree_ServesAndStops(t *testing.T) {
	tree := NewTree(testSlogger(), DefaultTreeConfig())

	svc := &blockingService{}
	tree.AddServingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for svc.served.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("service was never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}
}
