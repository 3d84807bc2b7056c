// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/recommend"
)

func startNATS(t *testing.T) *server.Server {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   server.RANDOM_PORT,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("start nats: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("nats server not ready")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestNATSTransport_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("embedded NATS server in short mode")
	}
	t.Parallel()

	ns := startNATS(t)
	tr, err := NewTransport(ns.ClientURL(), watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	if tr.Kind != "nats" {
		t.Fatalf("Kind = %q, want nats", tr.Kind)
	}

	inv := newFakeInvalidator(0)
	startRouter(t, tr, inv)

	pub := NewPublisher(tr.Publisher, zerolog.Nop())
	pub.FeedbackSubmitted(context.Background(), 21, 13, recommend.FeedbackGood)
	expectInvalidation(t, inv, 21)
}
