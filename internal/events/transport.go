// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
)

// queueGroup load-balances consumers across instances on NATS.
const queueGroup = "cinerank"

// Transport pairs a publisher and subscriber on the same medium.
type Transport struct {
	Publisher message.Publisher
	// Subscriber ignores Close; the Transport owns the connection so a
	// restarted router can subscribe again.
	Subscriber message.Subscriber

	// Kind is "gochannel" or "nats".
	Kind string

	closers []func() error
}

// NewTransport returns a NATS transport when natsURL is set and an
// in-process channel otherwise.
func NewTransport(natsURL string, logger watermill.LoggerAdapter) (*Transport, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if natsURL == "" {
		return NewChannelTransport(logger), nil
	}
	return NewNATSTransport(natsURL, logger)
}

// NewChannelTransport creates an in-process GoChannel transport. Messages
// published before a subscription exists are dropped.
func NewChannelTransport(logger watermill.LoggerAdapter) *Transport {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
	return &Transport{
		Publisher:  ch,
		Subscriber: retainedSubscriber{ch},
		Kind:       "gochannel",
		closers:    []func() error{ch.Close},
	}
}

// NewNATSTransport connects to NATS core with JetStream disabled.
func NewNATSTransport(url string, logger watermill.LoggerAdapter) (*Transport, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("cinerank"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	marshaler := &wmNats.NATSMarshaler{}
	jsConfig := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   marshaler,
		JetStream:   jsConfig,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: queueGroup,
		SubscribersCount: 1,
		CloseTimeout:     10 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      marshaler,
		JetStream:        jsConfig,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Transport{
		Publisher:  pub,
		Subscriber: retainedSubscriber{sub},
		Kind:       "nats",
		closers:    []func() error{sub.Close, pub.Close},
	}, nil
}

// Close closes the subscriber and publisher.
func (t *Transport) Close() error {
	var errs []error
	for _, c := range t.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	t.closers = nil
	return errors.Join(errs...)
}

// retainedSubscriber shields the underlying subscriber from Router.Close.
type retainedSubscriber struct {
	message.Subscriber
}

func (retainedSubscriber) Close() error { return nil }
