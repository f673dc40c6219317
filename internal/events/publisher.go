// Package events publishes order and conversation events to NATS JetStream
// for downstream consumers (kitchen display, analytics).
package events

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/logger"
)

const (
	// StreamName is the name of the orders stream.
	StreamName = "ORDERS"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "devburger"
)

// Config holds NATS connection configuration.
type Config struct {
	URL      string
	CAFile   string
	CertFile string
	KeyFile  string
	Token    string
}

// Publisher publishes events to JetStream. A nil Publisher is valid and
// drops every event, so event publishing stays optional at startup.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

// Connect establishes a connection to NATS and ensures the stream exists.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	if cfg.CAFile != "" && cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig, err := createTLSConfig(cfg.CAFile, cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &Publisher{conn: nc, js: js, logger: log}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}

	return p, nil
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	if _, err := p.js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Order and conversation events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// OrderCreated publishes an order-created event. Failures are logged and
// swallowed: event delivery must never fail an already-committed order.
func (p *Publisher) OrderCreated(ctx context.Context, order *model.Order) {
	if p == nil {
		return
	}

	event := model.OrderCreatedEvent{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		Total:        order.Total,
		LineCount:    len(order.Items),
		CreatedAt:    order.CreatedAt,
	}
	subject := fmt.Sprintf("%s.orders.%s", SubjectPrefix, model.EventTypeOrderCreated)
	p.publish(ctx, subject, event)
}

// Reply publishes a conversation-reply event.
func (p *Publisher) Reply(ctx context.Context, event model.ReplyEvent) {
	if p == nil {
		return
	}

	subject := fmt.Sprintf("%s.conversations.%s", SubjectPrefix, model.EventTypeReply)
	p.publish(ctx, subject, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}

func createTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
