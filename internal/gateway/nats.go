package gateway

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"libranexus/internal/library"
)

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	Conn          *nats.Conn
	FlushTimeout  time.Duration
}

// NATSPublisher publishes each event on <prefix><group>.<name>.
type NATSPublisher struct {
	cfg      NATSConfig
	conn     *nats.Conn
	ownsConn bool
}

// NewNATSPublisher dials cfg.URL unless a connection is supplied.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "libranexus."
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = 2 * time.Second
	}
	p := &NATSPublisher{cfg: cfg, conn: cfg.Conn}
	if p.conn == nil {
		conn, err := nats.Connect(cfg.URL, nats.Name("libranexus"))
		if err != nil {
			return nil, library.FromTransport(err, "connect to nats at %s", cfg.URL)
		}
		p.conn = conn
		p.ownsConn = true
	}
	return p, nil
}

func (p *NATSPublisher) Subject(event *library.DomainEvent) string {
	return p.cfg.SubjectPrefix + event.Subject()
}

func (p *NATSPublisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return library.Serialization(err, "encode event %s", event.EventID)
	}
	msg := nats.NewMsg(p.Subject(event))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, event.EventID)
	msg.Header.Set("Event-Kind", string(event.Kind))

	if err := p.conn.PublishMsg(msg); err != nil {
		return library.FromTransport(err, "publish event %s", event.EventID)
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FlushTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return library.FromTransport(err, "flush event %s", event.EventID)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if p.ownsConn {
		p.conn.Close()
	}
	return nil
}
