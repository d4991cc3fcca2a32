package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"libranexus/internal/library"
	"libranexus/internal/platform/config"
	"libranexus/internal/platform/metrics"
	"libranexus/internal/store"
	"libranexus/pkg/eventstore"
)

// Deps are the resources a publisher may be built on.
type Deps struct {
	Backend store.Backend
	DB      *sql.DB
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Open builds the publisher named by cfg.Kind, wrapped with metrics and
// error logging. The returned close func releases any connection it
// opened.
func Open(ctx context.Context, cfg config.Publisher, deps Deps) (Publisher, func() error, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	noop := func() error { return nil }

	var (
		pub     Publisher
		closeFn = noop
	)
	switch cfg.Kind {
	case "", "store":
		if deps.Backend == nil {
			return nil, nil, library.Runtime(nil, "store publisher needs a backend")
		}
		pub = NewStorePublisher(deps.Backend)
	case "log":
		pub = NewLogPublisher(deps.Logger)
	case "nats":
		p, err := NewNATSPublisher(NATSConfig{URL: cfg.NATSURL, SubjectPrefix: cfg.NATSSubjectPrefix})
		if err != nil {
			return nil, nil, err
		}
		pub, closeFn = p, p.Close
	case "kafka":
		p, err := NewKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return nil, nil, err
		}
		pub, closeFn = p, p.Close
	case "eventlog":
		if deps.DB == nil {
			return nil, nil, library.Runtime(nil, "eventlog publisher needs a postgres database")
		}
		log := eventstore.NewEventStore(deps.DB)
		if err := log.EnsureSchema(ctx); err != nil {
			return nil, nil, library.Database(err, true, "create event log schema")
		}
		pub = NewEventLogPublisher(log)
	default:
		return nil, nil, library.Runtime(fmt.Errorf("unknown publisher %q", cfg.Kind), "open publisher")
	}

	deps.Logger.Info("event publisher ready", "kind", cfg.Kind)
	return NewInstrumented(pub, deps.Metrics, deps.Logger), closeFn, nil
}
