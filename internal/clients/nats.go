package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/orchestrator"
)

const natsProbeNameConst = "arc-flash"

// streamSpec describes a single JetStream stream to provision.
type streamSpec struct {
	name      string
	subjects  []string
	retention nats.RetentionPolicy
	maxAge    time.Duration
}

// requiredStreams lists the streams that back seeder events.
var requiredStreams = []streamSpec{
	{
		name:      "SEEDER_EVENTS",
		subjects:  []string{"seeder.database.>"},
		retention: nats.LimitsPolicy,
		maxAge:    168 * time.Hour,
	},
	{
		name:      "SEEDER_AUDIT",
		subjects:  []string{"seeder.admin.>"},
		retention: nats.LimitsPolicy,
		maxAge:    30 * 24 * time.Hour,
	},
}

// jsContext is the subset of nats.JetStreamContext used by NATSClient.
// Defining an interface here allows test doubles to be injected without a live
// NATS server.
type jsContext interface {
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	UpdateStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSClient provisions the seeder streams on arc-flash (NATS), publishes
// seeder events and probes connectivity.
type NATSClient struct {
	url   string
	cb    *gobreaker.CircuitBreaker
	newJS func(url string) (jsContext, func(), error)

	// Publish reuses one connection, opened on first use and dropped after
	// a failed publish. Provisioning and probes connect per call.
	mu       sync.Mutex
	pubJS    jsContext
	pubClose func()
}

// NewNATSClient constructs a NATSClient. No connection is made at construction
// time.
func NewNATSClient(cfg config.NATSConfig, cb *gobreaker.CircuitBreaker) *NATSClient {
	return &NATSClient{
		url:   cfg.URL,
		cb:    cb,
		newJS: realNewJS,
	}
}

// ProvisionStreams connects to NATS JetStream and creates or updates the
// seeder streams. Existing streams are updated rather than errored.
func (c *NATSClient) ProvisionStreams(ctx context.Context) error {
	_, err := c.cb.Execute(func() (any, error) {
		js, cleanup, err := c.newJS(c.url)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}
		defer cleanup()

		for _, spec := range requiredStreams {
			if err := provisionStream(ctx, js, spec); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})

	return breakerErr(err)
}

// Publish JSON-encodes payload and publishes it on subject. The subject must
// fall inside one of the provisioned streams for the ack to succeed.
func (c *NATSClient) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", subject, err)
	}

	_, err = c.cb.Execute(func() (any, error) {
		js, err := c.publisher()
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		if _, err := js.Publish(subject, data, nats.Context(ctx)); err != nil {
			c.dropPublisher(js)
			return nil, fmt.Errorf("publishing %s: %w", subject, err)
		}
		return nil, nil
	})

	return breakerErr(err)
}

func (c *NATSClient) publisher() (jsContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubJS != nil {
		return c.pubJS, nil
	}
	js, cleanup, err := c.newJS(c.url)
	if err != nil {
		return nil, err
	}
	c.pubJS, c.pubClose = js, cleanup
	return js, nil
}

// dropPublisher closes the shared connection if it is still js, so the next
// Publish reconnects.
func (c *NATSClient) dropPublisher(js jsContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubJS != js {
		return
	}
	c.pubClose()
	c.pubJS, c.pubClose = nil, nil
}

// Close releases the publish connection. It is safe to call more than once.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubClose != nil {
		c.pubClose()
	}
	c.pubJS, c.pubClose = nil, nil
}

// Probe verifies NATS connectivity and returns a ProbeResult. A missing stream
// is not treated as a failure; NATS being reachable is what matters here.
func (c *NATSClient) Probe(ctx context.Context) orchestrator.ProbeResult {
	start := time.Now()

	_, err := c.cb.Execute(func() (any, error) {
		js, cleanup, err := c.newJS(c.url)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}
		defer cleanup()

		_, infoErr := js.StreamInfo(requiredStreams[0].name, nats.Context(ctx))
		if infoErr != nil && !errors.Is(infoErr, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("stream info: %w", infoErr)
		}
		return nil, nil
	})

	return probeResult(natsProbeNameConst, start, err)
}

// provisionStream creates the stream if it does not exist, or updates it if it
// does. nats.ErrStreamNotFound signals "create"; any other error is returned.
func provisionStream(ctx context.Context, js jsContext, spec streamSpec) error {
	cfg := &nats.StreamConfig{
		Name:      spec.name,
		Subjects:  spec.subjects,
		Retention: spec.retention,
		MaxAge:    spec.maxAge,
	}

	_, err := js.StreamInfo(spec.name, nats.Context(ctx))
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		if _, addErr := js.AddStream(cfg, nats.Context(ctx)); addErr != nil {
			return fmt.Errorf("creating stream %s: %w", spec.name, addErr)
		}
	case err != nil:
		return fmt.Errorf("querying stream %s: %w", spec.name, err)
	default:
		if _, updErr := js.UpdateStream(cfg, nats.Context(ctx)); updErr != nil {
			return fmt.Errorf("updating stream %s: %w", spec.name, updErr)
		}
	}
	return nil
}

// realNewJS opens a real NATS connection and returns a JetStreamContext plus a
// cleanup function that closes the connection.
func realNewJS(url string) (jsContext, func(), error) {
	nc, err := nats.Connect(url, nats.Name("arc-seeder"))
	if err != nil {
		return nil, func() {}, fmt.Errorf("nats connect %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, func() {}, fmt.Errorf("nats jetstream context: %w", err)
	}

	return js, func() { nc.Close() }, nil
}
