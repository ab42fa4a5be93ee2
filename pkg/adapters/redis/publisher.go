package redis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/cascade/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Publisher appends transition events to a Redis stream so that external
// presentation layers can follow cascades. It never reads entity state back.
type Publisher struct {
	client  *backend.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithStream sets the stream key (default "cascade:events").
func WithStream(stream string) Option {
	return func(p *Publisher) {
		p.stream = stream
	}
}

// WithMaxLen trims the stream to at most n entries on every append. 0 keeps everything.
func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		p.maxLen = n
	}
}

// WithTimeout bounds each append issued from the engine hooks.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithLogger sets the logger used to report failed appends.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		stream:  "cascade:events",
		maxLen:  10000,
		timeout: 2 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stream returns the stream key events are appended to.
func (p *Publisher) Stream() string {
	return p.stream
}

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish appends one transition event and returns the stream entry ID.
func (p *Publisher) Publish(ctx context.Context, e *domain.TransitionEvent) (string, error) {
	rule := ""
	if e.Rule != nil {
		rule = e.Rule.String()
	}

	args := &backend.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Values: map[string]any{
			"ts":         e.Timestamp.UTC().Format(time.RFC3339Nano),
			"cascade_id": e.CascadeID,
			"entity":     e.Entity,
			"from":       string(e.From),
			"to":         string(e.To),
			"depth":      e.Depth,
			"rule":       rule,
		},
	}
	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %s: %w", p.stream, err)
	}
	return id, nil
}

// Hooks returns lifecycle hooks that publish every transition.
// Failures are logged and never interrupt the cascade.
func (p *Publisher) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			defer cancel()
			if _, err := p.Publish(ctx, e); err != nil {
				p.logger.Warn("transition not published",
					"cascade_id", e.CascadeID,
					"entity", e.Entity,
					"err", err,
				)
			}
		},
	}
}

// Record is a transition event as read back from the stream.
type Record struct {
	ID        string
	Timestamp time.Time
	CascadeID string
	Entity    string
	From      domain.Status
	To        domain.Status
	Depth     int
	Rule      string
}

// Read returns up to count records with IDs >= start ("-" for the beginning).
func (p *Publisher) Read(ctx context.Context, start string, count int64) ([]Record, error) {
	msgs, err := p.client.XRangeN(ctx, p.stream, start, "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %s: %w", p.stream, err)
	}

	records := make([]Record, 0, len(msgs))
	for _, msg := range msgs {
		rec, err := decode(msg)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decode(msg backend.XMessage) (Record, error) {
	str := func(key string) string {
		v, _ := msg.Values[key].(string)
		return v
	}

	rec := Record{
		ID:        msg.ID,
		CascadeID: str("cascade_id"),
		Entity:    str("entity"),
		From:      domain.Status(str("from")),
		To:        domain.Status(str("to")),
		Rule:      str("rule"),
	}
	if ts := str("ts"); ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Record{}, fmt.Errorf("entry %s: bad timestamp: %w", msg.ID, err)
		}
		rec.Timestamp = parsed
	}
	if d := str("depth"); d != "" {
		depth, err := strconv.Atoi(d)
		if err != nil {
			return Record{}, fmt.Errorf("entry %s: bad depth: %w", msg.ID, err)
		}
		rec.Depth = depth
	}
	return rec, nil
}
