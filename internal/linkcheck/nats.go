package linkcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	DefaultSubject  = "docsite.links.broken"
	DefaultStream   = "DOCSITE_LINKS"
	DefaultKVBucket = "docsite_link_cache"
)

// NATSConfig configures the JetStream publisher and link cache.
type NATSConfig struct {
	URL      string
	Subject  string
	Stream   string
	KVBucket string
	// NoCache disables the KV bucket.
	NoCache bool
}

func (c *NATSConfig) applyDefaults() {
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.Stream == "" {
		c.Stream = DefaultStream
	}
	if c.KVBucket == "" {
		c.KVBucket = DefaultKVBucket
	}
}

// NATSClient publishes broken link events to JetStream and keeps per-URL
// results in a KV bucket. It implements Publisher and Cache.
type NATSClient struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
}

// NewNATSClient connects to cfg.URL and ensures the stream and bucket exist.
func NewNATSClient(ctx context.Context, cfg NATSConfig) (*NATSClient, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url is required")
	}
	cfg.applyDefaults()

	conn, err := nats.Connect(cfg.URL, nats.Name("docsite-linkcheck"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "Broken link events from docsite",
		Subjects:    []string{cfg.Subject},
		MaxAge:      7 * 24 * time.Hour,
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
	}

	client := &NATSClient{conn: conn, js: js, subject: cfg.Subject}
	if !cfg.NoCache {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      cfg.KVBucket,
			Description: "Link check cache for docsite",
			MaxBytes:    16 * 1024 * 1024,
			History:     1,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
		}
		client.kv = kv
	}

	slog.Info("NATS client initialized for link checks",
		slog.String("url", cfg.URL),
		slog.String("subject", cfg.Subject),
		slog.String("kv_bucket", cfg.KVBucket))
	return client, nil
}

// PublishBrokenLink publishes event to the configured subject.
func (c *NATSClient) PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := c.js.Publish(ctx, c.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// GetCachedResult returns nil without error when url has no entry.
func (c *NATSClient) GetCachedResult(ctx context.Context, url string) (*CacheEntry, error) {
	if c.kv == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	entry, err := c.kv.Get(ctx, cacheKey(url))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	var cached CacheEntry
	if err := json.Unmarshal(entry.Value(), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &cached, nil
}

// SetCachedResult stores entry under its URL.
func (c *NATSClient) SetCachedResult(ctx context.Context, entry *CacheEntry) error {
	if c.kv == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := c.kv.Put(ctx, cacheKey(entry.URL), data); err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}

// cacheKey maps a URL onto the KV key alphabet.
func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "url." + hex.EncodeToString(sum[:])
}
