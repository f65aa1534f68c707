// Package statsd emits job pipeline metrics over the StatsD UDP line
// protocol with DogStatsD-style tags.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink describes the minimal interface the services need to emit
// StatsD-style metrics. A nil or disabled sink drops everything.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Config describes how to connect to a StatsD-compatible sink.
type Config struct {
	Enabled    bool
	Address    string
	Prefix     string
	Logger     *slog.Logger
	GlobalTags map[string]string
}

// Client emits metrics over UDP using the StatsD line protocol.
// It is safe for concurrent use.
type Client struct {
	enabled    bool
	address    string
	prefix     string
	globalTags map[string]string

	logger *slog.Logger
	conn   net.Conn
	mu     sync.Mutex
}

var _ Sink = (*Client)(nil)

// NewClient dials the configured StatsD endpoint unless disabled.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	address := strings.TrimSpace(cfg.Address)
	enabled := cfg.Enabled && address != ""

	client := &Client{
		enabled:    enabled,
		address:    address,
		prefix:     trimPrefix(cfg.Prefix),
		globalTags: copyTags(cfg.GlobalTags),
		logger:     logger,
	}

	if !enabled {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}
	client.conn = conn

	return client, nil
}

// Enabled reports whether the client actively emits metrics.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && c.conn != nil
}

// Count increments a counter metric.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	if c == nil {
		return
	}
	c.emit(name, strconv.FormatInt(value, 10)+"|c", tags)
}

// Gauge records the current value for a gauge metric.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	if c == nil {
		return
	}
	c.emit(name, floatString(value)+"|g", tags)
}

// Timing records a timing metric using milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	if c == nil {
		return
	}
	ms := float64(value) / float64(time.Millisecond)
	c.emit(name, floatString(ms)+"|ms", tags)
}

// Close releases the underlying UDP connection if one was established.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		c.enabled = false
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.enabled = false
	return err
}

// emit builds the wire line and writes it as a single datagram. Send
// failures are logged at debug level; metrics are best-effort and must
// never disturb the job pipeline.
func (c *Client) emit(name, payload string, tags map[string]string) {
	if c == nil {
		return
	}

	metric := c.qualify(name)
	if metric == "" {
		return
	}

	line := metric + ":" + payload + tagSuffix(c.globalTags, tags)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || c.conn == nil {
		return
	}

	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "error", err)
	}
}

// qualify joins the configured prefix and the cleaned metric name.
func (c *Client) qualify(name string) string {
	if name == "" {
		return ""
	}
	cleaned := cleanName(name)
	if c.prefix == "" {
		return cleaned
	}
	if cleaned == "" {
		return c.prefix
	}
	return c.prefix + "." + cleaned
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), ".")
}

// cleanName rewrites a metric name into dotted StatsD form: spaces and
// slashes become underscores, repeated and edge dots are dropped.
func cleanName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	n = strings.ReplaceAll(n, " ", "_")
	n = strings.ReplaceAll(n, "/", "_")
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}

// tagSuffix renders the merged global and per-call tags as a DogStatsD
// "|#k:v,k:v" suffix. Local tags override global ones; keys are sorted
// so the output is stable for tests and for datagram dedup upstream.
func tagSuffix(global, local map[string]string) string {
	if len(global)+len(local) == 0 {
		return ""
	}

	merged := make(map[string]string, len(global)+len(local))
	for k, v := range global {
		if key := strings.TrimSpace(k); key != "" {
			merged[key] = strings.TrimSpace(v)
		}
	}
	for k, v := range local {
		if key := strings.TrimSpace(k); key != "" {
			merged[key] = strings.TrimSpace(v)
		}
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("|#")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return b.String()
}

func copyTags(tags map[string]string) map[string]string {
	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		cp[key] = strings.TrimSpace(v)
	}
	return cp
}

func floatString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
