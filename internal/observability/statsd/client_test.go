package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestTrimPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  codevox  ":  "codevox",
		"..codevox..":  "codevox",
		"codevox.jobs": "codevox.jobs",
		".":            "",
		"":             "",
	}

	for input, want := range tests {
		if got := trimPrefix(input); got != want {
			t.Fatalf("trimPrefix(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" jobs/lifecycle ": "jobs_lifecycle",
		"jobs..lifecycle":  "jobs.lifecycle",
		"queue depth":      "queue_depth",
		"api/jobs/approve": "api_jobs_approve",
		".jobs.lifecycle.": "jobs.lifecycle",
	}

	for input, want := range tests {
		if got := cleanName(input); got != want {
			t.Fatalf("cleanName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTagSuffix(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env": "prod",
		// Intentionally padded key/value to ensure trimming logic works.
		//nolint:gocritic // whitespace is part of the test case
		" service ": " codevox ",
	}
	local := map[string]string{
		"status": " pr_opened ",
		"":       "ignored",
		"env":    "stage",
	}

	got := tagSuffix(global, local)
	want := "|#env:stage,service:codevox,status:pr_opened"

	if got != want {
		t.Fatalf("tagSuffix mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestTagSuffixEmpty(t *testing.T) {
	t.Parallel()

	if got := tagSuffix(nil, nil); got != "" {
		t.Fatalf("tagSuffix(nil, nil) = %q, want empty string", got)
	}
}

func TestCopyTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"env": "prod",
		"":    "ignored",
	}

	copied := copyTags(original)
	if copied == nil {
		t.Fatal("copyTags returned nil map")
	}

	copied["env"] = "stage"
	if original["env"] != "prod" {
		t.Fatal("copyTags did not copy values")
	}

	if _, ok := copied[""]; ok {
		t.Fatal("copyTags kept empty key")
	}
}

func TestClientEmitsDatagram(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "codevox",
		GlobalTags: map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	client.Count("jobs.lifecycle", 1, map[string]string{
		"status": "auto_merged",
		"result": "success",
	})

	if err := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read datagram: %v", err)
	}

	got := string(buf[:n])
	want := "codevox.jobs.lifecycle:1|c|#env:test,result:success,status:auto_merged"
	if got != want {
		t.Fatalf("datagram mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{
		enabled: true,
		conn:    clientConn,
	}

	if !client.Enabled() {
		t.Fatal("expected client.Enabled to report true with active connection")
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client.Enabled to report false after Close")
	}

	// Verify Close can be called again without error.
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{
		Enabled: true,
		Address: "   ",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{
		Enabled: true,
		Address: "bad address",
	})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
