package cache

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCoordinatorWriteAndRead(t *testing.T) {
	c := newTestCoordinator(t, Options{MetadataMemoEntries: 16})
	key := NewKey("http://api.example/", "v1", "shop_1")

	header := http.Header{}
	header.Set("ETag", `"v1-etag"`)
	header.Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
	if err := c.Write(key, Entry{Body: []byte("payload"), Header: header, Schema: 3, Codec: "msgpack"}); err != nil {
		t.Fatalf("write error: %v", err)
	}

	body, err := c.ReadBody(key, 3, "msgpack")
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("cached payload mismatch: %s", string(body))
	}

	meta, err := c.ReadMetadata(key)
	if err != nil {
		t.Fatalf("read metadata error: %v", err)
	}
	if meta.ETag != `"v1-etag"` || meta.LastModified != "Wed, 21 Oct 2015 07:28:00 GMT" {
		t.Fatalf("metadata mismatch: %+v", meta)
	}
	if meta.SchemaVersion != 3 || meta.Codec != "msgpack" || meta.StoredAt.IsZero() {
		t.Fatalf("metadata tags mismatch: %+v", meta)
	}
	if got := c.Validator(key, 3, "msgpack"); got != `"v1-etag"` {
		t.Fatalf("validator mismatch: %q", got)
	}
}

func TestCoordinatorLayout(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "shop_4_merchandise_list")
	if err := c.Write(key, Entry{Body: []byte("x"), Schema: 1, Codec: "json"}); err != nil {
		t.Fatalf("write error: %v", err)
	}

	dir := filepath.Join(c.Root(), "aHR0cDovL2FwaS5leGFtcGxl", "v1")
	for _, name := range []string{"shop_4_merchandise_list.bin", "shop_4_merchandise_list_metadata.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s in %s: %v", name, dir, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir error: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".cache-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestDistinctOriginsNeverShareDirectory(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	a := NewKey("http://a.example", "v1", "shop_1")
	b := NewKey("http://a.example.evil", "v1", "shop_1")

	if a.dir(c.Root()) == b.dir(c.Root()) {
		t.Fatalf("origins collided: %s", a.dir(c.Root()))
	}
	if err := c.Write(a, Entry{Body: []byte("good"), Schema: 1, Codec: "json"}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := c.ReadBody(b, 1, "json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other origin, got %v", err)
	}
	if NewKey("http://a.example/", "v1", "x").String() != NewKey("http://a.example", "v1", "x").String() {
		t.Fatalf("trailing slash should not change key")
	}
}

func TestCoordinatorReadMissing(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "missing")

	if _, err := c.ReadBody(key, 1, "json"); !errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected plain ErrNotFound, got %v", err)
	}
	if _, err := c.ReadMetadata(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound metadata, got %v", err)
	}
	if got := c.Validator(key, 1, "json"); got != "" {
		t.Fatalf("expected empty validator, got %q", got)
	}
}

func TestCoordinatorSchemaMismatchIsCorrupt(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "shop_1")
	header := http.Header{"Etag": []string{`"old"`}}
	if err := c.Write(key, Entry{Body: []byte("old-layout"), Header: header, Schema: 1, Codec: "msgpack"}); err != nil {
		t.Fatalf("write error: %v", err)
	}

	for _, tc := range []struct {
		schema uint16
		codec  string
	}{{2, "msgpack"}, {1, "cbor"}} {
		_, err := c.ReadBody(key, tc.schema, tc.codec)
		if !errors.Is(err, ErrCorrupt) || !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrCorrupt for %+v, got %v", tc, err)
		}
		if got := c.Validator(key, tc.schema, tc.codec); got != "" {
			t.Fatalf("stale metadata produced validator %q", got)
		}
	}
}

func TestCoordinatorCorruptFiles(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "shop_1")
	if err := c.EnsureDir(key); err != nil {
		t.Fatalf("ensure dir error: %v", err)
	}
	if err := os.WriteFile(key.bodyPath(c.Root()), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("seed body error: %v", err)
	}
	if err := os.WriteFile(key.metadataPath(c.Root()), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed metadata error: %v", err)
	}

	if _, err := c.ReadBody(key, 1, "json"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt body, got %v", err)
	}
	if _, err := c.ReadMetadata(key); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt metadata, got %v", err)
	}
}

func TestCoordinatorIgnoresDirectories(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "shop_1")
	if err := os.MkdirAll(key.bodyPath(c.Root()), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if _, err := c.ReadBody(key, 1, "json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for directory, got %v", err)
	}
}

func TestMetadataMemoConsultedBeforeDisk(t *testing.T) {
	c := newTestCoordinator(t, Options{MetadataMemoEntries: 16})
	key := NewKey("http://api.example", "v1", "owner_1")
	header := http.Header{"Etag": []string{`"memo"`}}
	if err := c.Write(key, Entry{Body: []byte("x"), Header: header, Schema: 1, Codec: "json"}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := os.Remove(key.metadataPath(c.Root())); err != nil {
		t.Fatalf("remove metadata error: %v", err)
	}

	meta, err := c.ReadMetadata(key)
	if err != nil {
		t.Fatalf("expected memo hit, got %v", err)
	}
	if meta.ETag != `"memo"` {
		t.Fatalf("memo etag mismatch: %q", meta.ETag)
	}

	plain := newTestCoordinator(t, Options{})
	if err := plain.Write(key, Entry{Body: []byte("x"), Header: header, Schema: 1, Codec: "json"}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := os.Remove(key.metadataPath(plain.Root())); err != nil {
		t.Fatalf("remove metadata error: %v", err)
	}
	if _, err := plain.ReadMetadata(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected disk miss without memo, got %v", err)
	}
}

func TestPersistAsyncVisibleAfterFlush(t *testing.T) {
	c := newTestCoordinator(t, Options{Async: true})
	keys := []Key{
		NewKey("http://api.example", "v1", "merchandise_list_1"),
		NewKey("http://api.example", "v1", "shop_1_merchandise_list"),
	}
	for _, key := range keys {
		c.Persist(key, Entry{Body: []byte("list"), Schema: 2, Codec: "cbor"})
	}
	c.Flush()

	for _, key := range keys {
		body, err := c.ReadBody(key, 2, "cbor")
		if err != nil {
			t.Fatalf("read %s error: %v", key, err)
		}
		if string(body) != "list" {
			t.Fatalf("payload mismatch for %s: %s", key, body)
		}
	}
}

func TestPersistSwallowsWriteFailure(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	key := NewKey("http://api.example", "v1", "shop_1")
	blocker := filepath.Join(c.Root(), key.encodedOrigin())
	if err := os.WriteFile(blocker, []byte("file in the way"), 0o644); err != nil {
		t.Fatalf("seed blocker error: %v", err)
	}

	c.Persist(key, Entry{Body: []byte("x"), Schema: 1, Codec: "json"})

	if _, err := c.ReadBody(key, 1, "json"); err == nil {
		t.Fatalf("expected read failure after failed persist")
	}
}

func TestKeyValidation(t *testing.T) {
	cases := []Key{
		NewKey("", "v1", "shop_1"),
		NewKey("http://api.example", "", "shop_1"),
		NewKey("http://api.example", "v1", ""),
		NewKey("http://api.example", "..", "shop_1"),
		NewKey("http://api.example", "v1", "../escape"),
		NewKey("http://api.example", "v1", `a\b`),
	}
	for _, key := range cases {
		if err := key.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", key)
		}
	}
	c := newTestCoordinator(t, Options{})
	if err := c.Write(NewKey("http://api.example", "v1", "../x"), Entry{Body: []byte("x"), Schema: 1, Codec: "json"}); err == nil {
		t.Fatalf("expected write to reject unsafe name")
	}
}

func TestFrameRejectsTruncation(t *testing.T) {
	framed, err := encodeFrame(7, "msgpack", []byte("hello"))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	schema, codecName, payload, err := decodeFrame(framed)
	if err != nil || schema != 7 || codecName != "msgpack" || string(payload) != "hello" {
		t.Fatalf("decode mismatch: %d %s %s %v", schema, codecName, payload, err)
	}
	for i := 0; i < len(framed); i++ {
		if _, _, _, err := decodeFrame(framed[:i]); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("truncated frame at %d accepted", i)
		}
	}
	if _, err := encodeFrame(1, "", nil); err == nil {
		t.Fatalf("expected empty codec name to be rejected")
	}
}

func TestMetadataStoredAtUsesClock(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	key := NewKey("http://api.example", "v1", "shops")
	if err := c.Write(key, Entry{Body: []byte("[]"), Schema: 1, Codec: "json"}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	meta, err := c.ReadMetadata(key)
	if err != nil {
		t.Fatalf("read metadata error: %v", err)
	}
	if !meta.StoredAt.Equal(fixed) {
		t.Fatalf("stored_at mismatch: %v", meta.StoredAt)
	}
}

// newTestCoordinator returns a Coordinator backed by a temporary directory.
func newTestCoordinator(t *testing.T, opts Options) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("failed to create coordinator: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}
