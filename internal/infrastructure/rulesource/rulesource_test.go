package rulesource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/system"
)

func TestNew_SelectsSource(t *testing.T) {
	ctx := context.Background()

	src, err := New(ctx, system.RulesConfig{Source: "embedded"})
	require.NoError(t, err)
	assert.Equal(t, "embedded", src.Describe())
	data, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "diet_types")

	src, err = New(ctx, system.RulesConfig{Source: "file:///etc/mealguard/rules.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "file:///etc/mealguard/rules.yaml", src.Describe())

	src, err = New(ctx, system.RulesConfig{Source: "s3://kitchen/rules/current.yaml", S3: system.S3Config{AccessKeyID: "a", SecretAccessKey: "b"}})
	require.NoError(t, err)
	assert.Equal(t, "s3://kitchen/rules/current.yaml", src.Describe())
	_, watchable := src.(ports.WatchableRuleSetSource)
	assert.True(t, watchable)

	_, err = New(ctx, system.RulesConfig{Source: "s3://bucket-only"})
	assert.Error(t, err)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://rules/prod/v1.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rules", bucket)
	assert.Equal(t, "prod/v1.yaml", key)

	for _, bad := range []string{"s3://", "s3:///key", "http://bucket/key"} {
		_, _, err := ParseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestFileSource_FetchAndWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0.0\"\n"), 0o600))

	src := NewFileSource(path)
	src.debounce = 20 * time.Millisecond

	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "version: \"1.0.0\"\n", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func() { changes.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.1.0\"\n"), 0o600))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// fakeS3 serves one object over path-style URLs.
type fakeS3 struct {
	mu   sync.Mutex
	body []byte
	etag string
}

func (f *fakeS3) set(body string, etag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = []byte(body)
	f.etag = etag
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.URL.Path != "/kitchen/rules.yaml" {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Body:       io.NopCloser(strings.NewReader("<Error><Code>NoSuchKey</Code></Error>")),
			Request:    req,
		}, nil
	}
	header := http.Header{
		"Content-Length": {fmt.Sprintf("%d", len(f.body))},
		"Content-Type":   {"application/yaml"},
		"ETag":           {`"` + f.etag + `"`},
	}
	body := io.NopCloser(bytes.NewReader(nil))
	if req.Method == http.MethodGet {
		body = io.NopCloser(bytes.NewReader(f.body))
	}
	return &http.Response{StatusCode: http.StatusOK, Header: header, Body: body, Request: req}, nil
}

func newFakeS3Source(t *testing.T, fake *fakeS3, key string) *S3Source {
	t.Helper()
	src, err := NewS3Source(context.Background(), S3Options{
		Bucket:          "kitchen",
		Key:             key,
		Endpoint:        "https://s3.test.local",
		UsePathStyle:    true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PollInterval:    10 * time.Millisecond,
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return src
}

func TestS3Source_Fetch(t *testing.T) {
	fake := &fakeS3{}
	fake.set("version: \"2.0.0\"\n", "v1")

	data, err := newFakeS3Source(t, fake, "rules.yaml").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "version: \"2.0.0\"\n", string(data))

	_, err = newFakeS3Source(t, fake, "missing.yaml").Fetch(context.Background())
	assert.Error(t, err)
}

func TestS3Source_WatchPollsETag(t *testing.T) {
	fake := &fakeS3{}
	fake.set("a", "v1")
	src := newFakeS3Source(t, fake, "rules.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	go func() { _ = src.Watch(ctx, func() { changes.Add(1) }) }()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, changes.Load(), "unchanged etag does not trigger")

	fake.set("b", "v2")
	require.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
}
