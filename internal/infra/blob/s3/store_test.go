package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"zooapi/internal/blob/core"
)

func TestS3PutGetHeadRoundTrip(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	s := newMockStore(rt)
	ctx := context.Background()
	if s.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	payload := []byte("{\n  \"animals\": []\n}")
	info, err := s.Put(ctx, "zoo/animals.json", bytes.NewReader(payload), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) || info.ETag != "etag123" {
		t.Fatalf("unexpected info %+v", info)
	}
	got, rc, err := s.Get(ctx, "zoo/animals.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if !bytes.Equal(body, payload) {
		t.Fatalf("unexpected body %q", body)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", got.ContentType)
	}
}

func TestS3PutOverwrites(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	s := newMockStore(rt)
	ctx := context.Background()
	for _, v := range []string{"first", "second"} {
		if _, err := s.Put(ctx, "k", strings.NewReader(v), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", v, err)
		}
	}
	if got := string(rt.state["k"].body); got != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	if !strings.Contains(rt.String(), "2 puts") {
		t.Fatalf("unexpected mock state %s", rt)
	}
}

func TestS3MissingKeyMapsToNotFound(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()
	if _, _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
	if _, err := s.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Head, got %v", err)
	}
}

type failingRoundTripper struct{}

func (failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return respond(http.StatusForbidden, []byte("<Error><Code>AccessDenied</Code></Error>"), http.Header{}), nil
}

func TestS3ServerErrorIsNotNotFound(t *testing.T) {
	s := newMockStore(failingRoundTripper{})
	_, _, err := s.Get(context.Background(), "k")
	if err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected non not-found error, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{Bucket: "zoo", Endpoint: "http://localhost:9000", AccessKeyID: "id", SecretAccessKey: "secret", PathStyle: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.bucket != "zoo" {
		t.Fatalf("unexpected bucket %s", s.bucket)
	}
}

func TestDecodeChunked(t *testing.T) {
	body, ok := decodeChunked([]byte("5\r\nhello\r\n0\r\nx-amz-checksum-crc32:abc\r\n\r\n"))
	if !ok || string(body) != "hello" {
		t.Fatalf("unexpected decode %q %v", body, ok)
	}
	if _, ok := decodeChunked([]byte("plain body")); ok {
		t.Fatalf("expected plain body to be left alone")
	}
}
