package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	for _, drv := range []Driver{"", DriverMemory} {
		s, err := Open(ctx, Config{Driver: drv})
		if err != nil {
			t.Fatalf("open %q: %v", drv, err)
		}
		if s.Driver() != DriverMemory {
			t.Fatalf("expected memory driver for %q, got %s", drv, s.Driver())
		}
	}
	if _, err := Open(ctx, Config{Driver: "tape"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error for s3 driver")
	}
	s, err := Open(ctx, Config{Driver: DriverS3, S3: S3Config{Bucket: "zoo", Endpoint: "http://localhost:9000", PathStyle: true}})
	if err != nil {
		t.Fatalf("open s3: %v", err)
	}
	if s.Driver() != DriverS3 {
		t.Fatalf("expected s3 driver, got %s", s.Driver())
	}
}

// Both drivers must agree on overwrite and not-found semantics.
func TestDriversShareContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]Store{"memory": NewMemory(), "s3-mock": NewMockS3ForTests()} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Head(ctx, "animals.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			for _, v := range []string{"one", "two"} {
				if _, err := s.Put(ctx, "animals.json", bytes.NewReader([]byte(v)), PutOptions{ContentType: "application/json"}); err != nil {
					t.Fatalf("put: %v", err)
				}
			}
			_, rc, err := s.Get(ctx, "animals.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer func() { _ = rc.Close() }()
			body, _ := io.ReadAll(rc)
			if string(body) != "two" {
				t.Fatalf("expected latest content, got %q", body)
			}
		})
	}
}
