package s3

import (
	"bytes"
	"context"
	"testing"
)

func TestUploadMultipartSplitsParts(t *testing.T) {
	fake := newFakeAPI()
	client := newTestClient(fake)
	payload := patternBytes(1000)
	path := writeTestFile(t, "archive.tar.gz", payload)

	opts := TransferOptions{PartSizeBytes: 300, Concurrency: 4}
	err := client.uploadMultipart(context.Background(), "weekly-archive-a.tar.gz", path, "application/gzip", int64(len(payload)), opts)
	if err != nil {
		t.Fatalf("uploadMultipart: %v", err)
	}
	if fake.partCalls != 4 {
		t.Errorf("partCalls = %d, want 4 (300+300+300+100)", fake.partCalls)
	}
	if fake.completeCalls != 1 {
		t.Errorf("completeCalls = %d, want 1", fake.completeCalls)
	}
	if fake.abortCalls != 0 {
		t.Errorf("abortCalls = %d, want 0", fake.abortCalls)
	}
	got := fake.objects["weekly-archive-a.tar.gz"]
	if int64(len(got)) != int64(len(payload)) {
		t.Fatalf("remote length = %d, want %d", len(got), len(payload))
	}
	if !bytes.Equal(got, payload) {
		t.Error("assembled bytes differ from local file")
	}
}

func TestUploadMultipartAbortsOnPartFailure(t *testing.T) {
	fake := newFakeAPI()
	fake.failPart = 2
	client := newTestClient(fake)
	payload := patternBytes(1000)
	path := writeTestFile(t, "archive.tar.gz", payload)

	opts := TransferOptions{PartSizeBytes: 300, Concurrency: 1}
	err := client.uploadMultipart(context.Background(), "weekly-archive-b.tar.gz", path, "", int64(len(payload)), opts)
	if err == nil {
		t.Fatal("uploadMultipart: expected error when a part fails")
	}
	if fake.abortCalls != 1 {
		t.Errorf("abortCalls = %d, want 1", fake.abortCalls)
	}
	if fake.completeCalls != 0 {
		t.Errorf("completeCalls = %d, want 0", fake.completeCalls)
	}
	if _, ok := fake.objects["weekly-archive-b.tar.gz"]; ok {
		t.Error("failed upload left an assembled object behind")
	}
	if len(fake.uploads) != 0 {
		t.Error("failed upload left an open multipart session behind")
	}
}

// A transient part failure fails the whole upload; retrying the upload from
// scratch must still produce a remote object of exactly the local length.
func TestUploadMultipartRetryAfterTransientFailure(t *testing.T) {
	fake := newFakeAPI()
	fake.failPart = 2
	fake.failPartOnce = true
	client := newTestClient(fake)
	payload := patternBytes(1000)
	path := writeTestFile(t, "archive.tar.gz", payload)

	opts := TransferOptions{PartSizeBytes: 300, Concurrency: 1}
	err := client.uploadMultipart(context.Background(), "weekly-archive-c.tar.gz", path, "", int64(len(payload)), opts)
	if err == nil {
		t.Fatal("first attempt should fail")
	}
	if fake.abortCalls != 1 {
		t.Fatalf("abortCalls = %d, want 1 after failed attempt", fake.abortCalls)
	}

	err = client.uploadMultipart(context.Background(), "weekly-archive-c.tar.gz", path, "", int64(len(payload)), opts)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	got := fake.objects["weekly-archive-c.tar.gz"]
	if int64(len(got)) != int64(len(payload)) {
		t.Fatalf("remote length = %d, want %d", len(got), len(payload))
	}
	if !bytes.Equal(got, payload) {
		t.Error("assembled bytes differ from local file")
	}
}

func TestUploadMultipartCanceledContext(t *testing.T) {
	fake := newFakeAPI()
	client := newTestClient(fake)
	payload := patternBytes(1000)
	path := writeTestFile(t, "archive.tar.gz", payload)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := TransferOptions{PartSizeBytes: 300, Concurrency: 2}
	err := client.uploadMultipart(ctx, "weekly-archive-d.tar.gz", path, "", int64(len(payload)), opts)
	if err == nil {
		t.Fatal("uploadMultipart: expected error for canceled context")
	}
	if fake.completeCalls != 0 {
		t.Errorf("completeCalls = %d, want 0", fake.completeCalls)
	}
}
