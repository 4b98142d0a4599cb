package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type stubAssetStore struct {
	objects map[string][]byte
	putErr  error
	delErr  error
	deleted []string
}

func newStubAssetStore() *stubAssetStore {
	return &stubAssetStore{objects: map[string][]byte{}}
}

func (s *stubAssetStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *stubAssetStore) Delete(_ context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type stubURLSigner struct {
	err error
}

func (s *stubURLSigner) SignedDownloadURL(_ context.Context, key string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "https://signed.example.com/" + key, time.Now().Add(15 * time.Minute), nil
}

func newAssetFixture(t *testing.T, store *stubAssetStore) AssetService {
	t.Helper()

	svc, err := NewAssetService(AssetServiceDeps{
		Store:    store,
		Signer:   &stubURLSigner{},
		MaxBytes: 64,
	})
	if err != nil {
		t.Fatalf("NewAssetService: %v", err)
	}
	return svc
}

func upload(name, body string) FileUpload {
	return FileUpload{
		FileName:    name,
		ContentType: "application/octet-stream",
		Size:        int64(len(body)),
		Content:     bytes.NewReader([]byte(body)),
	}
}

func TestAssetServiceStoreImage(t *testing.T) {
	store := newStubAssetStore()
	svc := newAssetFixture(t, store)

	key, err := svc.StoreImage(context.Background(), "bases", upload("Wolf Base.PNG", "fake-png"))
	if err != nil {
		t.Fatalf("StoreImage: %v", err)
	}
	if !strings.HasPrefix(key, "bases/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("key = %q", key)
	}
	if _, ok := store.objects[key]; !ok {
		t.Fatalf("object %q not stored", key)
	}
}

func TestAssetServiceRejectsUnsupportedType(t *testing.T) {
	svc := newAssetFixture(t, newStubAssetStore())

	if _, err := svc.StoreImage(context.Background(), "bases", upload("virus.exe", "nope")); !errors.Is(err, ErrAssetInvalidUpload) {
		t.Fatalf("exe = %v, want ErrAssetInvalidUpload", err)
	}
	// Layered source files are only accepted for base uploads.
	if _, err := svc.StoreImage(context.Background(), "bases", upload("art.psd", "layers")); !errors.Is(err, ErrAssetInvalidUpload) {
		t.Fatalf("psd image = %v, want ErrAssetInvalidUpload", err)
	}
	if _, err := svc.StoreBaseFile(context.Background(), "bases", upload("art.psd", "layers")); err != nil {
		t.Fatalf("psd base file: %v", err)
	}
}

func TestAssetServiceRejectsOversizedUpload(t *testing.T) {
	svc := newAssetFixture(t, newStubAssetStore())

	big := strings.Repeat("x", 65)
	if _, err := svc.StoreImage(context.Background(), "bases", upload("big.png", big)); !errors.Is(err, ErrAssetInvalidUpload) {
		t.Fatalf("oversized = %v, want ErrAssetInvalidUpload", err)
	}
	if _, err := svc.StoreImage(context.Background(), "bases", upload("empty.png", "")); !errors.Is(err, ErrAssetInvalidUpload) {
		t.Fatalf("empty = %v, want ErrAssetInvalidUpload", err)
	}
}

func TestAssetServiceResolveURL(t *testing.T) {
	svc := newAssetFixture(t, newStubAssetStore())

	url, err := svc.ResolveURL(context.Background(), "bases/key.png")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if url != "https://signed.example.com/bases/key.png" {
		t.Fatalf("url = %q", url)
	}

	// A record with no stored file resolves to no URL.
	url, err = svc.ResolveURL(context.Background(), "")
	if err != nil || url != "" {
		t.Fatalf("empty key = %q, %v", url, err)
	}
}

func TestAssetServiceRemoveSwallowsFailures(t *testing.T) {
	store := newStubAssetStore()
	store.delErr = errors.New("bucket down")
	svc := newAssetFixture(t, store)

	// Must not panic or surface the error.
	svc.Remove(context.Background(), "bases/key.png")
	svc.Remove(context.Background(), "")
}
