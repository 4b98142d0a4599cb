package storage

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"
)

func testSignerJSON(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	payload, err := json.Marshal(map[string]string{
		"client_email": "signer@example.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
	})
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	return payload, key
}

func TestServiceAccountSignerSignBytes(t *testing.T) {
	payload, key := testSignerJSON(t)

	signer, err := NewServiceAccountSignerFromJSON(payload)
	if err != nil {
		t.Fatalf("NewServiceAccountSignerFromJSON: %v", err)
	}
	if signer.Email() != "signer@example.iam.gserviceaccount.com" {
		t.Fatalf("email = %q", signer.Email())
	}

	message := []byte("sign me")
	sig, err := signer.SignBytes(context.Background(), message)
	if err != nil {
		t.Fatalf("SignBytes: %v", err)
	}

	digest := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("verify signature: %v", err)
	}

	if _, err := signer.SignBytes(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestSignedDownloadURL(t *testing.T) {
	payload, _ := testSignerJSON(t)
	signer, err := NewServiceAccountSignerFromJSON(payload)
	if err != nil {
		t.Fatalf("NewServiceAccountSignerFromJSON: %v", err)
	}

	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	client, err := NewClient(signer, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	result, err := client.SignedDownloadURL(context.Background(), "lancer-assets", "bases/01ARZ3NDEKTSV4RRFFQ69G5FAV.png", DownloadOptions{
		ExpiresIn: 10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("SignedDownloadURL: %v", err)
	}
	if !strings.Contains(result.URL, "lancer-assets") {
		t.Fatalf("url missing bucket: %s", result.URL)
	}
	if !result.ExpiresAt.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("expiresAt = %v", result.ExpiresAt)
	}
}

func TestSignedDownloadURLValidation(t *testing.T) {
	payload, _ := testSignerJSON(t)
	signer, err := NewServiceAccountSignerFromJSON(payload)
	if err != nil {
		t.Fatalf("NewServiceAccountSignerFromJSON: %v", err)
	}
	client, err := NewClient(signer)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SignedDownloadURL(context.Background(), "", "object", DownloadOptions{}); !errors.Is(err, errInvalidBucket) {
		t.Fatalf("missing bucket: %v", err)
	}
	if _, err := client.SignedDownloadURL(context.Background(), "bucket", " ", DownloadOptions{}); !errors.Is(err, errInvalidObject) {
		t.Fatalf("missing object: %v", err)
	}
	if _, err := client.SignedDownloadURL(context.Background(), "bucket", "object", DownloadOptions{ExpiresIn: time.Hour}); !errors.Is(err, errExpiryTooLong) {
		t.Fatalf("long expiry: %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("bases", "Wolf Base.PNG")
	if !strings.HasPrefix(key, "bases/") {
		t.Fatalf("key = %q, want bases/ prefix", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("key = %q, want lowercase extension", key)
	}

	other := ObjectKey("bases", "Wolf Base.PNG")
	if key == other {
		t.Fatal("keys should be unique per call")
	}

	if k := ObjectKey("", "file.psd"); strings.Contains(k, "/") {
		t.Fatalf("unprefixed key = %q", k)
	}
}
