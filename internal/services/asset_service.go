package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/lancer-works/api/internal/platform/storage"
)

// DefaultUploadMaxBytes caps uploads when no limit is configured.
const DefaultUploadMaxBytes = 10 << 20

var (
	// ErrAssetInvalidUpload indicates a missing, oversized, or unsupported file.
	ErrAssetInvalidUpload = errors.New("asset: invalid upload")
	// ErrAssetStorageFailure wraps bucket or signer failures.
	ErrAssetStorageFailure = errors.New("asset: storage failure")
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// baseFileExtensions additionally accepts layered source files.
var baseFileExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".psd":  {},
}

// AssetServiceDeps wires dependencies for the asset service implementation.
type AssetServiceDeps struct {
	Store    AssetStore
	Signer   AssetURLSigner
	MaxBytes int64
	Logger   *zap.Logger
}

type assetService struct {
	store    AssetStore
	signer   AssetURLSigner
	maxBytes int64
	logger   *zap.Logger
}

// NewAssetService constructs an AssetService backed by the provided dependencies.
func NewAssetService(deps AssetServiceDeps) (AssetService, error) {
	if deps.Store == nil {
		return nil, errors.New("asset service: store is required")
	}
	if deps.Signer == nil {
		return nil, errors.New("asset service: signer is required")
	}
	maxBytes := deps.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &assetService{
		store:    deps.Store,
		signer:   deps.Signer,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

func (s *assetService) StoreImage(ctx context.Context, prefix string, upload FileUpload) (string, error) {
	return s.storeFile(ctx, prefix, upload, imageExtensions)
}

func (s *assetService) StoreBaseFile(ctx context.Context, prefix string, upload FileUpload) (string, error) {
	return s.storeFile(ctx, prefix, upload, baseFileExtensions)
}

func (s *assetService) storeFile(ctx context.Context, prefix string, upload FileUpload, allowed map[string]struct{}) (string, error) {
	if err := validateUpload(upload, s.maxBytes, allowed); err != nil {
		return "", err
	}

	key := storage.ObjectKey(prefix, upload.FileName)
	if err := s.store.Put(ctx, key, upload.ContentType, upload.Content); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetStorageFailure, err)
	}
	return key, nil
}

func (s *assetService) ResolveURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	url, _, err := s.signer.SignedDownloadURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetStorageFailure, err)
	}
	return url, nil
}

// Remove deletes the stored object. Failures are logged and swallowed so a
// dangling object never blocks the owning record's mutation.
func (s *assetService) Remove(ctx context.Context, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("asset cleanup failed", zap.String("key", key), zap.Error(err))
	}
}

func validateUpload(upload FileUpload, maxBytes int64, allowed map[string]struct{}) error {
	if upload.Content == nil {
		return fmt.Errorf("%w: empty file", ErrAssetInvalidUpload)
	}
	if upload.Size <= 0 {
		return fmt.Errorf("%w: empty file", ErrAssetInvalidUpload)
	}
	if upload.Size > maxBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrAssetInvalidUpload, maxBytes)
	}
	ext := strings.ToLower(path.Ext(upload.FileName))
	if _, ok := allowed[ext]; !ok {
		return fmt.Errorf("%w: unsupported file type %q", ErrAssetInvalidUpload, ext)
	}
	return nil
}
