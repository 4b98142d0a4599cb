package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

var (
	// ErrCatalogInvalidInput indicates the caller provided an invalid argument.
	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	// ErrCatalogNotFound indicates the record does not exist for this account.
	ErrCatalogNotFound = errors.New("catalog: not found")
	// ErrTagNameTaken indicates another tag already uses the name.
	ErrTagNameTaken = errors.New("catalog: tag name already in use")
	// ErrTagInUse indicates the tag is still attached to at least one base.
	ErrTagInUse = errors.New("catalog: tag is in use")
	// ErrCatalogRepositoryFailure wraps unexpected repository failures.
	ErrCatalogRepositoryFailure = errors.New("catalog: repository failure")
)

// CatalogServiceDeps wires dependencies for the catalog service implementation.
type CatalogServiceDeps struct {
	Registry repositories.Registry
}

type catalogService struct {
	registry repositories.Registry
}

// NewCatalogService constructs a CatalogService backed by the provided dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Registry == nil {
		return nil, errors.New("catalog service: registry is required")
	}
	return &catalogService{registry: deps.Registry}, nil
}

func (s *catalogService) CreateArtist(ctx context.Context, userID string, input ArtistInput) (domain.Artist, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Artist{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}

	artist, err := s.registry.Artists().Insert(ctx, domain.Artist{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		SocialLink:  input.SocialLink,
	})
	if err != nil {
		return domain.Artist{}, s.mapError(err)
	}
	return artist, nil
}

func (s *catalogService) UpdateArtist(ctx context.Context, userID string, id uint, input ArtistInput) (domain.Artist, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Artist{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}

	artist, err := s.registry.Artists().Update(ctx, domain.Artist{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		SocialLink:  input.SocialLink,
	})
	if err != nil {
		return domain.Artist{}, s.mapError(err)
	}
	return artist, nil
}

func (s *catalogService) DeleteArtist(ctx context.Context, userID string, id uint) error {
	if err := s.registry.Artists().Delete(ctx, userID, id); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *catalogService) GetArtist(ctx context.Context, userID string, id uint) (domain.Artist, error) {
	artist, err := s.registry.Artists().FindByID(ctx, userID, id)
	if err != nil {
		return domain.Artist{}, s.mapError(err)
	}
	return artist, nil
}

func (s *catalogService) ListArtists(ctx context.Context, userID string) ([]domain.Artist, error) {
	artists, err := s.registry.Artists().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return artists, nil
}

func (s *catalogService) CreateArtistBase(ctx context.Context, userID string, input ArtistBaseInput) (domain.ArtistBase, error) {
	base, err := s.buildBase(userID, input)
	if err != nil {
		return domain.ArtistBase{}, err
	}

	var created domain.ArtistBase
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkBaseRefs(ctx, userID, input.ArtistID, input.TagIDs); err != nil {
			return err
		}
		var err error
		created, err = s.registry.ArtistBases().Insert(ctx, base, input.TagIDs)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.ArtistBase{}, err
	}
	return created, nil
}

func (s *catalogService) UpdateArtistBase(ctx context.Context, userID string, id uint, input ArtistBaseInput) (domain.ArtistBase, error) {
	base, err := s.buildBase(userID, input)
	if err != nil {
		return domain.ArtistBase{}, err
	}
	base.ID = id

	var updated domain.ArtistBase
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.registry.ArtistBases().FindByID(ctx, userID, id)
		if err != nil {
			return s.mapError(err)
		}
		if err := s.checkBaseRefs(ctx, userID, input.ArtistID, input.TagIDs); err != nil {
			return err
		}

		// Keep existing file keys unless the caller replaced them.
		if base.ImageKey == "" {
			base.ImageKey = existing.ImageKey
		}
		if base.SourceFileKey == "" {
			base.SourceFileKey = existing.SourceFileKey
		}

		updated, err = s.registry.ArtistBases().Update(ctx, base, input.TagIDs)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.ArtistBase{}, err
	}
	return updated, nil
}

// DeleteArtistBase removes the base and returns the deleted record so the
// caller can release its stored files.
func (s *catalogService) DeleteArtistBase(ctx context.Context, userID string, id uint) (domain.ArtistBase, error) {
	var deleted domain.ArtistBase
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.registry.ArtistBases().FindByID(ctx, userID, id)
		if err != nil {
			return s.mapError(err)
		}
		if err := s.registry.ArtistBases().Delete(ctx, userID, id); err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.ArtistBase{}, err
	}
	return deleted, nil
}

func (s *catalogService) GetArtistBase(ctx context.Context, userID string, id uint) (domain.ArtistBase, error) {
	base, err := s.registry.ArtistBases().FindByID(ctx, userID, id)
	if err != nil {
		return domain.ArtistBase{}, s.mapError(err)
	}
	return base, nil
}

func (s *catalogService) ListArtistBases(ctx context.Context, userID string) ([]domain.ArtistBase, error) {
	bases, err := s.registry.ArtistBases().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return bases, nil
}

func (s *catalogService) SearchArtistBases(ctx context.Context, userID string, input ArtistBaseSearchInput) ([]domain.ArtistBase, error) {
	if input.MinPrice != nil && input.MaxPrice != nil && input.MinPrice.GreaterThan(*input.MaxPrice) {
		return nil, fmt.Errorf("%w: min price exceeds max price", ErrCatalogInvalidInput)
	}

	// Drop zero and repeated ids so the AND match counts each tag once.
	tagIDs := make([]uint, 0, len(input.TagIDs))
	seen := make(map[uint]struct{}, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tagIDs = append(tagIDs, id)
	}

	bases, err := s.registry.ArtistBases().Search(ctx, userID, repositories.ArtistBaseFilter{
		Name:     strings.TrimSpace(input.Name),
		TagIDs:   tagIDs,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return bases, nil
}

func (s *catalogService) CreateTag(ctx context.Context, userID string, input TagInput) (domain.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Tag{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}

	var created domain.Tag
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkTagName(ctx, userID, name, 0); err != nil {
			return err
		}
		var err error
		created, err = s.registry.Tags().Insert(ctx, domain.Tag{UserID: userID, Name: name})
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Tag{}, err
	}
	return created, nil
}

func (s *catalogService) UpdateTag(ctx context.Context, userID string, id uint, input TagInput) (domain.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Tag{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}

	var updated domain.Tag
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkTagName(ctx, userID, name, id); err != nil {
			return err
		}
		var err error
		updated, err = s.registry.Tags().Update(ctx, domain.Tag{ID: id, UserID: userID, Name: name})
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Tag{}, err
	}
	return updated, nil
}

func (s *catalogService) DeleteTag(ctx context.Context, userID string, id uint) error {
	return s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.Tags().FindByID(ctx, userID, id); err != nil {
			return s.mapError(err)
		}
		inUse, err := s.registry.Tags().InUse(ctx, id)
		if err != nil {
			return s.mapError(err)
		}
		if inUse {
			return ErrTagInUse
		}
		if err := s.registry.Tags().Delete(ctx, userID, id); err != nil {
			return s.mapError(err)
		}
		return nil
	})
}

func (s *catalogService) GetTag(ctx context.Context, userID string, id uint) (domain.Tag, error) {
	tag, err := s.registry.Tags().FindByID(ctx, userID, id)
	if err != nil {
		return domain.Tag{}, s.mapError(err)
	}
	return tag, nil
}

func (s *catalogService) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	tags, err := s.registry.Tags().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return tags, nil
}

func (s *catalogService) buildBase(userID string, input ArtistBaseInput) (domain.ArtistBase, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ArtistBase{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}
	if input.Price.IsNegative() {
		return domain.ArtistBase{}, fmt.Errorf("%w: price must not be negative", ErrCatalogInvalidInput)
	}

	return domain.ArtistBase{
		UserID:        userID,
		Name:          name,
		Description:   input.Description,
		Price:         input.Price,
		ArtistID:      input.ArtistID,
		ImageKey:      input.ImageKey,
		SourceFileKey: input.SourceFileKey,
	}, nil
}

// checkBaseRefs verifies the referenced artist and tags belong to the account.
func (s *catalogService) checkBaseRefs(ctx context.Context, userID string, artistID *uint, tagIDs []uint) error {
	if artistID != nil {
		if _, err := s.registry.Artists().FindByID(ctx, userID, *artistID); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: artist %d not found", ErrCatalogInvalidInput, *artistID)
			}
			return s.mapError(err)
		}
	}
	if len(tagIDs) > 0 {
		tags, err := s.registry.Tags().FindByIDs(ctx, userID, tagIDs)
		if err != nil {
			return s.mapError(err)
		}
		if len(tags) != len(tagIDs) {
			return fmt.Errorf("%w: unknown tag id", ErrCatalogInvalidInput)
		}
	}
	return nil
}

// checkTagName enforces case-insensitive tag name uniqueness per account.
// excludeID skips the tag being renamed.
func (s *catalogService) checkTagName(ctx context.Context, userID, name string, excludeID uint) error {
	existing, err := s.registry.Tags().FindByName(ctx, userID, name)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil
		}
		return s.mapError(err)
	}
	if existing.ID != excludeID {
		return fmt.Errorf("%w: %q", ErrTagNameTaken, name)
	}
	return nil
}

func (s *catalogService) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCatalogInvalidInput), errors.Is(err, ErrTagNameTaken), errors.Is(err, ErrTagInUse):
		return err
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrCatalogNotFound, err)
	case repositories.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrTagNameTaken, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrCatalogRepositoryFailure, err)
	}
}
