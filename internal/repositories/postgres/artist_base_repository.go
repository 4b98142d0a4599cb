package postgres

import (
	"context"
	"strings"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

type artistBaseRepository struct {
	store *Store
}

func (r *artistBaseRepository) Insert(ctx context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error) {
	h := r.store.handle(ctx)
	base.Tags = nil
	if err := h.Create(&base).Error; err != nil {
		return domain.ArtistBase{}, wrapError("artist base insert", err)
	}
	if len(tagIDs) > 0 {
		tags := tagRefs(tagIDs)
		if err := h.Model(&base).Association("Tags").Append(&tags); err != nil {
			return domain.ArtistBase{}, wrapError("artist base tag append", err)
		}
	}
	return r.FindByID(ctx, base.UserID, base.ID)
}

func (r *artistBaseRepository) Update(ctx context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error) {
	h := r.store.handle(ctx)
	res := h.Model(&domain.ArtistBase{}).
		Where("id = ? AND user_id = ?", base.ID, base.UserID).
		Select("artist_id", "name", "description", "price", "image_key", "source_file_key").
		Updates(base)
	if res.Error != nil {
		return domain.ArtistBase{}, wrapError("artist base update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ArtistBase{}, notFoundError("artist base update: base %d not found", base.ID)
	}
	tags := tagRefs(tagIDs)
	if err := h.Model(&domain.ArtistBase{ID: base.ID}).Association("Tags").Replace(&tags); err != nil {
		return domain.ArtistBase{}, wrapError("artist base tag replace", err)
	}
	return r.FindByID(ctx, base.UserID, base.ID)
}

func (r *artistBaseRepository) Delete(ctx context.Context, userID string, id uint) error {
	h := r.store.handle(ctx)
	var base domain.ArtistBase
	if err := h.Where("id = ? AND user_id = ?", id, userID).First(&base).Error; err != nil {
		return wrapError("artist base delete", err)
	}
	if err := h.Model(&base).Association("Tags").Clear(); err != nil {
		return wrapError("artist base tag clear", err)
	}
	if err := h.Delete(&base).Error; err != nil {
		return wrapError("artist base delete", err)
	}
	return nil
}

func (r *artistBaseRepository) FindByID(ctx context.Context, userID string, id uint) (domain.ArtistBase, error) {
	var base domain.ArtistBase
	err := r.store.handle(ctx).
		Preload("Tags").Preload("Artist").
		Where("id = ? AND user_id = ?", id, userID).
		First(&base).Error
	if err != nil {
		return domain.ArtistBase{}, wrapError("artist base find", err)
	}
	return base, nil
}

func (r *artistBaseRepository) List(ctx context.Context, userID string) ([]domain.ArtistBase, error) {
	var bases []domain.ArtistBase
	err := r.store.handle(ctx).
		Preload("Tags").Preload("Artist").
		Where("user_id = ?", userID).
		Order("id").
		Find(&bases).Error
	if err != nil {
		return nil, wrapError("artist base list", err)
	}
	return bases, nil
}

func (r *artistBaseRepository) Search(ctx context.Context, userID string, filter repositories.ArtistBaseFilter) ([]domain.ArtistBase, error) {
	q := r.store.handle(ctx).Model(&domain.ArtistBase{}).
		Where("artist_bases.user_id = ?", userID)

	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where("LOWER(artist_bases.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.MinPrice != nil {
		q = q.Where("artist_bases.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("artist_bases.price <= ?", filter.MaxPrice)
	}
	if len(filter.TagIDs) > 0 {
		// AND semantics: the base must carry every requested tag.
		q = q.Joins("JOIN artist_base_tags ON artist_base_tags.artist_base_id = artist_bases.id").
			Where("artist_base_tags.tag_id IN ?", filter.TagIDs).
			Group("artist_bases.id").
			Having("COUNT(DISTINCT artist_base_tags.tag_id) = ?", len(filter.TagIDs))
	}

	var bases []domain.ArtistBase
	err := q.Preload("Tags").Preload("Artist").Order("artist_bases.id").Find(&bases).Error
	if err != nil {
		return nil, wrapError("artist base search", err)
	}
	return bases, nil
}

func tagRefs(ids []uint) []domain.Tag {
	tags := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, domain.Tag{ID: id})
	}
	return tags
}
