package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type tagRepository struct {
	store *Store
}

func (r *tagRepository) Insert(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	if err := r.store.handle(ctx).Create(&tag).Error; err != nil {
		return domain.Tag{}, wrapError("tag insert", err)
	}
	return tag, nil
}

func (r *tagRepository) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	res := r.store.handle(ctx).Model(&domain.Tag{}).
		Where("id = ? AND user_id = ?", tag.ID, tag.UserID).
		Select("name").
		Updates(tag)
	if res.Error != nil {
		return domain.Tag{}, wrapError("tag update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Tag{}, notFoundError("tag update: tag %d not found", tag.ID)
	}
	return r.FindByID(ctx, tag.UserID, tag.ID)
}

func (r *tagRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Tag{})
	if res.Error != nil {
		return wrapError("tag delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("tag delete: tag %d not found", id)
	}
	return nil
}

func (r *tagRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Tag, error) {
	var tag domain.Tag
	err := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).First(&tag).Error
	if err != nil {
		return domain.Tag{}, wrapError("tag find", err)
	}
	return tag, nil
}

func (r *tagRepository) FindByName(ctx context.Context, userID string, name string) (domain.Tag, error) {
	var tag domain.Tag
	err := r.store.handle(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&tag).Error
	if err != nil {
		return domain.Tag{}, wrapError("tag find by name", err)
	}
	return tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, userID string, ids []uint) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []domain.Tag
	err := r.store.handle(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("id").
		Find(&tags).Error
	if err != nil {
		return nil, wrapError("tag find by ids", err)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context, userID string) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.store.handle(ctx).Where("user_id = ?", userID).Order("name").Find(&tags).Error
	if err != nil {
		return nil, wrapError("tag list", err)
	}
	return tags, nil
}

func (r *tagRepository) InUse(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.store.handle(ctx).Table("artist_base_tags").Where("tag_id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrapError("tag usage count", err)
	}
	return count > 0, nil
}
