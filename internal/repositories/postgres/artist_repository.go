package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type artistRepository struct {
	store *Store
}

func (r *artistRepository) Insert(ctx context.Context, artist domain.Artist) (domain.Artist, error) {
	if err := r.store.handle(ctx).Create(&artist).Error; err != nil {
		return domain.Artist{}, wrapError("artist insert", err)
	}
	return artist, nil
}

func (r *artistRepository) Update(ctx context.Context, artist domain.Artist) (domain.Artist, error) {
	res := r.store.handle(ctx).Model(&domain.Artist{}).
		Where("id = ? AND user_id = ?", artist.ID, artist.UserID).
		Select("name", "description", "social_link").
		Updates(artist)
	if res.Error != nil {
		return domain.Artist{}, wrapError("artist update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Artist{}, notFoundError("artist update: artist %d not found", artist.ID)
	}
	return r.FindByID(ctx, artist.UserID, artist.ID)
}

func (r *artistRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Artist{})
	if res.Error != nil {
		return wrapError("artist delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("artist delete: artist %d not found", id)
	}
	return nil
}

func (r *artistRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Artist, error) {
	var artist domain.Artist
	err := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).First(&artist).Error
	if err != nil {
		return domain.Artist{}, wrapError("artist find", err)
	}
	return artist, nil
}

func (r *artistRepository) List(ctx context.Context, userID string) ([]domain.Artist, error) {
	var artists []domain.Artist
	err := r.store.handle(ctx).Where("user_id = ?", userID).Order("id").Find(&artists).Error
	if err != nil {
		return nil, wrapError("artist list", err)
	}
	return artists, nil
}
