package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type commissionRepository struct {
	store *Store
}

func (r *commissionRepository) Insert(ctx context.Context, commission domain.Commission) (domain.Commission, error) {
	commission.Artist = nil
	commission.Base = nil
	if err := r.store.handle(ctx).Create(&commission).Error; err != nil {
		return domain.Commission{}, wrapError("commission insert", err)
	}
	return r.FindByID(ctx, commission.UserID, commission.ID)
}

func (r *commissionRepository) Update(ctx context.Context, commission domain.Commission) (domain.Commission, error) {
	res := r.store.handle(ctx).Model(&domain.Commission{}).
		Where("id = ? AND user_id = ?", commission.ID, commission.UserID).
		Select("artist_id", "base_id", "name", "description", "price", "type", "slots", "ad_image_url").
		Updates(commission)
	if res.Error != nil {
		return domain.Commission{}, wrapError("commission update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Commission{}, notFoundError("commission update: commission %d not found", commission.ID)
	}
	return r.FindByID(ctx, commission.UserID, commission.ID)
}

func (r *commissionRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Commission{})
	if res.Error != nil {
		return wrapError("commission delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("commission delete: commission %d not found", id)
	}
	return nil
}

func (r *commissionRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Commission, error) {
	var commission domain.Commission
	err := r.store.handle(ctx).
		Preload("Artist").Preload("Base").
		Where("id = ? AND user_id = ?", id, userID).
		First(&commission).Error
	if err != nil {
		return domain.Commission{}, wrapError("commission find", err)
	}
	return commission, nil
}

func (r *commissionRepository) List(ctx context.Context, userID string) ([]domain.Commission, error) {
	var commissions []domain.Commission
	err := r.store.handle(ctx).
		Preload("Artist").
		Where("user_id = ?", userID).
		Order("id").
		Find(&commissions).Error
	if err != nil {
		return nil, wrapError("commission list", err)
	}
	return commissions, nil
}
