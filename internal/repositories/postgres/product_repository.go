package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Insert(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.Artist = nil
	product.Base = nil
	if err := r.store.handle(ctx).Create(&product).Error; err != nil {
		return domain.Product{}, wrapError("product insert", err)
	}
	return r.FindByID(ctx, product.UserID, product.ID)
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	res := r.store.handle(ctx).Model(&domain.Product{}).
		Where("id = ? AND user_id = ?", product.ID, product.UserID).
		Select("artist_id", "base_id", "name", "description", "price", "ad_image_key", "available").
		Updates(product)
	if res.Error != nil {
		return domain.Product{}, wrapError("product update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Product{}, notFoundError("product update: product %d not found", product.ID)
	}
	return r.FindByID(ctx, product.UserID, product.ID)
}

func (r *productRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Product{})
	if res.Error != nil {
		return wrapError("product delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("product delete: product %d not found", id)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Product, error) {
	var product domain.Product
	err := r.store.handle(ctx).
		Preload("Artist").Preload("Base").
		Where("id = ? AND user_id = ?", id, userID).
		First(&product).Error
	if err != nil {
		return domain.Product{}, wrapError("product find", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, userID string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.store.handle(ctx).
		Preload("Artist").
		Where("user_id = ?", userID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, wrapError("product list", err)
	}
	return products, nil
}

func (r *productRepository) ListAvailable(ctx context.Context, userID string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.store.handle(ctx).
		Preload("Artist").
		Where("user_id = ? AND available = ?", userID, true).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, wrapError("product list available", err)
	}
	return products, nil
}
