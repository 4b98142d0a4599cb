package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type customerRepository struct {
	store *Store
}

func (r *customerRepository) Insert(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if err := r.store.handle(ctx).Create(&customer).Error; err != nil {
		return domain.Customer{}, wrapError("customer insert", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	res := r.store.handle(ctx).Model(&domain.Customer{}).
		Where("id = ? AND user_id = ?", customer.ID, customer.UserID).
		Select("name", "email", "discord", "twitter", "furaffinity", "instagram", "telegram", "other_name", "other_link").
		Updates(customer)
	if res.Error != nil {
		return domain.Customer{}, wrapError("customer update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Customer{}, notFoundError("customer update: customer %d not found", customer.ID)
	}
	return r.FindByID(ctx, customer.UserID, customer.ID)
}

func (r *customerRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Customer{})
	if res.Error != nil {
		return wrapError("customer delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("customer delete: customer %d not found", id)
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Customer, error) {
	var customer domain.Customer
	err := r.store.handle(ctx).Where("id = ? AND user_id = ?", id, userID).First(&customer).Error
	if err != nil {
		return domain.Customer{}, wrapError("customer find", err)
	}
	return customer, nil
}

func (r *customerRepository) List(ctx context.Context, userID string) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.store.handle(ctx).Where("user_id = ?", userID).Order("id").Find(&customers).Error
	if err != nil {
		return nil, wrapError("customer list", err)
	}
	return customers, nil
}
