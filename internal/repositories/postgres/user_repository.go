package postgres

import (
	"context"

	domain "github.com/lancer-works/api/internal/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := r.store.handle(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return domain.User{}, wrapError("user find", err)
	}
	return user, nil
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	var user domain.User
	err := r.store.handle(ctx).Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		return domain.User{}, wrapError("user find by google id", err)
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.store.handle(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		return domain.User{}, wrapError("user find by email", err)
	}
	return user, nil
}

func (r *userRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	if err := r.store.handle(ctx).Create(&user).Error; err != nil {
		return domain.User{}, wrapError("user insert", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	res := r.store.handle(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("google_id", "email", "display_name", "picture_url", "last_login_at").
		Updates(user)
	if res.Error != nil {
		return domain.User{}, wrapError("user update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, notFoundError("user update: user %s not found", user.ID)
	}
	return r.FindByID(ctx, user.ID)
}
