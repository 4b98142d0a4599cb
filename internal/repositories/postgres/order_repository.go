package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.Customer = nil
	if err := r.store.handle(ctx).Create(&order).Error; err != nil {
		return domain.Order{}, wrapError("order insert", err)
	}
	return r.FindByID(ctx, order.UserID, order.ID)
}

// Update applies an optimistic version check: the row is only written when
// the stored version still matches, and the version is bumped in the same
// statement. A stale version surfaces as a conflict.
func (r *orderRepository) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	h := r.store.handle(ctx)
	currentVersion := order.Version
	order.Version = currentVersion + 1

	res := h.Model(&domain.Order{}).
		Where("id = ? AND user_id = ? AND version = ?", order.ID, order.UserID, currentVersion).
		Select("customer_id", "commission_id", "status", "order_date", "details", "notes", "discount_note", "total", "paid", "posted", "started_at", "due_at", "completed_at", "version").
		Updates(order)
	if res.Error != nil {
		return domain.Order{}, wrapError("order update", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := h.Model(&domain.Order{}).Where("id = ? AND user_id = ?", order.ID, order.UserID).Count(&count).Error; err != nil {
			return domain.Order{}, wrapError("order update", err)
		}
		if count == 0 {
			return domain.Order{}, notFoundError("order update: order %d not found", order.ID)
		}
		return domain.Order{}, conflictError("order update: order %d version %d is stale", order.ID, currentVersion)
	}
	return r.FindByID(ctx, order.UserID, order.ID)
}

func (r *orderRepository) Delete(ctx context.Context, userID string, id uint) error {
	h := r.store.handle(ctx)
	var count int64
	if err := h.Model(&domain.Order{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return wrapError("order delete", err)
	}
	if count == 0 {
		return notFoundError("order delete: order %d not found", id)
	}
	if err := h.Where("order_id = ?", id).Delete(&domain.OrderLine{}).Error; err != nil {
		return wrapError("order line delete", err)
	}
	if err := h.Where("id = ?", id).Delete(&domain.Order{}).Error; err != nil {
		return wrapError("order delete", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, userID string, id uint) (domain.Order, error) {
	var order domain.Order
	err := r.store.handle(ctx).
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Lines.Product.Artist").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return domain.Order{}, wrapError("order find", err)
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, userID string, filter repositories.OrderFilter) ([]domain.Order, error) {
	q := r.store.handle(ctx).
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Lines.Product.Artist").
		Where("user_id = ?", userID)
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var orders []domain.Order
	if err := q.Order("id").Find(&orders).Error; err != nil {
		return nil, wrapError("order list", err)
	}
	return orders, nil
}

func (r *orderRepository) ListActive(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.store.handle(ctx).
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		Where("user_id = ? AND status NOT IN ?", userID, []domain.OrderStatus{domain.OrderStatusCompleted, domain.OrderStatusCancelled}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, wrapError("order list active", err)
	}
	return orders, nil
}

func (r *orderRepository) InsertLine(ctx context.Context, line domain.OrderLine) (domain.OrderLine, error) {
	line.Product = nil
	if err := r.store.handle(ctx).Create(&line).Error; err != nil {
		return domain.OrderLine{}, wrapError("order line insert", err)
	}
	return r.FindLine(ctx, line.OrderID, line.ID)
}

func (r *orderRepository) UpdateLine(ctx context.Context, line domain.OrderLine) (domain.OrderLine, error) {
	h := r.store.handle(ctx)
	currentVersion := line.Version
	line.Version = currentVersion + 1

	res := h.Model(&domain.OrderLine{}).
		Where("id = ? AND order_id = ? AND version = ?", line.ID, line.OrderID, currentVersion).
		Select("product_id", "quantity", "unit_price", "discount_label", "discount", "net_price", "notes", "version").
		Updates(line)
	if res.Error != nil {
		return domain.OrderLine{}, wrapError("order line update", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := h.Model(&domain.OrderLine{}).Where("id = ? AND order_id = ?", line.ID, line.OrderID).Count(&count).Error; err != nil {
			return domain.OrderLine{}, wrapError("order line update", err)
		}
		if count == 0 {
			return domain.OrderLine{}, notFoundError("order line update: line %d not found", line.ID)
		}
		return domain.OrderLine{}, conflictError("order line update: line %d version %d is stale", line.ID, currentVersion)
	}
	return r.FindLine(ctx, line.OrderID, line.ID)
}

func (r *orderRepository) DeleteLine(ctx context.Context, orderID, lineID uint) error {
	res := r.store.handle(ctx).Where("id = ? AND order_id = ?", lineID, orderID).Delete(&domain.OrderLine{})
	if res.Error != nil {
		return wrapError("order line delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("order line delete: line %d not found", lineID)
	}
	return nil
}

func (r *orderRepository) FindLine(ctx context.Context, orderID, lineID uint) (domain.OrderLine, error) {
	var line domain.OrderLine
	err := r.store.handle(ctx).
		Preload("Product").
		Where("id = ? AND order_id = ?", lineID, orderID).
		First(&line).Error
	if err != nil {
		return domain.OrderLine{}, wrapError("order line find", err)
	}
	return line, nil
}

func (r *orderRepository) ListLines(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	err := r.store.handle(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, wrapError("order line list", err)
	}
	return lines, nil
}

func (r *orderRepository) ListLinesByUser(ctx context.Context, userID string) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	err := r.store.handle(ctx).Model(&domain.OrderLine{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.user_id = ?", userID).
		Order("order_lines.id").
		Preload("Product").
		Find(&lines).Error
	if err != nil {
		return nil, wrapError("order line list by user", err)
	}
	return lines, nil
}

func (r *orderRepository) UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	err := r.store.handle(ctx).Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("total", total).Error
	if err != nil {
		return wrapError("order total update", err)
	}
	return nil
}
