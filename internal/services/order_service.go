package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

const (
	topActiveOrderLimit = 5
	// defaultDueDays is the due date window applied when an order is created
	// without one, counted from the order date.
	defaultDueDays = 21
)

var (
	// ErrOrderInvalidInput indicates the caller provided an invalid argument.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order or line does not exist for this account.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderConflict indicates a stale version was submitted.
	ErrOrderConflict = errors.New("order: version conflict")
	// ErrOrderRepositoryFailure wraps unexpected repository failures.
	ErrOrderRepositoryFailure = errors.New("order: repository failure")
)

// OrderServiceDeps wires dependencies for the order service implementation.
type OrderServiceDeps struct {
	Registry repositories.Registry
	Clock    func() time.Time
}

type orderService struct {
	registry repositories.Registry
	clock    func() time.Time
}

// NewOrderService constructs an OrderService backed by the provided dependencies.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Registry == nil {
		return nil, errors.New("order service: registry is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &orderService{
		registry: deps.Registry,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

func (s *orderService) Create(ctx context.Context, userID string, input CreateOrderInput) (domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Order{}, fmt.Errorf("%w: user id is required", ErrOrderInvalidInput)
	}
	status := input.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, input.Status)
	}

	orderDate := s.clock()
	if input.OrderDate != nil {
		orderDate = input.OrderDate.UTC()
	}
	dueAt := input.DueAt
	if dueAt == nil {
		due := orderDate.AddDate(0, 0, defaultDueDays)
		dueAt = &due
	}

	var created domain.Order
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkOrderRefs(ctx, userID, input.CustomerID, input.CommissionID); err != nil {
			return err
		}

		order := domain.Order{
			UserID:       userID,
			CustomerID:   input.CustomerID,
			CommissionID: input.CommissionID,
			Status:       status,
			OrderDate:    orderDate,
			Details:      input.Details,
			Notes:        input.Notes,
			DiscountNote: input.DiscountNote,
			Paid:         input.Paid,
			Posted:       input.Posted,
			StartedAt:    input.StartedAt,
			DueAt:        dueAt,
			Total:        decimal.Zero,
		}
		if status == domain.OrderStatusCompleted {
			now := s.clock()
			order.CompletedAt = &now
		}

		inserted, err := s.registry.Orders().Insert(ctx, order)
		if err != nil {
			return s.mapError(err)
		}

		total := decimal.Zero
		for _, lineInput := range input.Lines {
			line, err := s.buildLine(ctx, userID, inserted.ID, lineInput)
			if err != nil {
				return err
			}
			if _, err := s.registry.Orders().InsertLine(ctx, line); err != nil {
				return s.mapError(err)
			}
			total = total.Add(line.NetPrice)
		}
		if err := s.registry.Orders().UpdateTotal(ctx, inserted.ID, total); err != nil {
			return s.mapError(err)
		}

		created, err = s.registry.Orders().FindByID(ctx, userID, inserted.ID)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (s *orderService) Update(ctx context.Context, userID string, orderID uint, input UpdateOrderInput) (domain.Order, error) {
	if !domain.ValidOrderStatus(input.Status) {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, input.Status)
	}

	var updated domain.Order
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.registry.Orders().FindByID(ctx, userID, orderID)
		if err != nil {
			return s.mapError(err)
		}
		if err := s.checkOrderRefs(ctx, userID, input.CustomerID, input.CommissionID); err != nil {
			return err
		}

		order := existing
		order.CustomerID = input.CustomerID
		order.CommissionID = input.CommissionID
		order.Status = input.Status
		if input.OrderDate != nil {
			order.OrderDate = input.OrderDate.UTC()
		}
		order.Details = input.Details
		order.Notes = input.Notes
		order.DiscountNote = input.DiscountNote
		order.Paid = input.Paid
		order.Posted = input.Posted
		order.StartedAt = input.StartedAt
		order.DueAt = input.DueAt
		order.Version = input.Version

		// A completed order keeps its original completion stamp; any other
		// status clears it, even when the status itself did not change.
		if input.Status == domain.OrderStatusCompleted {
			if existing.CompletedAt == nil {
				now := s.clock()
				order.CompletedAt = &now
			}
		} else {
			order.CompletedAt = nil
		}

		updated, err = s.registry.Orders().Update(ctx, order)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (s *orderService) Delete(ctx context.Context, userID string, orderID uint) error {
	return s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.registry.Orders().Delete(ctx, userID, orderID); err != nil {
			return s.mapError(err)
		}
		return nil
	})
}

func (s *orderService) Get(ctx context.Context, userID string, orderID uint) (domain.Order, error) {
	order, err := s.registry.Orders().FindByID(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, s.mapError(err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, userID string, filter OrderListFilter) ([]domain.Order, error) {
	if filter.Status != nil && !domain.ValidOrderStatus(*filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, *filter.Status)
	}
	orders, err := s.registry.Orders().List(ctx, userID, repositories.OrderFilter{
		CustomerID: filter.CustomerID,
		Status:     filter.Status,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return orders, nil
}

func (s *orderService) TopActive(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.registry.Orders().ListActive(ctx, userID, topActiveOrderLimit)
	if err != nil {
		return nil, s.mapError(err)
	}
	return orders, nil
}

func (s *orderService) AddLine(ctx context.Context, userID string, orderID uint, input OrderLineInput) (domain.Order, error) {
	var refreshed domain.Order
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.Orders().FindByID(ctx, userID, orderID); err != nil {
			return s.mapError(err)
		}
		line, err := s.buildLine(ctx, userID, orderID, input)
		if err != nil {
			return err
		}
		if _, err := s.registry.Orders().InsertLine(ctx, line); err != nil {
			return s.mapError(err)
		}
		refreshed, err = s.recomputeTotal(ctx, userID, orderID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return refreshed, nil
}

func (s *orderService) UpdateLine(ctx context.Context, userID string, orderID, lineID uint, input UpdateOrderLineInput) (domain.Order, error) {
	var refreshed domain.Order
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.Orders().FindByID(ctx, userID, orderID); err != nil {
			return s.mapError(err)
		}
		line, err := s.buildLine(ctx, userID, orderID, OrderLineInput{
			ProductID:     input.ProductID,
			Quantity:      input.Quantity,
			UnitPrice:     input.UnitPrice,
			DiscountLabel: input.DiscountLabel,
			Discount:      input.Discount,
			Notes:         input.Notes,
		})
		if err != nil {
			return err
		}
		line.ID = lineID
		line.Version = input.Version
		if _, err := s.registry.Orders().UpdateLine(ctx, line); err != nil {
			return s.mapError(err)
		}
		refreshed, err = s.recomputeTotal(ctx, userID, orderID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return refreshed, nil
}

func (s *orderService) DeleteLine(ctx context.Context, userID string, orderID, lineID uint) (domain.Order, error) {
	var refreshed domain.Order
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.Orders().FindByID(ctx, userID, orderID); err != nil {
			return s.mapError(err)
		}
		if err := s.registry.Orders().DeleteLine(ctx, orderID, lineID); err != nil {
			return s.mapError(err)
		}
		var err error
		refreshed, err = s.recomputeTotal(ctx, userID, orderID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return refreshed, nil
}

// checkOrderRefs verifies the referenced customer and commission belong to
// the account. Both references are optional.
func (s *orderService) checkOrderRefs(ctx context.Context, userID string, customerID, commissionID *uint) error {
	if customerID != nil {
		if _, err := s.registry.Customers().FindByID(ctx, userID, *customerID); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: customer %d not found", ErrOrderInvalidInput, *customerID)
			}
			return s.mapError(err)
		}
	}
	if commissionID != nil {
		if _, err := s.registry.Commissions().FindByID(ctx, userID, *commissionID); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: commission %d not found", ErrOrderInvalidInput, *commissionID)
			}
			return s.mapError(err)
		}
	}
	return nil
}

// buildLine resolves the product (scoped to the acting account), applies the
// default unit price, and prices the line. Supplied amounts must not be
// negative; only the derived net price may go below zero.
func (s *orderService) buildLine(ctx context.Context, userID string, orderID uint, input OrderLineInput) (domain.OrderLine, error) {
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return domain.OrderLine{}, fmt.Errorf("%w: unit price must not be negative", ErrOrderInvalidInput)
	}
	if input.Discount.IsNegative() {
		return domain.OrderLine{}, fmt.Errorf("%w: discount must not be negative", ErrOrderInvalidInput)
	}

	product, err := s.registry.Products().FindByID(ctx, userID, input.ProductID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.OrderLine{}, fmt.Errorf("%w: product %d not found", ErrOrderInvalidInput, input.ProductID)
		}
		return domain.OrderLine{}, s.mapError(err)
	}

	unitPrice := product.Price
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	quantity := domain.NormalizeQuantity(input.Quantity)

	return domain.OrderLine{
		OrderID:       orderID,
		ProductID:     product.ID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		DiscountLabel: strings.TrimSpace(input.DiscountLabel),
		Discount:      input.Discount,
		NetPrice:      domain.LineNetPrice(unitPrice, quantity, input.Discount),
		Notes:         input.Notes,
	}, nil
}

// recomputeTotal re-derives the order total from its current lines and
// persists it, returning the refreshed order.
func (s *orderService) recomputeTotal(ctx context.Context, userID string, orderID uint) (domain.Order, error) {
	lines, err := s.registry.Orders().ListLines(ctx, orderID)
	if err != nil {
		return domain.Order{}, s.mapError(err)
	}
	if err := s.registry.Orders().UpdateTotal(ctx, orderID, domain.OrderTotal(lines)); err != nil {
		return domain.Order{}, s.mapError(err)
	}
	order, err := s.registry.Orders().FindByID(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, s.mapError(err)
	}
	return order, nil
}

func (s *orderService) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOrderInvalidInput), errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrOrderConflict):
		return err
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	case repositories.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrOrderConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrOrderRepositoryFailure, err)
	}
}
