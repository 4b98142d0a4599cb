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
	// ErrProductInvalidInput indicates the caller provided an invalid argument.
	ErrProductInvalidInput = errors.New("product: invalid input")
	// ErrProductNotFound indicates the record does not exist for this account.
	ErrProductNotFound = errors.New("product: not found")
	// ErrProductRepositoryFailure wraps unexpected repository failures.
	ErrProductRepositoryFailure = errors.New("product: repository failure")
)

// ProductServiceDeps wires dependencies for the product service implementation.
type ProductServiceDeps struct {
	Registry repositories.Registry
}

type productService struct {
	registry repositories.Registry
}

// NewProductService constructs a ProductService backed by the provided dependencies.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Registry == nil {
		return nil, errors.New("product service: registry is required")
	}
	return &productService{registry: deps.Registry}, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, input ProductInput) (domain.Product, error) {
	product, err := buildProduct(userID, input)
	if err != nil {
		return domain.Product{}, err
	}
	if strings.TrimSpace(product.AdImageKey) == "" {
		return domain.Product{}, fmt.Errorf("%w: ad image is required", ErrProductInvalidInput)
	}

	var created domain.Product
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, userID, input.ArtistID, input.BaseID); err != nil {
			return err
		}
		var err error
		created, err = s.registry.Products().Insert(ctx, product)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID string, id uint, input ProductInput) (domain.Product, error) {
	product, err := buildProduct(userID, input)
	if err != nil {
		return domain.Product{}, err
	}
	product.ID = id

	var updated domain.Product
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.registry.Products().FindByID(ctx, userID, id)
		if err != nil {
			return s.mapError(err)
		}
		if err := s.checkRefs(ctx, userID, input.ArtistID, input.BaseID); err != nil {
			return err
		}
		if product.AdImageKey == "" {
			product.AdImageKey = existing.AdImageKey
		}

		updated, err = s.registry.Products().Update(ctx, product)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes the product and returns the deleted record so the
// caller can release its stored ad image.
func (s *productService) DeleteProduct(ctx context.Context, userID string, id uint) (domain.Product, error) {
	var deleted domain.Product
	err := s.registry.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.registry.Products().FindByID(ctx, userID, id)
		if err != nil {
			return s.mapError(err)
		}
		if err := s.registry.Products().Delete(ctx, userID, id); err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return deleted, nil
}

func (s *productService) GetProduct(ctx context.Context, userID string, id uint) (domain.Product, error) {
	product, err := s.registry.Products().FindByID(ctx, userID, id)
	if err != nil {
		return domain.Product{}, s.mapError(err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, userID string) ([]domain.Product, error) {
	products, err := s.registry.Products().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return products, nil
}

func (s *productService) ListAvailableProducts(ctx context.Context, userID string) ([]domain.Product, error) {
	products, err := s.registry.Products().ListAvailable(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return products, nil
}

func (s *productService) CreateCommission(ctx context.Context, userID string, input CommissionInput) (domain.Commission, error) {
	commission, err := buildCommission(userID, input)
	if err != nil {
		return domain.Commission{}, err
	}

	var created domain.Commission
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, userID, input.ArtistID, input.BaseID); err != nil {
			return err
		}
		var err error
		created, err = s.registry.Commissions().Insert(ctx, commission)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Commission{}, err
	}
	return created, nil
}

func (s *productService) UpdateCommission(ctx context.Context, userID string, id uint, input CommissionInput) (domain.Commission, error) {
	commission, err := buildCommission(userID, input)
	if err != nil {
		return domain.Commission{}, err
	}
	commission.ID = id

	var updated domain.Commission
	err = s.registry.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.Commissions().FindByID(ctx, userID, id); err != nil {
			return s.mapError(err)
		}
		if err := s.checkRefs(ctx, userID, input.ArtistID, input.BaseID); err != nil {
			return err
		}
		var err error
		updated, err = s.registry.Commissions().Update(ctx, commission)
		if err != nil {
			return s.mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.Commission{}, err
	}
	return updated, nil
}

func (s *productService) DeleteCommission(ctx context.Context, userID string, id uint) error {
	if err := s.registry.Commissions().Delete(ctx, userID, id); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *productService) GetCommission(ctx context.Context, userID string, id uint) (domain.Commission, error) {
	commission, err := s.registry.Commissions().FindByID(ctx, userID, id)
	if err != nil {
		return domain.Commission{}, s.mapError(err)
	}
	return commission, nil
}

func (s *productService) ListCommissions(ctx context.Context, userID string) ([]domain.Commission, error) {
	commissions, err := s.registry.Commissions().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return commissions, nil
}

// buildProduct validates the writable fields. Unlike commissions, a product
// always belongs to an artist. The ad image is enforced at create only so
// updates can keep the stored key.
func buildProduct(userID string, input ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", ErrProductInvalidInput)
	}
	if input.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", ErrProductInvalidInput)
	}
	if input.ArtistID == nil {
		return domain.Product{}, fmt.Errorf("%w: artist is required", ErrProductInvalidInput)
	}

	return domain.Product{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		ArtistID:    input.ArtistID,
		BaseID:      input.BaseID,
		AdImageKey:  input.AdImageKey,
		Available:   input.Available,
	}, nil
}

func buildCommission(userID string, input CommissionInput) (domain.Commission, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Commission{}, fmt.Errorf("%w: name is required", ErrProductInvalidInput)
	}
	if input.Price.IsNegative() {
		return domain.Commission{}, fmt.Errorf("%w: price must not be negative", ErrProductInvalidInput)
	}
	if !domain.ValidCommissionType(input.Type) {
		return domain.Commission{}, fmt.Errorf("%w: unknown commission type %q", ErrProductInvalidInput, input.Type)
	}
	if input.Slots < 0 {
		return domain.Commission{}, fmt.Errorf("%w: slots must not be negative", ErrProductInvalidInput)
	}

	return domain.Commission{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Type:        input.Type,
		Slots:       input.Slots,
		ArtistID:    input.ArtistID,
		BaseID:      input.BaseID,
		AdImageURL:  input.AdImageURL,
	}, nil
}

// checkRefs verifies the referenced artist and base belong to the account.
func (s *productService) checkRefs(ctx context.Context, userID string, artistID, baseID *uint) error {
	if artistID != nil {
		if _, err := s.registry.Artists().FindByID(ctx, userID, *artistID); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: artist %d not found", ErrProductInvalidInput, *artistID)
			}
			return s.mapError(err)
		}
	}
	if baseID != nil {
		if _, err := s.registry.ArtistBases().FindByID(ctx, userID, *baseID); err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("%w: base %d not found", ErrProductInvalidInput, *baseID)
			}
			return s.mapError(err)
		}
	}
	return nil
}

func (s *productService) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrProductInvalidInput):
		return err
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrProductRepositoryFailure, err)
	}
}
