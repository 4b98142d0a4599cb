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
	// ErrCustomerInvalidInput indicates the caller provided an invalid argument.
	ErrCustomerInvalidInput = errors.New("customer: invalid input")
	// ErrCustomerNotFound indicates the customer does not exist for this account.
	ErrCustomerNotFound = errors.New("customer: not found")
	// ErrCustomerRepositoryFailure wraps unexpected repository failures.
	ErrCustomerRepositoryFailure = errors.New("customer: repository failure")
)

// CustomerServiceDeps wires dependencies for the customer service implementation.
type CustomerServiceDeps struct {
	Registry repositories.Registry
}

type customerService struct {
	registry repositories.Registry
}

// NewCustomerService constructs a CustomerService backed by the provided dependencies.
func NewCustomerService(deps CustomerServiceDeps) (CustomerService, error) {
	if deps.Registry == nil {
		return nil, errors.New("customer service: registry is required")
	}
	return &customerService{registry: deps.Registry}, nil
}

func (s *customerService) Create(ctx context.Context, userID string, input CustomerInput) (domain.Customer, error) {
	customer, err := buildCustomer(userID, input)
	if err != nil {
		return domain.Customer{}, err
	}

	created, err := s.registry.Customers().Insert(ctx, customer)
	if err != nil {
		return domain.Customer{}, s.mapError(err)
	}
	return created, nil
}

func (s *customerService) Update(ctx context.Context, userID string, id uint, input CustomerInput) (domain.Customer, error) {
	customer, err := buildCustomer(userID, input)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.ID = id

	updated, err := s.registry.Customers().Update(ctx, customer)
	if err != nil {
		return domain.Customer{}, s.mapError(err)
	}
	return updated, nil
}

func (s *customerService) Delete(ctx context.Context, userID string, id uint) error {
	if err := s.registry.Customers().Delete(ctx, userID, id); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *customerService) Get(ctx context.Context, userID string, id uint) (domain.Customer, error) {
	customer, err := s.registry.Customers().FindByID(ctx, userID, id)
	if err != nil {
		return domain.Customer{}, s.mapError(err)
	}
	return customer, nil
}

func (s *customerService) List(ctx context.Context, userID string) ([]domain.Customer, error) {
	customers, err := s.registry.Customers().List(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return customers, nil
}

func buildCustomer(userID string, input CustomerInput) (domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Customer{}, fmt.Errorf("%w: name is required", ErrCustomerInvalidInput)
	}

	return domain.Customer{
		UserID:      userID,
		Name:        name,
		Email:       strings.TrimSpace(input.Email),
		Discord:     strings.TrimSpace(input.Discord),
		Twitter:     strings.TrimSpace(input.Twitter),
		Furaffinity: strings.TrimSpace(input.Furaffinity),
		Instagram:   strings.TrimSpace(input.Instagram),
		Telegram:    strings.TrimSpace(input.Telegram),
		OtherName:   strings.TrimSpace(input.OtherName),
		OtherLink:   strings.TrimSpace(input.OtherLink),
	}, nil
}

func (s *customerService) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCustomerInvalidInput):
		return err
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrCustomerNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrCustomerRepositoryFailure, err)
	}
}
