package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/services"
)

const testUserID = "user-1"

var errStubNotConfigured = errors.New("stub not configured")

type stubTokenVerifier struct {
	claims auth.Claims
	err    error
}

func (s *stubTokenVerifier) Verify(string) (auth.Claims, error) {
	return s.claims, s.err
}

func testAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(&stubTokenVerifier{
		claims: auth.Claims{
			Email: "artist@example.com",
			Name:  "Night Brush",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: testUserID,
			},
		},
	})
}

type stubAuthService struct {
	loginFn func(ctx context.Context, idToken string) (services.AuthSession, error)
	userFn  func(ctx context.Context, userID string) (domain.User, error)
}

func (s *stubAuthService) LoginWithGoogle(ctx context.Context, idToken string) (services.AuthSession, error) {
	if s.loginFn == nil {
		return services.AuthSession{}, errStubNotConfigured
	}
	return s.loginFn(ctx, idToken)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	if s.userFn == nil {
		return domain.User{}, errStubNotConfigured
	}
	return s.userFn(ctx, userID)
}

type stubCatalogService struct {
	services.CatalogService

	createTagFn   func(ctx context.Context, userID string, input services.TagInput) (domain.Tag, error)
	deleteTagFn   func(ctx context.Context, userID string, id uint) error
	listTagsFn    func(ctx context.Context, userID string) ([]domain.Tag, error)
	searchBasesFn func(ctx context.Context, userID string, input services.ArtistBaseSearchInput) ([]domain.ArtistBase, error)
}

func (s *stubCatalogService) CreateTag(ctx context.Context, userID string, input services.TagInput) (domain.Tag, error) {
	if s.createTagFn == nil {
		return domain.Tag{}, errStubNotConfigured
	}
	return s.createTagFn(ctx, userID, input)
}

func (s *stubCatalogService) DeleteTag(ctx context.Context, userID string, id uint) error {
	if s.deleteTagFn == nil {
		return errStubNotConfigured
	}
	return s.deleteTagFn(ctx, userID, id)
}

func (s *stubCatalogService) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	if s.listTagsFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listTagsFn(ctx, userID)
}

func (s *stubCatalogService) SearchArtistBases(ctx context.Context, userID string, input services.ArtistBaseSearchInput) ([]domain.ArtistBase, error) {
	if s.searchBasesFn == nil {
		return nil, errStubNotConfigured
	}
	return s.searchBasesFn(ctx, userID, input)
}

type stubOrderService struct {
	services.OrderService

	createFn     func(ctx context.Context, userID string, input services.CreateOrderInput) (domain.Order, error)
	updateFn     func(ctx context.Context, userID string, orderID uint, input services.UpdateOrderInput) (domain.Order, error)
	getFn        func(ctx context.Context, userID string, orderID uint) (domain.Order, error)
	listFn       func(ctx context.Context, userID string, filter services.OrderListFilter) ([]domain.Order, error)
	topFn        func(ctx context.Context, userID string) ([]domain.Order, error)
	addLineFn    func(ctx context.Context, userID string, orderID uint, input services.OrderLineInput) (domain.Order, error)
	deleteLineFn func(ctx context.Context, userID string, orderID, lineID uint) (domain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, userID string, input services.CreateOrderInput) (domain.Order, error) {
	if s.createFn == nil {
		return domain.Order{}, errStubNotConfigured
	}
	return s.createFn(ctx, userID, input)
}

func (s *stubOrderService) Update(ctx context.Context, userID string, orderID uint, input services.UpdateOrderInput) (domain.Order, error) {
	if s.updateFn == nil {
		return domain.Order{}, errStubNotConfigured
	}
	return s.updateFn(ctx, userID, orderID, input)
}

func (s *stubOrderService) Get(ctx context.Context, userID string, orderID uint) (domain.Order, error) {
	if s.getFn == nil {
		return domain.Order{}, errStubNotConfigured
	}
	return s.getFn(ctx, userID, orderID)
}

func (s *stubOrderService) List(ctx context.Context, userID string, filter services.OrderListFilter) ([]domain.Order, error) {
	if s.listFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listFn(ctx, userID, filter)
}

func (s *stubOrderService) TopActive(ctx context.Context, userID string) ([]domain.Order, error) {
	if s.topFn == nil {
		return nil, errStubNotConfigured
	}
	return s.topFn(ctx, userID)
}

func (s *stubOrderService) AddLine(ctx context.Context, userID string, orderID uint, input services.OrderLineInput) (domain.Order, error) {
	if s.addLineFn == nil {
		return domain.Order{}, errStubNotConfigured
	}
	return s.addLineFn(ctx, userID, orderID, input)
}

func (s *stubOrderService) DeleteLine(ctx context.Context, userID string, orderID, lineID uint) (domain.Order, error) {
	if s.deleteLineFn == nil {
		return domain.Order{}, errStubNotConfigured
	}
	return s.deleteLineFn(ctx, userID, orderID, lineID)
}

type stubExportService struct {
	workbookFn func(ctx context.Context, userID string) ([]byte, error)
}

func (s *stubExportService) Workbook(ctx context.Context, userID string) ([]byte, error) {
	if s.workbookFn == nil {
		return nil, errStubNotConfigured
	}
	return s.workbookFn(ctx, userID)
}

type stubHealthRepository struct {
	report domain.HealthReport
	err    error
}

func (s *stubHealthRepository) Collect(context.Context) (domain.HealthReport, error) {
	return s.report, s.err
}

func fixedTime() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}
