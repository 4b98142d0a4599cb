package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
)

func newProductFixture(t *testing.T) (*memoryRegistry, ProductService, domain.Artist) {
	t.Helper()

	registry := newMemoryRegistry()
	svc, err := NewProductService(ProductServiceDeps{Registry: registry})
	if err != nil {
		t.Fatalf("NewProductService: %v", err)
	}
	artist, err := registry.Artists().Insert(context.Background(), domain.Artist{
		UserID: testUserID,
		Name:   "Nightbrush",
	})
	if err != nil {
		t.Fatalf("insert artist: %v", err)
	}
	return registry, svc, artist
}

func TestProductServiceValidation(t *testing.T) {
	_, svc, artist := newProductFixture(t)

	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "",
		Price:      decimal.RequireFromString("10.00"),
		ArtistID:   &artist.ID,
		AdImageKey: "products/ad.png",
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("blank name = %v, want ErrProductInvalidInput", err)
	}

	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Sketch",
		Price:      decimal.RequireFromString("-1.00"),
		ArtistID:   &artist.ID,
		AdImageKey: "products/ad.png",
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("negative price = %v, want ErrProductInvalidInput", err)
	}

	unknown := uint(999)
	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Sketch",
		Price:      decimal.RequireFromString("10.00"),
		ArtistID:   &unknown,
		AdImageKey: "products/ad.png",
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("unknown artist = %v, want ErrProductInvalidInput", err)
	}

	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Sketch",
		Price:      decimal.RequireFromString("10.00"),
		AdImageKey: "products/ad.png",
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("missing artist = %v, want ErrProductInvalidInput", err)
	}

	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:     "Sketch",
		Price:    decimal.RequireFromString("10.00"),
		ArtistID: &artist.ID,
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("missing ad image = %v, want ErrProductInvalidInput", err)
	}
}

func TestProductServiceListAvailable(t *testing.T) {
	_, svc, artist := newProductFixture(t)

	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Sketch",
		Price:      decimal.RequireFromString("10.00"),
		ArtistID:   &artist.ID,
		AdImageKey: "products/sketch.png",
		Available:  true,
	}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Retired piece",
		Price:      decimal.RequireFromString("99.00"),
		ArtistID:   &artist.ID,
		AdImageKey: "products/retired.png",
	}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	available, err := svc.ListAvailableProducts(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListAvailableProducts: %v", err)
	}
	if len(available) != 1 || available[0].Name != "Sketch" {
		t.Fatalf("available = %+v", available)
	}

	all, err := svc.ListProducts(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}
}

func TestProductServiceDeleteReturnsRecord(t *testing.T) {
	_, svc, artist := newProductFixture(t)

	product, err := svc.CreateProduct(context.Background(), testUserID, ProductInput{
		Name:       "Sketch",
		Price:      decimal.RequireFromString("10.00"),
		ArtistID:   &artist.ID,
		AdImageKey: "products/ad.png",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	deleted, err := svc.DeleteProduct(context.Background(), testUserID, product.ID)
	if err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if deleted.AdImageKey != "products/ad.png" {
		t.Fatalf("deleted record = %+v", deleted)
	}

	if _, err := svc.GetProduct(context.Background(), testUserID, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("get after delete = %v, want ErrProductNotFound", err)
	}
}

func TestProductServiceCommissionValidation(t *testing.T) {
	_, svc, _ := newProductFixture(t)

	if _, err := svc.CreateCommission(context.Background(), testUserID, CommissionInput{
		Name:  "YCH slot",
		Price: decimal.RequireFromString("40.00"),
		Type:  domain.CommissionType("sculpture"),
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("unknown type = %v, want ErrProductInvalidInput", err)
	}

	if _, err := svc.CreateCommission(context.Background(), testUserID, CommissionInput{
		Name:  "YCH slot",
		Price: decimal.RequireFromString("40.00"),
		Type:  domain.CommissionTypeDigital,
		Slots: -1,
	}); !errors.Is(err, ErrProductInvalidInput) {
		t.Fatalf("negative slots = %v, want ErrProductInvalidInput", err)
	}

	commission, err := svc.CreateCommission(context.Background(), testUserID, CommissionInput{
		Name:  "YCH slot",
		Price: decimal.RequireFromString("40.00"),
		Type:  domain.CommissionTypeDigital,
		Slots: 3,
	})
	if err != nil {
		t.Fatalf("CreateCommission: %v", err)
	}
	if commission.Slots != 3 {
		t.Fatalf("slots = %d, want 3", commission.Slots)
	}
}
