package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
)

// AuthSession is the result of a successful Google sign-in exchange.
type AuthSession struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthService exchanges Google ID tokens for API sessions.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (AuthSession, error)
	CurrentUser(ctx context.Context, userID string) (domain.User, error)
}

// ArtistInput carries the writable artist fields.
type ArtistInput struct {
	Name        string
	Description string
	SocialLink  string
}

// TagInput carries the writable tag fields.
type TagInput struct {
	Name string
}

// ArtistBaseInput carries the writable base fields. File keys are produced
// by the asset service before persistence.
type ArtistBaseInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	ArtistID      *uint
	TagIDs        []uint
	ImageKey      string
	SourceFileKey string
}

// ArtistBaseSearchInput narrows base searches. Tags are referenced by id
// and use AND semantics.
type ArtistBaseSearchInput struct {
	Name     string
	TagIDs   []uint
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// CatalogService manages artists, artist bases, and tags.
type CatalogService interface {
	CreateArtist(ctx context.Context, userID string, input ArtistInput) (domain.Artist, error)
	UpdateArtist(ctx context.Context, userID string, id uint, input ArtistInput) (domain.Artist, error)
	DeleteArtist(ctx context.Context, userID string, id uint) error
	GetArtist(ctx context.Context, userID string, id uint) (domain.Artist, error)
	ListArtists(ctx context.Context, userID string) ([]domain.Artist, error)

	CreateArtistBase(ctx context.Context, userID string, input ArtistBaseInput) (domain.ArtistBase, error)
	UpdateArtistBase(ctx context.Context, userID string, id uint, input ArtistBaseInput) (domain.ArtistBase, error)
	DeleteArtistBase(ctx context.Context, userID string, id uint) (domain.ArtistBase, error)
	GetArtistBase(ctx context.Context, userID string, id uint) (domain.ArtistBase, error)
	ListArtistBases(ctx context.Context, userID string) ([]domain.ArtistBase, error)
	SearchArtistBases(ctx context.Context, userID string, input ArtistBaseSearchInput) ([]domain.ArtistBase, error)

	CreateTag(ctx context.Context, userID string, input TagInput) (domain.Tag, error)
	UpdateTag(ctx context.Context, userID string, id uint, input TagInput) (domain.Tag, error)
	DeleteTag(ctx context.Context, userID string, id uint) error
	GetTag(ctx context.Context, userID string, id uint) (domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name        string
	Email       string
	Discord     string
	Twitter     string
	Furaffinity string
	Instagram   string
	Telegram    string
	OtherName   string
	OtherLink   string
}

// CustomerService manages commissioning clients.
type CustomerService interface {
	Create(ctx context.Context, userID string, input CustomerInput) (domain.Customer, error)
	Update(ctx context.Context, userID string, id uint, input CustomerInput) (domain.Customer, error)
	Delete(ctx context.Context, userID string, id uint) error
	Get(ctx context.Context, userID string, id uint) (domain.Customer, error)
	List(ctx context.Context, userID string) ([]domain.Customer, error)
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ArtistID    *uint
	BaseID      *uint
	AdImageKey  string
	Available   bool
}

// CommissionInput carries the writable commission fields.
type CommissionInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Type        domain.CommissionType
	Slots       int
	ArtistID    *uint
	BaseID      *uint
	AdImageURL  string
}

// ProductService manages sellable products and commission offerings.
type ProductService interface {
	CreateProduct(ctx context.Context, userID string, input ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, userID string, id uint, input ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, userID string, id uint) (domain.Product, error)
	GetProduct(ctx context.Context, userID string, id uint) (domain.Product, error)
	ListProducts(ctx context.Context, userID string) ([]domain.Product, error)
	ListAvailableProducts(ctx context.Context, userID string) ([]domain.Product, error)

	CreateCommission(ctx context.Context, userID string, input CommissionInput) (domain.Commission, error)
	UpdateCommission(ctx context.Context, userID string, id uint, input CommissionInput) (domain.Commission, error)
	DeleteCommission(ctx context.Context, userID string, id uint) error
	GetCommission(ctx context.Context, userID string, id uint) (domain.Commission, error)
	ListCommissions(ctx context.Context, userID string) ([]domain.Commission, error)
}

// OrderLineInput carries the writable line fields. A nil unit price defaults
// to the product's current price.
type OrderLineInput struct {
	ProductID     uint
	Quantity      int
	UnitPrice     *decimal.Decimal
	DiscountLabel string
	Discount      decimal.Decimal
	Notes         string
}

// CreateOrderInput carries a new order together with its initial lines.
// A nil order date defaults to today; a nil due date defaults to three
// weeks after the order date.
type CreateOrderInput struct {
	CustomerID   *uint
	CommissionID *uint
	Status       domain.OrderStatus
	OrderDate    *time.Time
	Details      string
	Notes        string
	DiscountNote string
	Paid         bool
	Posted       bool
	StartedAt    *time.Time
	DueAt        *time.Time
	Lines        []OrderLineInput
}

// UpdateOrderInput carries the writable order header fields plus the
// expected version for optimistic concurrency. A nil order date keeps the
// stored one.
type UpdateOrderInput struct {
	CustomerID   *uint
	CommissionID *uint
	Status       domain.OrderStatus
	OrderDate    *time.Time
	Details      string
	Notes        string
	DiscountNote string
	Paid         bool
	Posted       bool
	StartedAt    *time.Time
	DueAt        *time.Time
	Version      int
}

// UpdateOrderLineInput carries the writable line fields plus the expected version.
type UpdateOrderLineInput struct {
	ProductID     uint
	Quantity      int
	UnitPrice     *decimal.Decimal
	DiscountLabel string
	Discount      decimal.Decimal
	Notes         string
	Version       int
}

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	CustomerID *uint
	Status     *domain.OrderStatus
}

// OrderService owns order and line lifecycle including total aggregation.
// Line mutations return the refreshed order with its recomputed total.
type OrderService interface {
	Create(ctx context.Context, userID string, input CreateOrderInput) (domain.Order, error)
	Update(ctx context.Context, userID string, orderID uint, input UpdateOrderInput) (domain.Order, error)
	Delete(ctx context.Context, userID string, orderID uint) error
	Get(ctx context.Context, userID string, orderID uint) (domain.Order, error)
	List(ctx context.Context, userID string, filter OrderListFilter) ([]domain.Order, error)
	TopActive(ctx context.Context, userID string) ([]domain.Order, error)

	AddLine(ctx context.Context, userID string, orderID uint, input OrderLineInput) (domain.Order, error)
	UpdateLine(ctx context.Context, userID string, orderID, lineID uint, input UpdateOrderLineInput) (domain.Order, error)
	DeleteLine(ctx context.Context, userID string, orderID, lineID uint) (domain.Order, error)
}

// FileUpload is an incoming multipart file.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// AssetStore abstracts the object bucket used for uploaded files.
type AssetStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
}

// AssetURLSigner resolves a storage key into a time-limited download URL.
type AssetURLSigner interface {
	SignedDownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// AssetService validates uploads, streams them to storage, and resolves
// signed download URLs for stored keys.
type AssetService interface {
	StoreImage(ctx context.Context, prefix string, upload FileUpload) (string, error)
	StoreBaseFile(ctx context.Context, prefix string, upload FileUpload) (string, error)
	ResolveURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string)
}

// ExportService renders the account's data as a spreadsheet workbook.
type ExportService interface {
	Workbook(ctx context.Context, userID string) ([]byte, error)
}
