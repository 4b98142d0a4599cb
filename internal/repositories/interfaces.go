package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
)

// Registry exposes typed repository accessors plus the transactional boundary.
type Registry interface {
	Users() UserRepository
	Artists() ArtistRepository
	ArtistBases() ArtistBaseRepository
	Tags() TagRepository
	Customers() CustomerRepository
	Products() ProductRepository
	Commissions() CommissionRepository
	Orders() OrderRepository
	UnitOfWork
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UnitOfWork groups repository operations in a transactional boundary.
// Repository calls made with the context passed to fn join the transaction.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IsNotFound reports whether err categorises as a missing row.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err categorises as a uniqueness or version conflict.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err categorises as a transient store failure.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// UserRepository persists accounts created through Google sign-in.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

// ArtistRepository persists artists scoped to their owning account.
type ArtistRepository interface {
	Insert(ctx context.Context, artist domain.Artist) (domain.Artist, error)
	Update(ctx context.Context, artist domain.Artist) (domain.Artist, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Artist, error)
	List(ctx context.Context, userID string) ([]domain.Artist, error)
}

// ArtistBaseFilter narrows base searches. TagIDs use AND semantics: a base
// matches only when it carries every listed tag.
type ArtistBaseFilter struct {
	Name     string
	TagIDs   []uint
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ArtistBaseRepository persists bases together with their tag associations.
type ArtistBaseRepository interface {
	Insert(ctx context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error)
	Update(ctx context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.ArtistBase, error)
	List(ctx context.Context, userID string) ([]domain.ArtistBase, error)
	Search(ctx context.Context, userID string, filter ArtistBaseFilter) ([]domain.ArtistBase, error)
}

// TagRepository persists tags with case-insensitive per-account name uniqueness.
type TagRepository interface {
	Insert(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Tag, error)
	FindByName(ctx context.Context, userID string, name string) (domain.Tag, error)
	FindByIDs(ctx context.Context, userID string, ids []uint) ([]domain.Tag, error)
	List(ctx context.Context, userID string) ([]domain.Tag, error)
	InUse(ctx context.Context, id uint) (bool, error)
}

// CustomerRepository persists commissioning clients.
type CustomerRepository interface {
	Insert(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Customer, error)
	List(ctx context.Context, userID string) ([]domain.Customer, error)
}

// ProductRepository persists catalog items.
type ProductRepository interface {
	Insert(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Product, error)
	List(ctx context.Context, userID string) ([]domain.Product, error)
	ListAvailable(ctx context.Context, userID string) ([]domain.Product, error)
}

// CommissionRepository persists commission offerings.
type CommissionRepository interface {
	Insert(ctx context.Context, commission domain.Commission) (domain.Commission, error)
	Update(ctx context.Context, commission domain.Commission) (domain.Commission, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Commission, error)
	List(ctx context.Context, userID string) ([]domain.Commission, error)
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID *uint
	Status     *domain.OrderStatus
}

// OrderRepository persists orders and their lines. Update and UpdateLine
// apply optimistic version checks and report a conflict on a stale version.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
	Delete(ctx context.Context, userID string, id uint) error
	FindByID(ctx context.Context, userID string, id uint) (domain.Order, error)
	List(ctx context.Context, userID string, filter OrderFilter) ([]domain.Order, error)
	ListActive(ctx context.Context, userID string, limit int) ([]domain.Order, error)

	InsertLine(ctx context.Context, line domain.OrderLine) (domain.OrderLine, error)
	UpdateLine(ctx context.Context, line domain.OrderLine) (domain.OrderLine, error)
	DeleteLine(ctx context.Context, orderID, lineID uint) error
	FindLine(ctx context.Context, orderID, lineID uint) (domain.OrderLine, error)
	ListLines(ctx context.Context, orderID uint) ([]domain.OrderLine, error)
	ListLinesByUser(ctx context.Context, userID string) ([]domain.OrderLine, error)
	UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error
}
