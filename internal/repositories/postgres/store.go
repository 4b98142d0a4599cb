package postgres

import (
	"context"
	"errors"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

type txContextKey struct{}

// Open connects to PostgreSQL with error translation enabled so uniqueness
// violations surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Artist{},
		&domain.Tag{},
		&domain.ArtistBase{},
		&domain.Customer{},
		&domain.Product{},
		&domain.Commission{},
		&domain.Order{},
		&domain.OrderLine{},
	)
}

// Store implements repositories.Registry on a gorm database handle.
type Store struct {
	db *gorm.DB
}

var _ repositories.Registry = (*Store)(nil)

// NewStore wraps the provided gorm handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres: db handle is required")
	}
	return &Store{db: db}, nil
}

func (s *Store) Users() repositories.UserRepository               { return &userRepository{store: s} }
func (s *Store) Artists() repositories.ArtistRepository           { return &artistRepository{store: s} }
func (s *Store) ArtistBases() repositories.ArtistBaseRepository   { return &artistBaseRepository{store: s} }
func (s *Store) Tags() repositories.TagRepository                 { return &tagRepository{store: s} }
func (s *Store) Customers() repositories.CustomerRepository       { return &customerRepository{store: s} }
func (s *Store) Products() repositories.ProductRepository         { return &productRepository{store: s} }
func (s *Store) Commissions() repositories.CommissionRepository   { return &commissionRepository{store: s} }
func (s *Store) Orders() repositories.OrderRepository             { return &orderRepository{store: s} }

// RunInTx executes fn inside a database transaction. Repository calls made
// with the context passed to fn join the transaction; nested calls reuse the
// enclosing transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return errors.New("postgres: transaction function is required")
	}
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// Ping verifies the underlying database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// handle resolves the gorm handle for the current context, preferring an
// enclosing transaction.
func (s *Store) handle(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
