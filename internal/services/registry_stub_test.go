package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

// stubRepoError satisfies repositories.RepositoryError for test doubles.
type stubRepoError struct {
	msg      string
	notFound bool
	conflict bool
}

func (e *stubRepoError) Error() string       { return e.msg }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return e.conflict }
func (e *stubRepoError) IsUnavailable() bool { return false }

func stubNotFound(format string, args ...interface{}) error {
	return &stubRepoError{msg: fmt.Sprintf(format, args...), notFound: true}
}

func stubConflict(format string, args ...interface{}) error {
	return &stubRepoError{msg: fmt.Sprintf(format, args...), conflict: true}
}

// memoryRegistry is an in-memory repositories.Registry for service tests.
// RunInTx simply invokes the callback; transactional behaviour is covered by
// the store tests.
type memoryRegistry struct {
	users       map[string]domain.User
	artists     map[uint]domain.Artist
	bases       map[uint]domain.ArtistBase
	tags        map[uint]domain.Tag
	customers   map[uint]domain.Customer
	products    map[uint]domain.Product
	commissions map[uint]domain.Commission
	orders      map[uint]domain.Order
	lines       map[uint]domain.OrderLine

	nextID  uint
	txCalls int
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{
		users:       map[string]domain.User{},
		artists:     map[uint]domain.Artist{},
		bases:       map[uint]domain.ArtistBase{},
		tags:        map[uint]domain.Tag{},
		customers:   map[uint]domain.Customer{},
		products:    map[uint]domain.Product{},
		commissions: map[uint]domain.Commission{},
		orders:      map[uint]domain.Order{},
		lines:       map[uint]domain.OrderLine{},
	}
}

func (r *memoryRegistry) id() uint {
	r.nextID++
	return r.nextID
}

func (r *memoryRegistry) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txCalls++
	return fn(ctx)
}

func (r *memoryRegistry) Users() repositories.UserRepository { return &memUserRepo{r} }
func (r *memoryRegistry) Artists() repositories.ArtistRepository { return &memArtistRepo{r} }
func (r *memoryRegistry) ArtistBases() repositories.ArtistBaseRepository { return &memBaseRepo{r} }
func (r *memoryRegistry) Tags() repositories.TagRepository { return &memTagRepo{r} }
func (r *memoryRegistry) Customers() repositories.CustomerRepository { return &memCustomerRepo{r} }
func (r *memoryRegistry) Products() repositories.ProductRepository { return &memProductRepo{r} }
func (r *memoryRegistry) Commissions() repositories.CommissionRepository { return &memCommissionRepo{r} }
func (r *memoryRegistry) Orders() repositories.OrderRepository { return &memOrderRepo{r} }

type memUserRepo struct{ r *memoryRegistry }

func (m *memUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	if user, ok := m.r.users[id]; ok {
		return user, nil
	}
	return domain.User{}, stubNotFound("user %s", id)
}

func (m *memUserRepo) FindByGoogleID(_ context.Context, googleID string) (domain.User, error) {
	for _, user := range m.r.users {
		if user.GoogleID == googleID {
			return user, nil
		}
	}
	return domain.User{}, stubNotFound("google id %s", googleID)
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range m.r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, stubNotFound("email %s", email)
}

func (m *memUserRepo) Insert(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := m.r.users[user.ID]; ok {
		return domain.User{}, stubConflict("user %s exists", user.ID)
	}
	m.r.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := m.r.users[user.ID]; !ok {
		return domain.User{}, stubNotFound("user %s", user.ID)
	}
	m.r.users[user.ID] = user
	return user, nil
}

type memArtistRepo struct{ r *memoryRegistry }

func (m *memArtistRepo) Insert(_ context.Context, artist domain.Artist) (domain.Artist, error) {
	artist.ID = m.r.id()
	m.r.artists[artist.ID] = artist
	return artist, nil
}

func (m *memArtistRepo) Update(_ context.Context, artist domain.Artist) (domain.Artist, error) {
	existing, ok := m.r.artists[artist.ID]
	if !ok || existing.UserID != artist.UserID {
		return domain.Artist{}, stubNotFound("artist %d", artist.ID)
	}
	m.r.artists[artist.ID] = artist
	return artist, nil
}

func (m *memArtistRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.artists[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("artist %d", id)
	}
	delete(m.r.artists, id)
	return nil
}

func (m *memArtistRepo) FindByID(_ context.Context, userID string, id uint) (domain.Artist, error) {
	existing, ok := m.r.artists[id]
	if !ok || existing.UserID != userID {
		return domain.Artist{}, stubNotFound("artist %d", id)
	}
	return existing, nil
}

func (m *memArtistRepo) List(_ context.Context, userID string) ([]domain.Artist, error) {
	var out []domain.Artist
	for _, artist := range m.r.artists {
		if artist.UserID == userID {
			out = append(out, artist)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memBaseRepo struct{ r *memoryRegistry }

func (m *memBaseRepo) resolveTags(base *domain.ArtistBase, tagIDs []uint) {
	base.Tags = nil
	for _, id := range tagIDs {
		if tag, ok := m.r.tags[id]; ok {
			base.Tags = append(base.Tags, tag)
		}
	}
}

func (m *memBaseRepo) Insert(_ context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error) {
	base.ID = m.r.id()
	m.resolveTags(&base, tagIDs)
	m.r.bases[base.ID] = base
	return base, nil
}

func (m *memBaseRepo) Update(_ context.Context, base domain.ArtistBase, tagIDs []uint) (domain.ArtistBase, error) {
	existing, ok := m.r.bases[base.ID]
	if !ok || existing.UserID != base.UserID {
		return domain.ArtistBase{}, stubNotFound("base %d", base.ID)
	}
	m.resolveTags(&base, tagIDs)
	m.r.bases[base.ID] = base
	return base, nil
}

func (m *memBaseRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.bases[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("base %d", id)
	}
	delete(m.r.bases, id)
	return nil
}

func (m *memBaseRepo) FindByID(_ context.Context, userID string, id uint) (domain.ArtistBase, error) {
	existing, ok := m.r.bases[id]
	if !ok || existing.UserID != userID {
		return domain.ArtistBase{}, stubNotFound("base %d", id)
	}
	return existing, nil
}

func (m *memBaseRepo) List(_ context.Context, userID string) ([]domain.ArtistBase, error) {
	var out []domain.ArtistBase
	for _, base := range m.r.bases {
		if base.UserID == userID {
			out = append(out, base)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBaseRepo) Search(_ context.Context, userID string, filter repositories.ArtistBaseFilter) ([]domain.ArtistBase, error) {
	var out []domain.ArtistBase
	for _, base := range m.r.bases {
		if base.UserID != userID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(base.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.MinPrice != nil && base.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && base.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if !hasAllTags(base.Tags, filter.TagIDs) {
			continue
		}
		out = append(out, base)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasAllTags(tags []domain.Tag, ids []uint) bool {
	for _, id := range ids {
		found := false
		for _, tag := range tags {
			if tag.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type memTagRepo struct{ r *memoryRegistry }

func (m *memTagRepo) Insert(_ context.Context, tag domain.Tag) (domain.Tag, error) {
	tag.ID = m.r.id()
	m.r.tags[tag.ID] = tag
	return tag, nil
}

func (m *memTagRepo) Update(_ context.Context, tag domain.Tag) (domain.Tag, error) {
	existing, ok := m.r.tags[tag.ID]
	if !ok || existing.UserID != tag.UserID {
		return domain.Tag{}, stubNotFound("tag %d", tag.ID)
	}
	m.r.tags[tag.ID] = tag
	return tag, nil
}

func (m *memTagRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.tags[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("tag %d", id)
	}
	delete(m.r.tags, id)
	return nil
}

func (m *memTagRepo) FindByID(_ context.Context, userID string, id uint) (domain.Tag, error) {
	existing, ok := m.r.tags[id]
	if !ok || existing.UserID != userID {
		return domain.Tag{}, stubNotFound("tag %d", id)
	}
	return existing, nil
}

func (m *memTagRepo) FindByName(_ context.Context, userID string, name string) (domain.Tag, error) {
	for _, tag := range m.r.tags {
		if tag.UserID == userID && strings.EqualFold(tag.Name, name) {
			return tag, nil
		}
	}
	return domain.Tag{}, stubNotFound("tag %q", name)
}

func (m *memTagRepo) FindByIDs(_ context.Context, userID string, ids []uint) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, id := range ids {
		if tag, ok := m.r.tags[id]; ok && tag.UserID == userID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (m *memTagRepo) List(_ context.Context, userID string) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, tag := range m.r.tags {
		if tag.UserID == userID {
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTagRepo) InUse(_ context.Context, id uint) (bool, error) {
	for _, base := range m.r.bases {
		for _, tag := range base.Tags {
			if tag.ID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

type memCustomerRepo struct{ r *memoryRegistry }

func (m *memCustomerRepo) Insert(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	customer.ID = m.r.id()
	m.r.customers[customer.ID] = customer
	return customer, nil
}

func (m *memCustomerRepo) Update(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	existing, ok := m.r.customers[customer.ID]
	if !ok || existing.UserID != customer.UserID {
		return domain.Customer{}, stubNotFound("customer %d", customer.ID)
	}
	m.r.customers[customer.ID] = customer
	return customer, nil
}

func (m *memCustomerRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.customers[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("customer %d", id)
	}
	delete(m.r.customers, id)
	return nil
}

func (m *memCustomerRepo) FindByID(_ context.Context, userID string, id uint) (domain.Customer, error) {
	existing, ok := m.r.customers[id]
	if !ok || existing.UserID != userID {
		return domain.Customer{}, stubNotFound("customer %d", id)
	}
	return existing, nil
}

func (m *memCustomerRepo) List(_ context.Context, userID string) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, customer := range m.r.customers {
		if customer.UserID == userID {
			out = append(out, customer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memProductRepo struct{ r *memoryRegistry }

func (m *memProductRepo) Insert(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = m.r.id()
	m.r.products[product.ID] = product
	return product, nil
}

func (m *memProductRepo) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	existing, ok := m.r.products[product.ID]
	if !ok || existing.UserID != product.UserID {
		return domain.Product{}, stubNotFound("product %d", product.ID)
	}
	m.r.products[product.ID] = product
	return product, nil
}

func (m *memProductRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.products[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("product %d", id)
	}
	delete(m.r.products, id)
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, userID string, id uint) (domain.Product, error) {
	existing, ok := m.r.products[id]
	if !ok || existing.UserID != userID {
		return domain.Product{}, stubNotFound("product %d", id)
	}
	return existing, nil
}

func (m *memProductRepo) List(_ context.Context, userID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, product := range m.r.products {
		if product.UserID == userID {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProductRepo) ListAvailable(_ context.Context, userID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, product := range m.r.products {
		if product.UserID == userID && product.Available {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memCommissionRepo struct{ r *memoryRegistry }

func (m *memCommissionRepo) Insert(_ context.Context, commission domain.Commission) (domain.Commission, error) {
	commission.ID = m.r.id()
	m.r.commissions[commission.ID] = commission
	return commission, nil
}

func (m *memCommissionRepo) Update(_ context.Context, commission domain.Commission) (domain.Commission, error) {
	existing, ok := m.r.commissions[commission.ID]
	if !ok || existing.UserID != commission.UserID {
		return domain.Commission{}, stubNotFound("commission %d", commission.ID)
	}
	m.r.commissions[commission.ID] = commission
	return commission, nil
}

func (m *memCommissionRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.commissions[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("commission %d", id)
	}
	delete(m.r.commissions, id)
	return nil
}

func (m *memCommissionRepo) FindByID(_ context.Context, userID string, id uint) (domain.Commission, error) {
	existing, ok := m.r.commissions[id]
	if !ok || existing.UserID != userID {
		return domain.Commission{}, stubNotFound("commission %d", id)
	}
	return existing, nil
}

func (m *memCommissionRepo) List(_ context.Context, userID string) ([]domain.Commission, error) {
	var out []domain.Commission
	for _, commission := range m.r.commissions {
		if commission.UserID == userID {
			out = append(out, commission)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memOrderRepo struct{ r *memoryRegistry }

func (m *memOrderRepo) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	order.ID = m.r.id()
	order.Version = 1
	m.r.orders[order.ID] = order
	return order, nil
}

func (m *memOrderRepo) Update(_ context.Context, order domain.Order) (domain.Order, error) {
	existing, ok := m.r.orders[order.ID]
	if !ok || existing.UserID != order.UserID {
		return domain.Order{}, stubNotFound("order %d", order.ID)
	}
	if existing.Version != order.Version {
		return domain.Order{}, stubConflict("order %d version %d", order.ID, order.Version)
	}
	order.Version = existing.Version + 1
	order.Total = existing.Total
	m.r.orders[order.ID] = order
	return order, nil
}

func (m *memOrderRepo) Delete(_ context.Context, userID string, id uint) error {
	existing, ok := m.r.orders[id]
	if !ok || existing.UserID != userID {
		return stubNotFound("order %d", id)
	}
	for lineID, line := range m.r.lines {
		if line.OrderID == id {
			delete(m.r.lines, lineID)
		}
	}
	delete(m.r.orders, id)
	return nil
}

func (m *memOrderRepo) FindByID(_ context.Context, userID string, id uint) (domain.Order, error) {
	existing, ok := m.r.orders[id]
	if !ok || existing.UserID != userID {
		return domain.Order{}, stubNotFound("order %d", id)
	}
	lines, _ := m.ListLines(context.Background(), id)
	existing.Lines = lines
	if existing.CustomerID != nil {
		if customer, ok := m.r.customers[*existing.CustomerID]; ok {
			existing.Customer = &customer
		}
	}
	return existing, nil
}

func (m *memOrderRepo) List(_ context.Context, userID string, filter repositories.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for id, order := range m.r.orders {
		if order.UserID != userID {
			continue
		}
		if filter.CustomerID != nil && (order.CustomerID == nil || *order.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		resolved, _ := m.FindByID(context.Background(), userID, id)
		out = append(out, resolved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrderRepo) ListActive(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	var out []domain.Order
	for id, order := range m.r.orders {
		if order.UserID != userID {
			continue
		}
		if order.Status == domain.OrderStatusCompleted || order.Status == domain.OrderStatusCancelled {
			continue
		}
		resolved, _ := m.FindByID(context.Background(), userID, id)
		out = append(out, resolved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOrderRepo) InsertLine(_ context.Context, line domain.OrderLine) (domain.OrderLine, error) {
	line.ID = m.r.id()
	line.Version = 1
	m.r.lines[line.ID] = line
	return line, nil
}

func (m *memOrderRepo) UpdateLine(_ context.Context, line domain.OrderLine) (domain.OrderLine, error) {
	existing, ok := m.r.lines[line.ID]
	if !ok || existing.OrderID != line.OrderID {
		return domain.OrderLine{}, stubNotFound("line %d", line.ID)
	}
	if existing.Version != line.Version {
		return domain.OrderLine{}, stubConflict("line %d version %d", line.ID, line.Version)
	}
	line.Version = existing.Version + 1
	m.r.lines[line.ID] = line
	return line, nil
}

func (m *memOrderRepo) DeleteLine(_ context.Context, orderID, lineID uint) error {
	existing, ok := m.r.lines[lineID]
	if !ok || existing.OrderID != orderID {
		return stubNotFound("line %d", lineID)
	}
	delete(m.r.lines, lineID)
	return nil
}

func (m *memOrderRepo) FindLine(_ context.Context, orderID, lineID uint) (domain.OrderLine, error) {
	existing, ok := m.r.lines[lineID]
	if !ok || existing.OrderID != orderID {
		return domain.OrderLine{}, stubNotFound("line %d", lineID)
	}
	return existing, nil
}

func (m *memOrderRepo) ListLines(_ context.Context, orderID uint) ([]domain.OrderLine, error) {
	var out []domain.OrderLine
	for _, line := range m.r.lines {
		if line.OrderID == orderID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrderRepo) ListLinesByUser(_ context.Context, userID string) ([]domain.OrderLine, error) {
	var out []domain.OrderLine
	for _, line := range m.r.lines {
		order, ok := m.r.orders[line.OrderID]
		if !ok || order.UserID != userID {
			continue
		}
		if product, ok := m.r.products[line.ProductID]; ok {
			line.Product = &product
		}
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrderRepo) UpdateTotal(_ context.Context, orderID uint, total decimal.Decimal) error {
	existing, ok := m.r.orders[orderID]
	if !ok {
		return stubNotFound("order %d", orderID)
	}
	existing.Total = total
	m.r.orders[orderID] = existing
	return nil
}
