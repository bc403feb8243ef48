package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/search"
)

// The mocks below default to an in-memory store so services can be tested
// through whole scenarios. Setting a Func field overrides that behaviour.

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User

	CreateFunc      func(ctx context.Context, user *domain.User) error
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func NewMockUserRepository(users ...domain.User) *MockUserRepository {
	m := &MockUserRepository{users: make(map[string]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	user.UpdatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return m.FindByID(ctx, id)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.FindByEmail(ctx, email)
	return u != nil, err
}

func (m *MockUserRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.CNPJ != nil && *u.CNPJ == cnpj {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.CPF != nil && *u.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) activeSellers(status *domain.SellerStatus) []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		if u.Role != domain.UserRoleSeller || !u.Ativo {
			continue
		}
		if status != nil && u.CurrentSellerStatus() != *status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MockUserRepository) FindSellers(ctx context.Context, status *domain.SellerStatus, page domain.PageRequest) ([]domain.User, int64, error) {
	all := m.activeSellers(status)
	return paginate(all, page), int64(len(all)), nil
}

func (m *MockUserRepository) CountSellers(ctx context.Context) (int64, error) {
	return int64(len(m.activeSellers(nil))), nil
}

func (m *MockUserRepository) CountSellersByStatus(ctx context.Context, status domain.SellerStatus) (int64, error) {
	return int64(len(m.activeSellers(&status))), nil
}

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mu   sync.Mutex
	docs []domain.SellerDocument

	CreateFunc func(ctx context.Context, doc *domain.SellerDocument) error
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{}
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.SellerDocument) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doc)
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *domain.SellerDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == doc.ID {
			m.docs[i] = *doc
			return nil
		}
	}
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*domain.SellerDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, nil
}

func (m *MockDocumentRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.SellerDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.SellerDocument{}
	for _, d := range m.docs {
		if d.SellerID == sellerID {
			out = append(out, d)
		}
	}
	return out, nil
}

// MockStatusHistoryRepository is a mock implementation of StatusHistoryRepository
type MockStatusHistoryRepository struct {
	mu      sync.Mutex
	Entries []domain.StatusHistoryEntry

	AppendFunc func(ctx context.Context, entry *domain.StatusHistoryEntry) error
}

func NewMockStatusHistoryRepository() *MockStatusHistoryRepository {
	return &MockStatusHistoryRepository{}
}

func (m *MockStatusHistoryRepository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *entry)
	return nil
}

func (m *MockStatusHistoryRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.StatusHistoryEntry{}
	for _, e := range m.Entries {
		if e.SellerID == sellerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockListingRepository is a mock implementation of ListingRepository.
// Images, when set, is used to preload listing images.
type MockListingRepository struct {
	mu       sync.Mutex
	listings map[string]domain.Listing
	Images   *MockImageRepository

	CreateFunc func(ctx context.Context, listing *domain.Listing) error
	SaveFunc   func(ctx context.Context, listing *domain.Listing) error
}

func NewMockListingRepository(images *MockImageRepository) *MockListingRepository {
	return &MockListingRepository{listings: make(map[string]domain.Listing), Images: images}
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, listing)
	}
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	listing.UpdatedAt = listing.CreatedAt
	return m.put(listing)
}

// Seed stores listings as given, bypassing Create hooks.
func (m *MockListingRepository) Seed(listings ...domain.Listing) {
	for i := range listings {
		_ = m.put(&listings[i])
	}
}

func (m *MockListingRepository) Save(ctx context.Context, listing *domain.Listing) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, listing)
	}
	listing.UpdatedAt = time.Now()
	return m.put(listing)
}

func (m *MockListingRepository) put(listing *domain.Listing) error {
	stored := *listing
	stored.Images = nil
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[stored.ID] = stored
	return nil
}

func (m *MockListingRepository) withImages(l domain.Listing) domain.Listing {
	if m.Images != nil {
		l.Images, _ = m.Images.FindByListing(context.Background(), l.ID)
	}
	return l
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	m.mu.Lock()
	l, ok := m.listings[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	l = m.withImages(l)
	return &l, nil
}

func (m *MockListingRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Listing, error) {
	return m.FindByID(ctx, id)
}

func (m *MockListingRepository) ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.LotNumber == lotNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockListingRepository) FindAll(ctx context.Context, spec search.Specification) ([]domain.Listing, error) {
	m.mu.Lock()
	all := make([]domain.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		all = append(all, l)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	matched := spec.Apply(all)
	for i := range matched {
		matched[i] = m.withImages(matched[i])
	}
	return matched, nil
}

func (m *MockListingRepository) Search(ctx context.Context, spec search.Specification, s search.Sort, page domain.PageRequest) ([]domain.Listing, int64, error) {
	matched, _ := m.FindAll(ctx, spec)
	s.Apply(matched)
	return paginate(matched, page), int64(len(matched)), nil
}

// MockImageRepository is a mock implementation of ImageRepository
type MockImageRepository struct {
	mu     sync.Mutex
	images map[string]domain.ListingImage

	DeleteFunc func(ctx context.Context, id string) error
}

func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{images: make(map[string]domain.ListingImage)}
}

func (m *MockImageRepository) Create(ctx context.Context, image *domain.ListingImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.CreatedAt = time.Now()
	return m.Save(ctx, image)
}

func (m *MockImageRepository) Save(ctx context.Context, image *domain.ListingImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[image.ID] = *image
	return nil
}

func (m *MockImageRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, id)
	return nil
}

func (m *MockImageRepository) FindByID(ctx context.Context, id string) (*domain.ListingImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img, ok := m.images[id]; ok {
		return &img, nil
	}
	return nil, nil
}

func (m *MockImageRepository) FindByListing(ctx context.Context, listingID string) ([]domain.ListingImage, error) {
	m.mu.Lock()
	out := []domain.ListingImage{}
	for _, img := range m.images {
		if img.ListingID == listingID {
			out = append(out, img)
		}
	}
	m.mu.Unlock()
	domain.SortImages(out)
	return out, nil
}

func (m *MockImageRepository) MaxOrder(ctx context.Context, listingID string) (int, error) {
	images, _ := m.FindByListing(ctx, listingID)
	max := 0
	for _, img := range images {
		if img.Order > max {
			max = img.Order
		}
	}
	return max, nil
}

func (m *MockImageRepository) ClearPrincipal(ctx context.Context, listingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, img := range m.images {
		if img.ListingID == listingID && img.Principal {
			img.Principal = false
			m.images[id] = img
		}
	}
	return nil
}

// MockFavoriteRepository is a mock implementation of FavoriteRepository.
// Listings, when set, is used to preload the favorited listing.
type MockFavoriteRepository struct {
	mu        sync.Mutex
	favorites []domain.Favorite
	Listings  *MockListingRepository
}

func NewMockFavoriteRepository(listings *MockListingRepository) *MockFavoriteRepository {
	return &MockFavoriteRepository{Listings: listings}
}

func (m *MockFavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	if fav.ID == "" {
		fav.ID = uuid.New().String()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites = append(m.favorites, *fav)
	return nil
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, listingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.favorites {
		if f.UserID == userID && f.ListingID == listingID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favorites {
		if f.UserID == userID && f.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	m.mu.Lock()
	out := []domain.Favorite{}
	for i := len(m.favorites) - 1; i >= 0; i-- {
		if m.favorites[i].UserID == userID {
			out = append(out, m.favorites[i])
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if m.Listings != nil {
		for i := range out {
			out[i].Listing, _ = m.Listings.FindByID(ctx, out[i].ListingID)
		}
	}
	return out, nil
}

func (m *MockFavoriteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	favs, _ := m.FindByUser(ctx, userID)
	return int64(len(favs)), nil
}

// MockTransactor runs fn directly. Failed units of work are not rolled back.
type MockTransactor struct {
	Calls int
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

func paginate[T any](items []T, page domain.PageRequest) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
