package ports

import (
	"context"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/search"
)

// Finders return (nil, nil) when the row does not exist.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	// FindSellers lists active sellers, optionally restricted to one status.
	FindSellers(ctx context.Context, status *domain.SellerStatus, page domain.PageRequest) ([]domain.User, int64, error)
	CountSellers(ctx context.Context) (int64, error)
	CountSellersByStatus(ctx context.Context, status domain.SellerStatus) (int64, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.SellerDocument) error
	Save(ctx context.Context, doc *domain.SellerDocument) error
	FindByID(ctx context.Context, id string) (*domain.SellerDocument, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.SellerDocument, error)
}

// StatusHistoryRepository is append-only.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) error
	FindBySeller(ctx context.Context, sellerID string) ([]domain.StatusHistoryEntry, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	Save(ctx context.Context, listing *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Listing, error)
	ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error)
	// Search runs spec with sort and paging and preloads images.
	Search(ctx context.Context, spec search.Specification, sort search.Sort, page domain.PageRequest) ([]domain.Listing, int64, error)
	// FindAll returns every listing matching spec with images, unpaged.
	FindAll(ctx context.Context, spec search.Specification) ([]domain.Listing, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *domain.ListingImage) error
	Save(ctx context.Context, image *domain.ListingImage) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.ListingImage, error)
	// FindByListing returns images ordered by order index.
	FindByListing(ctx context.Context, listingID string) ([]domain.ListingImage, error)
	MaxOrder(ctx context.Context, listingID string) (int, error)
	ClearPrincipal(ctx context.Context, listingID string) error
}

type FavoriteRepository interface {
	Create(ctx context.Context, fav *domain.Favorite) error
	Delete(ctx context.Context, userID, listingID string) (bool, error)
	Exists(ctx context.Context, userID, listingID string) (bool, error)
	// FindByUser returns favorites newest first with the listing preloaded.
	FindByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// Transactor runs fn in one unit of work. Repositories called with the ctx
// passed to fn take part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
