package ports

import (
	"context"
	"errors"
	"time"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/search"
)

// Notifier announces seller status changes. Calls are best effort.
type Notifier interface {
	NotifyNewSellerPending(ctx context.Context, seller *domain.User) error
	NotifySellerApproved(ctx context.Context, seller *domain.User) error
	NotifySellerRejected(ctx context.Context, seller *domain.User, reason string) error
}

type BlobStore interface {
	Store(ctx context.Context, data []byte, suggestedName, mimeType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// EventPublisher emits domain events. Failures never fail the operation.
type EventPublisher interface {
	PublishSellerStatusChanged(ctx context.Context, event domain.SellerStatusChanged)
	PublishListingChanged(ctx context.Context, event domain.ListingChanged)
}

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CompanyInfo is what the CNPJ registry reports about a company.
type CompanyInfo struct {
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"nome"`
	NomeFantasia string `json:"fantasia"`
	Situacao     string `json:"situacao"`
	UF           string `json:"uf"`
	Municipio    string `json:"municipio"`
	Email        string `json:"email"`
}

func (c CompanyInfo) Active() bool { return c.Situacao == "ATIVA" }

type CNPJLookup interface {
	Lookup(ctx context.Context, cnpj string) (*CompanyInfo, error)
}

type Bank struct {
	ISPB     string `json:"ispb"`
	Name     string `json:"name"`
	Code     *int   `json:"code"`
	FullName string `json:"fullName"`
}

type BankDirectory interface {
	ListBanks(ctx context.Context) ([]Bank, error)
}

// AuthService issues and validates access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.Actor, error)
	Logout(ctx context.Context, token string) error
	HashPassword(password string) (string, error)
}

type RegisterSellerRequest struct {
	Name              string
	Email             string
	Password          string
	Phone             string
	CPF               string
	CNPJ              string
	RazaoSocial       string
	NomeFantasia      string
	InscricaoEstadual string
	CorporateEmail    string
}

type DocumentUpload struct {
	Type     domain.DocumentType
	Data     []byte
	Filename string
	MimeType string
}

type SellerService interface {
	Register(ctx context.Context, req RegisterSellerRequest) (*domain.User, error)
	Get(ctx context.Context, sellerID string) (*domain.User, error)
	ListByStatus(ctx context.Context, status *domain.SellerStatus, page domain.PageRequest) (domain.Page[domain.User], error)
	Counts(ctx context.Context) (*domain.SellerCounts, error)
	History(ctx context.Context, sellerID string) ([]domain.StatusHistoryEntry, error)

	Approve(ctx context.Context, actor domain.Actor, sellerID, comment string) (*domain.User, error)
	Reject(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error)
	Suspend(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error)
	Reinstate(ctx context.Context, actor domain.Actor, sellerID, reason string) (*domain.User, error)

	RegisterUpload(ctx context.Context, sellerID string, upload DocumentUpload) (*domain.SellerDocument, error)
	SetDocumentStatus(ctx context.Context, actor domain.Actor, documentID string, status domain.DocumentStatus, reason string) (*domain.SellerDocument, error)
	Documents(ctx context.Context, sellerID string) ([]domain.SellerDocument, error)
	RequiredDocumentsComplete(ctx context.Context, sellerID string) (bool, error)
}

// ListingInput carries listing fields. Nil pointers are "not provided"; a
// full update treats them as zero values, a partial update leaves the field
// untouched.
type ListingInput struct {
	LotNumber        *string
	Description      *string
	AppraisalValue   *float64
	AuctionDate      *time.Time
	UF               *string
	City             *string
	Neighborhood     *string
	Address          *string
	CEP              *string
	Latitude         *float64
	Longitude        *float64
	Rooms            *int
	Bathrooms        *int
	ParkingSpots     *int
	TotalArea        *float64
	PropertyType     *string
	Institution      *string
	EditalLink       *string
	Condition        *domain.ListingCondition
	AcceptsFinancing *bool
	Observations     *string
	Status           *domain.ListingStatus
}

type ImageUpload struct {
	Data     []byte
	Filename string
	MimeType string
	Caption  string
}

type ListingService interface {
	Create(ctx context.Context, actor domain.Actor, in ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, actor domain.Actor, listingID string, in ListingInput) (*domain.Listing, error)
	PartialUpdate(ctx context.Context, actor domain.Actor, listingID string, in ListingInput) (*domain.Listing, error)
	SoftDelete(ctx context.Context, actor domain.Actor, listingID string) error
	ChangeStatus(ctx context.Context, actor domain.Actor, listingID string, status domain.ListingStatus) (*domain.Listing, error)
	Get(ctx context.Context, listingID string) (*domain.Listing, error)
	Search(ctx context.Context, filter search.Filter, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error)
	Mine(ctx context.Context, actor domain.Actor, status domain.ListingStatus, page domain.PageRequest) (domain.Page[domain.Listing], error)
	AdminList(ctx context.Context, filter search.Filter, sort search.Sort, page domain.PageRequest) (domain.Page[domain.Listing], error)

	AddImages(ctx context.Context, actor domain.Actor, listingID string, uploads []ImageUpload) ([]domain.ListingImage, error)
	UpdateImage(ctx context.Context, actor domain.Actor, imageID, caption string, order int) (*domain.ListingImage, error)
	SetPrincipalImage(ctx context.Context, actor domain.Actor, imageID string) (*domain.ListingImage, error)
	RemoveImage(ctx context.Context, actor domain.Actor, imageID string) error
	Images(ctx context.Context, listingID string) ([]domain.ListingImage, error)
}

type StatisticsService interface {
	Statistics(ctx context.Context, filter search.Filter) (*domain.ListingStatistics, error)
	Highlights(ctx context.Context, limit int) ([]domain.Listing, error)
	Recent(ctx context.Context, limit int) ([]domain.Listing, error)
	MostWanted(ctx context.Context, limit int) ([]domain.Listing, error)
	Invalidate(ctx context.Context)
}

type FavoriteService interface {
	Add(ctx context.Context, actor domain.Actor, listingID string) (*domain.Favorite, error)
	Remove(ctx context.Context, actor domain.Actor, listingID string) error
	List(ctx context.Context, actor domain.Actor) ([]domain.Favorite, error)
	Count(ctx context.Context, actor domain.Actor) (int64, error)
	IsFavorite(ctx context.Context, actor domain.Actor, listingID string) (bool, error)
}
