package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/search"
)

type ListingRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewListingRepository(db *gorm.DB, log *zap.Logger) ports.ListingRepository {
	return &ListingRepository{db: db, log: log}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("ordem ASC, created_at ASC")
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(listing).Error
	if err != nil {
		r.log.Error("Failed to create listing", zap.String("lot_number", listing.LotNumber), zap.Error(err))
		return translate(err, "número de leilão já cadastrado")
	}
	return nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domain.Listing) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Save(listing).Error
	return translate(err, "número de leilão já cadastrado")
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	return r.first(conn(ctx, r.db), id)
}

func (r *ListingRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Listing, error) {
	return r.first(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}), id)
}

func (r *ListingRepository) first(q *gorm.DB, id string) (*domain.Listing, error) {
	var listing domain.Listing
	err := q.Preload("Images", orderedImages).First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepository) ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Listing{}).Where("numero_leilao = ?", lotNumber).Count(&count).Error
	return count > 0, err
}

func (r *ListingRepository) filtered(ctx context.Context, spec search.Specification) *gorm.DB {
	q := conn(ctx, r.db).Model(&domain.Listing{})
	if where, args := spec.Where(); where != "" {
		q = q.Where(where, args...)
	}
	return q
}

func (r *ListingRepository) Search(ctx context.Context, spec search.Specification, sort search.Sort, page domain.PageRequest) ([]domain.Listing, int64, error) {
	var total int64
	if err := r.filtered(ctx, spec).Count(&total).Error; err != nil {
		r.log.Error("Failed to count listings", zap.Error(err))
		return nil, 0, err
	}

	page = page.Normalize()
	var listings []domain.Listing
	err := r.filtered(ctx, spec).
		Preload("Images", orderedImages).
		Order(sort.OrderClause()).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&listings).Error
	if err != nil {
		r.log.Error("Failed to search listings", zap.Error(err))
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) FindAll(ctx context.Context, spec search.Specification) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.filtered(ctx, spec).
		Preload("Images", orderedImages).
		Order("id ASC").
		Find(&listings).Error
	return listings, err
}

type ImageRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewImageRepository(db *gorm.DB, log *zap.Logger) ports.ImageRepository {
	return &ImageRepository{db: db, log: log}
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.ListingImage) error {
	return conn(ctx, r.db).Create(image).Error
}

func (r *ImageRepository) Save(ctx context.Context, image *domain.ListingImage) error {
	return conn(ctx, r.db).Save(image).Error
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Delete(&domain.ListingImage{}, "id = ?", id).Error
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.ListingImage, error) {
	var image domain.ListingImage
	err := conn(ctx, r.db).First(&image, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) FindByListing(ctx context.Context, listingID string) ([]domain.ListingImage, error) {
	var images []domain.ListingImage
	err := orderedImages(conn(ctx, r.db)).Where("imovel_id = ?", listingID).Find(&images).Error
	return images, err
}

func (r *ImageRepository) MaxOrder(ctx context.Context, listingID string) (int, error) {
	var max int
	err := conn(ctx, r.db).Model(&domain.ListingImage{}).
		Where("imovel_id = ?", listingID).
		Select("COALESCE(MAX(ordem), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ImageRepository) ClearPrincipal(ctx context.Context, listingID string) error {
	return conn(ctx, r.db).Model(&domain.ListingImage{}).
		Where("imovel_id = ? AND principal = ?", listingID, true).
		Update("principal", false).Error
}

type FavoriteRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFavoriteRepository(db *gorm.DB, log *zap.Logger) ports.FavoriteRepository {
	return &FavoriteRepository{db: db, log: log}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(fav).Error
	return translate(err, "imóvel já está nos favoritos")
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, listingID string) (bool, error) {
	res := conn(ctx, r.db).Where("usuario_id = ? AND imovel_id = ?", userID, listingID).Delete(&domain.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Favorite{}).
		Where("usuario_id = ? AND imovel_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepository) FindByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var favs []domain.Favorite
	err := conn(ctx, r.db).
		Preload("Listing").
		Preload("Listing.Images", orderedImages).
		Where("usuario_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	return favs, err
}

func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Favorite{}).Where("usuario_id = ?", userID).Count(&count).Error
	return count, err
}
