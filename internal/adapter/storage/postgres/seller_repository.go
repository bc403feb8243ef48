package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

type DocumentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDocumentRepository(db *gorm.DB, log *zap.Logger) ports.DocumentRepository {
	return &DocumentRepository{db: db, log: log}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.SellerDocument) error {
	if err := conn(ctx, r.db).Create(doc).Error; err != nil {
		r.log.Error("Failed to create seller document",
			zap.String("seller_id", doc.SellerID),
			zap.String("type", string(doc.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *DocumentRepository) Save(ctx context.Context, doc *domain.SellerDocument) error {
	return conn(ctx, r.db).Save(doc).Error
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*domain.SellerDocument, error) {
	var doc domain.SellerDocument
	err := conn(ctx, r.db).First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.SellerDocument, error) {
	var docs []domain.SellerDocument
	err := conn(ctx, r.db).
		Where("seller_id = ?", sellerID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

// StatusHistoryRepository only ever inserts.
type StatusHistoryRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStatusHistoryRepository(db *gorm.DB, log *zap.Logger) ports.StatusHistoryRepository {
	return &StatusHistoryRepository{db: db, log: log}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	if err := conn(ctx, r.db).Create(entry).Error; err != nil {
		r.log.Error("Failed to append status history",
			zap.String("seller_id", entry.SellerID),
			zap.String("status", string(entry.NewStatus)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *StatusHistoryRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.StatusHistoryEntry, error) {
	var entries []domain.StatusHistoryEntry
	err := conn(ctx, r.db).
		Where("seller_id = ?", sellerID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
