package seller

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

// RegisterUpload stores a new document for the seller. When the upload
// completes the required set of a PENDENTE_DOCUMENTOS seller, the seller
// moves to PENDENTE_APROVACAO in the same transaction.
func (s *Service) RegisterUpload(ctx context.Context, sellerID string, upload ports.DocumentUpload) (*domain.SellerDocument, error) {
	s.log.Info("Document upload",
		zap.String("seller_id", sellerID),
		zap.String("type", string(upload.Type)))

	if !upload.Type.Valid() {
		return nil, domain.Validation("tipo de documento inválido: %s", upload.Type)
	}
	if len(upload.Data) == 0 {
		return nil, domain.Validation("arquivo vazio")
	}
	if s.cfg.MaxDocumentSize > 0 && int64(len(upload.Data)) > s.cfg.MaxDocumentSize {
		return nil, domain.Validation("arquivo excede o tamanho máximo de %d bytes", s.cfg.MaxDocumentSize)
	}

	var (
		doc         *domain.SellerDocument
		seller      *domain.User
		transitions []domain.SellerTransition
		storedURL   string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		seller, err = s.lockSeller(ctx, sellerID)
		if err != nil {
			return err
		}

		status := seller.CurrentSellerStatus()
		if status != domain.SellerStatusPendingDocuments && status != domain.SellerStatusRejected {
			return domain.InvalidState("vendedor não pode enviar documentos com status %s", status)
		}

		storedURL, err = s.blobs.Store(ctx, upload.Data, documentName(sellerID, upload), upload.MimeType)
		if err != nil {
			return fmt.Errorf("failed to store document: %w", err)
		}

		doc = &domain.SellerDocument{
			ID:               uuid.New().String(),
			SellerID:         sellerID,
			Type:             upload.Type,
			OriginalFilename: upload.Filename,
			URL:              storedURL,
			Size:             int64(len(upload.Data)),
			MimeType:         upload.MimeType,
			Status:           domain.DocumentStatusPending,
		}
		if err := s.documents.Create(ctx, doc); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}

		if status == domain.SellerStatusRejected {
			t, err := s.transition(ctx, seller, domain.SellerEventResubmit, nil, "", reasonResubmission)
			if err != nil {
				return err
			}
			transitions = append(transitions, t)
		}

		complete, err := s.requiredComplete(ctx, sellerID)
		if err != nil {
			return err
		}
		if complete && seller.CurrentSellerStatus() == domain.SellerStatusPendingDocuments {
			t, err := s.transition(ctx, seller, domain.SellerEventDocumentsComplete, nil, "", reasonDocumentsDone)
			if err != nil {
				return err
			}
			transitions = append(transitions, t)
		}
		return nil
	})
	if err != nil {
		if storedURL != "" {
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), storedURL); derr != nil {
				s.log.Warn("Failed to remove orphaned document blob", zap.String("url", storedURL), zap.Error(derr))
			}
		}
		return nil, err
	}

	for _, t := range transitions {
		reason := reasonDocumentsDone
		if t.Event == domain.SellerEventResubmit {
			reason = reasonResubmission
		}
		s.afterCommit(ctx, seller, t, reason, nil)
	}
	return doc, nil
}

// SetDocumentStatus records an admin review of one document. It does not
// change the seller status.
func (s *Service) SetDocumentStatus(ctx context.Context, actor domain.Actor, documentID string, status domain.DocumentStatus, reason string) (*domain.SellerDocument, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("apenas administradores podem revisar documentos")
	}
	if !status.Valid() {
		return nil, domain.Validation("status de documento inválido: %s", status)
	}
	reason = strings.TrimSpace(reason)
	if status == domain.DocumentStatusRejected && reason == "" {
		return nil, domain.Validation("motivo da rejeição do documento é obrigatório")
	}

	var doc *domain.SellerDocument
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NotFound("documento", documentID)
		}

		reviewer := actor.ID
		now := s.now()
		doc.Status = status
		doc.ReviewedBy = &reviewer
		doc.ReviewedAt = &now
		doc.RejectionReason = ""
		if status == domain.DocumentStatusRejected {
			doc.RejectionReason = reason
		}
		return s.documents.Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Document reviewed",
		zap.String("document_id", documentID),
		zap.String("status", string(status)),
		zap.String("admin_id", actor.ID))
	return doc, nil
}

func (s *Service) Documents(ctx context.Context, sellerID string) ([]domain.SellerDocument, error) {
	if _, err := s.Get(ctx, sellerID); err != nil {
		return nil, err
	}
	return s.documents.FindBySeller(ctx, sellerID)
}

func (s *Service) RequiredDocumentsComplete(ctx context.Context, sellerID string) (bool, error) {
	if _, err := s.Get(ctx, sellerID); err != nil {
		return false, err
	}
	return s.requiredComplete(ctx, sellerID)
}

// requiredComplete checks presence of each required type across every
// stored submission, whatever its review status.
func (s *Service) requiredComplete(ctx context.Context, sellerID string) (bool, error) {
	docs, err := s.documents.FindBySeller(ctx, sellerID)
	if err != nil {
		return false, err
	}
	return domain.RequiredDocumentsComplete(docs), nil
}

func documentName(sellerID string, upload ports.DocumentUpload) string {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	return fmt.Sprintf("documentos/%s/%s_%s%s", sellerID, strings.ToLower(string(upload.Type)), uuid.New().String(), ext)
}
