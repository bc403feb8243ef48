package listing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// AddImages stores a batch of images. Order indices continue from the
// current maximum and, when the listing has no principal image, the first
// image of the batch becomes principal.
func (s *Service) AddImages(ctx context.Context, actor domain.Actor, listingID string, uploads []ports.ImageUpload) ([]domain.ListingImage, error) {
	if len(uploads) == 0 {
		return nil, domain.Validation("nenhuma imagem enviada")
	}
	for _, up := range uploads {
		if err := s.validateImage(up); err != nil {
			return nil, err
		}
	}

	s.log.Info("Uploading listing images",
		zap.String("listing_id", listingID),
		zap.Int("count", len(uploads)))

	var (
		listing *domain.Listing
		created []domain.ListingImage
		stored  []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.lockOwned(ctx, actor, listingID)
		if err != nil {
			return err
		}
		if !listing.Ativo {
			return domain.Business("Não é possível adicionar imagens a um imóvel inativo")
		}

		existing, err := s.images.FindByListing(ctx, listingID)
		if err != nil {
			return err
		}
		hasPrincipal := false
		for _, img := range existing {
			if img.Principal {
				hasPrincipal = true
				break
			}
		}
		maxOrder, err := s.images.MaxOrder(ctx, listingID)
		if err != nil {
			return err
		}

		for i, up := range uploads {
			url, err := s.blobs.Store(ctx, up.Data, imageName(listingID, up.Filename), up.MimeType)
			if err != nil {
				return fmt.Errorf("failed to store image: %w", err)
			}
			stored = append(stored, url)

			img := domain.ListingImage{
				ID:        uuid.New().String(),
				ListingID: listingID,
				URL:       url,
				Caption:   up.Caption,
				Order:     maxOrder + i + 1,
				Principal: !hasPrincipal && i == 0,
			}
			if err := s.images.Create(ctx, &img); err != nil {
				return fmt.Errorf("failed to save image: %w", err)
			}
			created = append(created, img)
		}
		return nil
	})
	if err != nil {
		for _, url := range stored {
			s.deleteBlob(ctx, url)
		}
		return nil, err
	}

	s.log.Info("Listing images uploaded", zap.String("listing_id", listingID), zap.Int("count", len(created)))
	s.changed(ctx, listing, domain.ListingImagesChanged, actor.ID)
	return created, nil
}

// UpdateImage changes the caption when non-empty and the order when positive.
func (s *Service) UpdateImage(ctx context.Context, actor domain.Actor, imageID, caption string, order int) (*domain.ListingImage, error) {
	var (
		img     *domain.ListingImage
		listing *domain.Listing
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		img, listing, err = s.lockImage(ctx, actor, imageID)
		if err != nil {
			return err
		}
		if caption != "" {
			img.Caption = caption
		}
		if order > 0 {
			img.Order = order
		}
		return s.images.Save(ctx, img)
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, listing, domain.ListingImagesChanged, actor.ID)
	return img, nil
}

// SetPrincipalImage clears the flag on every sibling before setting it.
func (s *Service) SetPrincipalImage(ctx context.Context, actor domain.Actor, imageID string) (*domain.ListingImage, error) {
	var (
		img     *domain.ListingImage
		listing *domain.Listing
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		img, listing, err = s.lockImage(ctx, actor, imageID)
		if err != nil {
			return err
		}
		if err := s.images.ClearPrincipal(ctx, img.ListingID); err != nil {
			return err
		}
		img.Principal = true
		return s.images.Save(ctx, img)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Principal image set", zap.String("listing_id", img.ListingID), zap.String("image_id", imageID))
	s.changed(ctx, listing, domain.ListingImagesChanged, actor.ID)
	return img, nil
}

// RemoveImage deletes one image. The last image of a listing cannot be
// removed. When the principal goes, the lowest-order remaining image takes
// its place.
func (s *Service) RemoveImage(ctx context.Context, actor domain.Actor, imageID string) error {
	var (
		img     *domain.ListingImage
		listing *domain.Listing
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		img, listing, err = s.lockImage(ctx, actor, imageID)
		if err != nil {
			return err
		}

		all, err := s.images.FindByListing(ctx, img.ListingID)
		if err != nil {
			return err
		}
		if len(all) <= 1 {
			return domain.Business("Não é possível remover a última imagem do imóvel. Cada imóvel deve ter pelo menos uma imagem.")
		}

		if err := s.images.Delete(ctx, img.ID); err != nil {
			return fmt.Errorf("failed to delete image: %w", err)
		}
		if !img.Principal {
			return nil
		}
		for _, next := range all {
			if next.ID == img.ID {
				continue
			}
			next.Principal = true
			return s.images.Save(ctx, &next)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deleteBlob(ctx, img.URL)
	s.log.Info("Listing image removed", zap.String("listing_id", img.ListingID), zap.String("image_id", imageID))
	s.changed(ctx, listing, domain.ListingImagesChanged, actor.ID)
	return nil
}

// Images lists the images of a listing in display order.
func (s *Service) Images(ctx context.Context, listingID string) ([]domain.ListingImage, error) {
	if _, err := s.Get(ctx, listingID); err != nil {
		return nil, err
	}
	return s.images.FindByListing(ctx, listingID)
}

// lockImage loads an image and locks its listing for the actor.
func (s *Service) lockImage(ctx context.Context, actor domain.Actor, imageID string) (*domain.ListingImage, *domain.Listing, error) {
	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}
	if img == nil {
		return nil, nil, domain.NotFound("imagem", imageID)
	}
	listing, err := s.lockOwned(ctx, actor, img.ListingID)
	if err != nil {
		return nil, nil, err
	}
	return img, listing, nil
}

func (s *Service) deleteBlob(ctx context.Context, url string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), url); err != nil {
		s.log.Warn("Failed to remove image file", zap.String("url", url), zap.Error(err))
	}
}

func (s *Service) validateImage(up ports.ImageUpload) error {
	if len(up.Data) == 0 {
		return domain.Validation("arquivo vazio")
	}
	if int64(len(up.Data)) > s.cfg.MaxImageSize {
		return domain.Validation("arquivo muito grande: %d bytes. Máximo: %d bytes", len(up.Data), s.cfg.MaxImageSize)
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedImageExtensions[ext] {
		return domain.Validation("formato não permitido: %s. Permitidos: jpg, jpeg, png, webp", strings.TrimPrefix(ext, "."))
	}
	if !isImage(up.Data) {
		return domain.Validation("arquivo não é uma imagem válida")
	}
	return nil
}

// isImage accepts anything the registered decoders can read a header from,
// plus WebP by its RIFF signature.
func isImage(data []byte) bool {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return true
	}
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}

func imageName(listingID, filename string) string {
	return fmt.Sprintf("imoveis/%s/%s%s", listingID, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
}
