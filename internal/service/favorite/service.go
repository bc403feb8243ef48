package favorite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

// Service implements FavoriteService
type Service struct {
	favorites ports.FavoriteRepository
	listings  ports.ListingRepository
	tx        ports.Transactor
	log       *zap.Logger
}

func NewService(favorites ports.FavoriteRepository, listings ports.ListingRepository, tx ports.Transactor, log *zap.Logger) *Service {
	return &Service{
		favorites: favorites,
		listings:  listings,
		tx:        tx,
		log:       log,
	}
}

var _ ports.FavoriteService = (*Service)(nil)

// Add bookmarks an active listing for the actor.
func (s *Service) Add(ctx context.Context, actor domain.Actor, listingID string) (*domain.Favorite, error) {
	s.log.Info("Adding favorite", zap.String("user_id", actor.ID), zap.String("listing_id", listingID))

	var fav *domain.Favorite
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		listing, err := s.listings.FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if listing == nil || !listing.Ativo {
			return domain.NotFound("imóvel", listingID)
		}

		exists, err := s.favorites.Exists(ctx, actor.ID, listingID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("imóvel já está nos favoritos")
		}

		fav = &domain.Favorite{
			ID:        uuid.New().String(),
			UserID:    actor.ID,
			ListingID: listingID,
		}
		if err := s.favorites.Create(ctx, fav); err != nil {
			return fmt.Errorf("failed to save favorite: %w", err)
		}
		fav.Listing = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *Service) Remove(ctx context.Context, actor domain.Actor, listingID string) error {
	s.log.Info("Removing favorite", zap.String("user_id", actor.ID), zap.String("listing_id", listingID))

	removed, err := s.favorites.Delete(ctx, actor.ID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if !removed {
		return domain.NotFound("favorito", listingID)
	}
	return nil
}

// List returns the actor's favorites, newest first.
func (s *Service) List(ctx context.Context, actor domain.Actor) ([]domain.Favorite, error) {
	return s.favorites.FindByUser(ctx, actor.ID)
}

func (s *Service) Count(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.favorites.CountByUser(ctx, actor.ID)
}

func (s *Service) IsFavorite(ctx context.Context, actor domain.Actor, listingID string) (bool, error) {
	return s.favorites.Exists(ctx, actor.ID, listingID)
}
