//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/search"
)

func setupDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("arremateai_test"),
			tcpostgres.WithUsername("arremateai"),
			tcpostgres.WithPassword("arremateai_test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			t.Skipf("Postgres container not available: %v", err)
		}
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("Failed to terminate postgres container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := NewConnection(dsn, PoolConfig{MaxOpenConns: 5}, logger)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() { _ = Close(db) })

	for _, table := range []string{"favoritos", "imagens_imovel", "imoveis", "historico_status_vendedor", "documentos_vendedor", "usuarios"} {
		db.Exec("TRUNCATE TABLE " + table + " CASCADE")
	}
	return db
}

func newSeller(email, cnpj string, status domain.SellerStatus) *domain.User {
	return &domain.User{
		ID:           uuid.New().String(),
		Name:         "Vendedor",
		Email:        email,
		Role:         domain.UserRoleSeller,
		Ativo:        true,
		CNPJ:         &cnpj,
		SellerStatus: &status,
	}
}

func TestUserRepository_Integration(t *testing.T) {
	db := setupDatabase(t)
	logger, _ := zap.NewDevelopment()
	repo := NewUserRepository(db, logger)
	ctx := context.Background()

	pending := newSeller("a@empresa.com.br", "11222333000181", domain.SellerStatusPendingApproval)
	approved := newSeller("b@empresa.com.br", "12345678000190", domain.SellerStatusApproved)
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, approved))

	t.Run("DuplicateEmailIsConflict", func(t *testing.T) {
		dup := newSeller("a@empresa.com.br", "99888777000166", domain.SellerStatusPendingDocuments)
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Finders", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "b@empresa.com.br")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, approved.ID, found.ID)

		missing, err := repo.FindByID(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, missing)

		exists, err := repo.ExistsByCNPJ(ctx, "11222333000181")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("SellersByStatus", func(t *testing.T) {
		status := domain.SellerStatusPendingApproval
		users, total, err := repo.FindSellers(ctx, &status, domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, pending.ID, users[0].ID)

		count, err := repo.CountSellers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("LockInsideTransaction", func(t *testing.T) {
		tx := NewTransactor(db)
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			locked, err := repo.FindByIDForUpdate(ctx, pending.ID)
			if err != nil {
				return err
			}
			status := domain.SellerStatusApproved
			locked.SellerStatus = &status
			return repo.Save(ctx, locked)
		})
		require.NoError(t, err)

		n, err := repo.CountSellersByStatus(ctx, domain.SellerStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestListingRepository_Integration(t *testing.T) {
	db := setupDatabase(t)
	logger, _ := zap.NewDevelopment()
	listings := NewListingRepository(db, logger)
	images := NewImageRepository(db, logger)
	favorites := NewFavoriteRepository(db, logger)
	ctx := context.Background()

	mk := func(lot, uf string, value float64, active bool) *domain.Listing {
		l := &domain.Listing{
			ID:             uuid.New().String(),
			LotNumber:      lot,
			Description:    "Apartamento " + lot,
			AppraisalValue: value,
			AuctionDate:    time.Now().Add(24 * time.Hour),
			UF:             uf,
			City:           "São Paulo",
			Institution:    "Caixa",
			Status:         domain.ListingStatusAvailable,
			Ativo:          active,
		}
		require.NoError(t, listings.Create(ctx, l))
		return l
	}
	a := mk("L-1", "SP", 300000, true)
	b := mk("L-2", "SP", 100000, true)
	mk("L-3", "RJ", 500000, true)
	mk("L-4", "SP", 900000, false)

	t.Run("DuplicateLotIsConflict", func(t *testing.T) {
		dup := &domain.Listing{ID: uuid.New().String(), LotNumber: "L-1", Description: "x", UF: "SP", Status: domain.ListingStatusAvailable}
		assert.ErrorIs(t, listings.Create(ctx, dup), domain.ErrConflict)
	})

	t.Run("SearchAppliesSpecificationSortAndPage", func(t *testing.T) {
		spec := search.NewBuilder().UF("sp").ActiveOnly().Build()
		sort := search.ResolveSort("valorAvaliacao", "asc")

		got, total, err := listings.Search(ctx, spec, sort, domain.PageRequest{Page: 0, Size: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, got, 1)
		assert.Equal(t, b.ID, got[0].ID)
	})

	t.Run("TextSearchesDescriptiveColumns", func(t *testing.T) {
		spec := search.NewBuilder().Text("apartamento l-2").ActiveOnly().Build()

		got, total, err := listings.Search(ctx, spec, search.ResolveSort("", ""), domain.PageRequest{Page: 0, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, b.ID, got[0].ID)

		spec = search.NewBuilder().Text("caixa").ActiveOnly().Build()
		_, total, err = listings.Search(ctx, spec, search.ResolveSort("", ""), domain.PageRequest{Page: 0, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("ImagesOrderAndPrincipal", func(t *testing.T) {
		for i, principal := range []bool{true, false} {
			require.NoError(t, images.Create(ctx, &domain.ListingImage{
				ID:        uuid.New().String(),
				ListingID: a.ID,
				URL:       "imoveis/a/" + uuid.New().String() + ".png",
				Order:     i + 1,
				Principal: principal,
			}))
		}

		max, err := images.MaxOrder(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, max)

		require.NoError(t, images.ClearPrincipal(ctx, a.ID))
		list, err := images.FindByListing(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.False(t, list[0].Principal)
		assert.Equal(t, 1, list[0].Order)

		loaded, err := listings.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Images, 2)
	})

	t.Run("Favorites", func(t *testing.T) {
		userID := uuid.New().String()
		require.NoError(t, favorites.Create(ctx, &domain.Favorite{ID: uuid.New().String(), UserID: userID, ListingID: a.ID}))
		err := favorites.Create(ctx, &domain.Favorite{ID: uuid.New().String(), UserID: userID, ListingID: a.ID})
		assert.ErrorIs(t, err, domain.ErrConflict)

		favs, err := favorites.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		require.NotNil(t, favs[0].Listing)
		assert.Equal(t, "L-1", favs[0].Listing.LotNumber)

		removed, err := favorites.Delete(ctx, userID, a.ID)
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = favorites.Delete(ctx, userID, a.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
