package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

type UserRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserRepository(db *gorm.DB, log *zap.Logger) ports.UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		r.log.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return translate(err, "email, CPF ou CNPJ já cadastrado")
	}
	return nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return translate(conn(ctx, r.db).Save(user).Error, "email, CPF ou CNPJ já cadastrado")
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(conn(ctx, r.db), "id = ?", id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.first(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(conn(ctx, r.db), "email = ?", email)
}

func (r *UserRepository) first(q *gorm.DB, query string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	err := q.Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	return r.exists(ctx, "cnpj = ?", cnpj)
}

func (r *UserRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return r.exists(ctx, "cpf = ?", cpf)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) sellers(ctx context.Context, status *domain.SellerStatus) *gorm.DB {
	q := conn(ctx, r.db).Model(&domain.User{}).
		Where("role = ? AND ativo = ?", domain.UserRoleSeller, true)
	if status != nil {
		q = q.Where("seller_status = ?", *status)
	}
	return q
}

func (r *UserRepository) FindSellers(ctx context.Context, status *domain.SellerStatus, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.sellers(ctx, status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var users []domain.User
	err := r.sellers(ctx, status).
		Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) CountSellers(ctx context.Context) (int64, error) {
	var n int64
	err := r.sellers(ctx, nil).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountSellersByStatus(ctx context.Context, status domain.SellerStatus) (int64, error) {
	var n int64
	err := r.sellers(ctx, &status).Count(&n).Error
	return n, err
}
