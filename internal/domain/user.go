package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleBuyer  UserRole = "COMPRADOR"
	UserRoleSeller UserRole = "VENDEDOR"
	UserRoleAdmin  UserRole = "ADMIN"
)

// User is every account of the marketplace. Seller-only fields stay empty
// for buyers and admins.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;type:uuid"`
	Name     string   `json:"name"`
	Email    string   `json:"email" gorm:"uniqueIndex"`
	Password string   `json:"-"` // Hashed password
	Phone    string   `json:"phone,omitempty"`
	CPF      *string  `json:"cpf,omitempty" gorm:"uniqueIndex"`
	Role     UserRole `json:"role" gorm:"index"`
	Ativo    bool     `json:"ativo" gorm:"default:true"`

	CNPJ                   *string       `json:"cnpj,omitempty" gorm:"uniqueIndex"`
	RazaoSocial            string        `json:"razao_social,omitempty"`
	NomeFantasia           string        `json:"nome_fantasia,omitempty"`
	InscricaoEstadual      string        `json:"inscricao_estadual,omitempty"`
	CorporateEmail         string        `json:"email_corporativo,omitempty"`
	CorporateEmailVerified bool          `json:"email_corporativo_verificado"`
	SellerStatus           *SellerStatus `json:"status_vendedor,omitempty" gorm:"index"`
	RejectionReason        string        `json:"motivo_rejeicao,omitempty"`
	ApprovedBy             *string       `json:"aprovado_por,omitempty" gorm:"type:uuid"`
	ApprovedAt             *time.Time    `json:"aprovado_em,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }

func (u *User) IsSeller() bool { return u.Role == UserRoleSeller }

// CurrentSellerStatus returns the seller status, or "" for non-sellers.
func (u *User) CurrentSellerStatus() SellerStatus {
	if u.SellerStatus == nil {
		return ""
	}
	return *u.SellerStatus
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == UserRoleAdmin }

// SellerCounts aggregates active sellers per status.
type SellerCounts struct {
	Total    int64                  `json:"total"`
	ByStatus map[SellerStatus]int64 `json:"by_status"`
}
