package domain

import (
	"sort"
	"time"
)

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "DISPONIVEL"
	ListingStatusSold      ListingStatus = "VENDIDO"
	ListingStatusSuspended ListingStatus = "SUSPENSO"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusAvailable, ListingStatusSold, ListingStatusSuspended:
		return true
	}
	return false
}

type ListingCondition string

const (
	ListingConditionNew       ListingCondition = "NOVO"
	ListingConditionUsed      ListingCondition = "USADO"
	ListingConditionRenovated ListingCondition = "REFORMADO"
)

// Listing is a property put up for auction. SellerID is nil for listings
// imported from external auction feeds.
type Listing struct {
	ID               string           `json:"id" gorm:"primaryKey;type:uuid"`
	LotNumber        string           `json:"numero_leilao" gorm:"column:numero_leilao;uniqueIndex;not null"`
	Description      string           `json:"descricao" gorm:"column:descricao;size:1000;not null"`
	AppraisalValue   float64          `json:"valor_avaliacao" gorm:"column:valor_avaliacao;index"`
	AuctionDate      time.Time        `json:"data_leilao" gorm:"column:data_leilao;index"`
	UF               string           `json:"uf" gorm:"size:2;index"`
	City             string           `json:"cidade" gorm:"column:cidade"`
	Neighborhood     string           `json:"bairro" gorm:"column:bairro"`
	Address          string           `json:"endereco" gorm:"column:endereco"`
	CEP              string           `json:"cep,omitempty"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	Rooms            int              `json:"quartos" gorm:"column:quartos"`
	Bathrooms        int              `json:"banheiros" gorm:"column:banheiros"`
	ParkingSpots     int              `json:"vagas" gorm:"column:vagas"`
	TotalArea        *float64         `json:"area_total,omitempty" gorm:"column:area_total"`
	PropertyType     string           `json:"tipo_imovel" gorm:"column:tipo_imovel"`
	Institution      string           `json:"instituicao" gorm:"column:instituicao"`
	EditalLink       string           `json:"link_edital,omitempty" gorm:"column:link_edital"`
	Condition        ListingCondition `json:"condicao,omitempty" gorm:"column:condicao"`
	AcceptsFinancing bool             `json:"aceita_financiamento" gorm:"column:aceita_financiamento"`
	Observations     string           `json:"observacoes,omitempty" gorm:"column:observacoes"`
	Status           ListingStatus    `json:"status" gorm:"not null;default:DISPONIVEL"`
	Ativo            bool             `json:"ativo" gorm:"index"`
	SellerID         *string          `json:"vendedor_id,omitempty" gorm:"column:vendedor_id;type:uuid;index"`
	Images           []ListingImage   `json:"imagens,omitempty" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (Listing) TableName() string { return "imoveis" }

// OwnedBy reports whether userID is the listing's seller.
func (l *Listing) OwnedBy(userID string) bool {
	return l.SellerID != nil && *l.SellerID == userID
}

// ListingImage belongs to exactly one listing and is removed with it.
type ListingImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	ListingID string    `json:"imovel_id" gorm:"column:imovel_id;type:uuid;index;not null"`
	URL       string    `json:"url" gorm:"not null"`
	Caption   string    `json:"legenda,omitempty" gorm:"column:legenda"`
	Order     int       `json:"ordem" gorm:"column:ordem"`
	Principal bool      `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}

func (ListingImage) TableName() string { return "imagens_imovel" }

// SortImages orders images by their order index, then by creation time.
func SortImages(images []ListingImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].Order != images[j].Order {
			return images[i].Order < images[j].Order
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
}

type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"usuario_id" gorm:"column:usuario_id;type:uuid;uniqueIndex:idx_favorito_usuario_imovel;not null"`
	ListingID string    `json:"imovel_id" gorm:"column:imovel_id;type:uuid;uniqueIndex:idx_favorito_usuario_imovel;not null"`
	Listing   *Listing  `json:"imovel,omitempty" gorm:"foreignKey:ListingID"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string { return "favoritos" }
