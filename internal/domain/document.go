package domain

import (
	"time"
)

type DocumentType string

const (
	DocumentTypeCNPJ           DocumentType = "CNPJ_RECEITA"
	DocumentTypeArticles       DocumentType = "CONTRATO_SOCIAL"
	DocumentTypeMEI            DocumentType = "MEI"
	DocumentTypeRG             DocumentType = "RG_RESPONSAVEL"
	DocumentTypeCNH            DocumentType = "CNH_RESPONSAVEL"
	DocumentTypeProofOfAddress DocumentType = "COMPROVANTE_ENDERECO"
	DocumentTypeBrokerRegistry DocumentType = "CRECI"
)

var documentTypeLabels = map[DocumentType]string{
	DocumentTypeCNPJ:           "Comprovante CNPJ",
	DocumentTypeArticles:       "Contrato Social",
	DocumentTypeMEI:            "Certificado MEI",
	DocumentTypeRG:             "RG do Responsável",
	DocumentTypeCNH:            "CNH do Responsável",
	DocumentTypeProofOfAddress: "Comprovante de Endereço",
	DocumentTypeBrokerRegistry: "Registro CRECI",
}

func (t DocumentType) Valid() bool {
	_, ok := documentTypeLabels[t]
	return ok
}

func (t DocumentType) Label() string {
	return documentTypeLabels[t]
}

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDENTE"
	DocumentStatusApproved DocumentStatus = "APROVADO"
	DocumentStatusRejected DocumentStatus = "REJEITADO"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return true
	}
	return false
}

// SellerDocument is one uploaded file. Rows are never overwritten or deleted;
// a resubmission of the same type is a new row.
type SellerDocument struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid"`
	SellerID         string         `json:"seller_id" gorm:"type:uuid;index;not null"`
	Type             DocumentType   `json:"tipo" gorm:"not null"`
	OriginalFilename string         `json:"nome_arquivo"`
	URL              string         `json:"url" gorm:"not null"`
	Size             int64          `json:"tamanho"`
	MimeType         string         `json:"mime_type"`
	Status           DocumentStatus `json:"status" gorm:"not null;default:PENDENTE"`
	RejectionReason  string         `json:"motivo_rejeicao,omitempty"`
	ReviewedBy       *string        `json:"revisado_por,omitempty" gorm:"type:uuid"`
	ReviewedAt       *time.Time     `json:"revisado_em,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (SellerDocument) TableName() string { return "documentos_vendedor" }

// RequiredDocumentsComplete reports whether the submitted types cover the
// minimum set: CNPJ certificate, articles or MEI, RG or CNH, proof of address.
// Review status is not considered.
func RequiredDocumentsComplete(docs []SellerDocument) bool {
	present := make(map[DocumentType]bool, len(docs))
	for _, d := range docs {
		present[d.Type] = true
	}
	return present[DocumentTypeCNPJ] &&
		(present[DocumentTypeArticles] || present[DocumentTypeMEI]) &&
		(present[DocumentTypeRG] || present[DocumentTypeCNH]) &&
		present[DocumentTypeProofOfAddress]
}
