package model

const (
	DocumentDNI = "DNI"
	DocumentRUC = "RUC"
)

type Customer struct {
	BaseModel
	DocumentType   string `gorm:"type:varchar(10)" json:"document_type"`
	DocumentNumber string `gorm:"type:varchar(20);index" json:"document_number"`
	Name           string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone          string `gorm:"type:varchar(20)" json:"phone"`
	Email          string `gorm:"type:varchar(255)" json:"email"`
	Address        string `gorm:"type:varchar(255)" json:"address"`
}

// DocumentTypeFor infers the document category from its length
// (Peru: 8-digit DNI, 11-digit RUC).
func DocumentTypeFor(document string) string {
	switch len(document) {
	case 8:
		return DocumentDNI
	case 11:
		return DocumentRUC
	default:
		return ""
	}
}
