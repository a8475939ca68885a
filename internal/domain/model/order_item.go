package model

import "github.com/shopspring/decimal"

// 注文明細
// 商品名・価格は注文時点のスナップショット
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string          `gorm:"type:uuid;not null;index" json:"-"`
	ProduitID string          `gorm:"type:uuid;not null;index" json:"id"`
	Nom       string          `gorm:"type:varchar(255);not null" json:"nom"`
	Prix      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"prix"`
	Quantite  int64           `gorm:"not null" json:"quantite"`
	ImageURL  string          `gorm:"type:text" json:"image_url,omitempty"`
	Taille    string          `gorm:"type:varchar(20)" json:"taille,omitempty"`
	Couleur   string          `gorm:"type:varchar(50)" json:"couleur,omitempty"`
}

func (OrderItem) TableName() string { return "commande_produits" }

// 小計 = 価格 × 数量
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Prix.Mul(decimal.NewFromInt(it.Quantite))
}
