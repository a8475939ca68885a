package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"nom"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"categorie"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"prix"`
	Featured    bool            `gorm:"not null;default:false" json:"vedette"`
	IsActive    bool            `gorm:"not null;default:false" json:"is_active"`
	ImageURL    string          `gorm:"type:text" json:"image_url"`
	Sizes       []ProductSize   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"tailles"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "produits" }

// サイズ・色ごとの在庫
type ProductSize struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID string `gorm:"type:uuid;not null;index" json:"-"`
	Size      string `gorm:"type:varchar(20);not null" json:"taille"`
	Color     string `gorm:"type:varchar(50)" json:"couleur,omitempty"`
	Stock     int64  `gorm:"not null;default:0" json:"stock"`
}

func (ProductSize) TableName() string { return "produit_tailles" }

// 全サイズの在庫合計
func (p Product) TotalStock() int64 {
	var total int64
	for _, s := range p.Sizes {
		if s.Stock > 0 {
			total += s.Stock
		}
	}
	return total
}
