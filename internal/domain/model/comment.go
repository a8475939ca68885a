package model

import (
	"time"

	"github.com/lib/pq"
)

// 商品へのコメント（レビュー）
// アカウントは持たず、投稿時に渡したトークンで本人確認する。
type Comment struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	ProduitID   string         `gorm:"type:uuid;not null;index" json:"produit_id"`
	Nom         string         `gorm:"type:varchar(100);not null" json:"nom"`
	Email       string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Rating      int            `gorm:"not null" json:"rating"`
	Commentaire string         `gorm:"type:text;not null" json:"commentaire"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	TokenHash   string         `gorm:"type:varchar(64);not null;index" json:"-"`
	Approved    bool           `gorm:"not null;default:true;index" json:"approved"`
	Flagged     bool           `gorm:"not null;default:false;index" json:"flagged"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string { return "commentaires" }
