package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "En attente"
	OrderStatusShipped   OrderStatus = "Expédiée"
	OrderStatusDelivered OrderStatus = "Livrée"
	OrderStatusCanceled  OrderStatus = "Annulée"
)

// 管理画面から指定できるステータス
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// 注文（チェックアウトで作成され、管理者がステータスを変える）
type Order struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	NomClient string          `gorm:"type:varchar(255);not null" json:"nom_client"`
	Telephone string          `gorm:"type:varchar(30);not null" json:"telephone"`
	Email     string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	Adresse   string          `gorm:"type:text;not null" json:"adresse"`
	Ville     string          `gorm:"type:varchar(255);not null" json:"ville"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Statut    OrderStatus     `gorm:"type:varchar(20);not null;index" json:"statut"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"produits"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "commandes" }
