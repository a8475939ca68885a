package model

import "time"

// ブラウザのプッシュ購読
// (user_id, platform) ごとに1件。再購読で置き換える。
type PushSubscription struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_push_user_platform" json:"user_id"`
	Platform     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_push_user_platform" json:"platform"`
	Subscription string    `gorm:"type:jsonb;not null" json:"subscription"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
