package model

import "time"

// 注文ステータス更新、コメントのモデレーションなど。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//注文を削除した操作。
	AuditActionDeleteOrder AuditAction = "DELETE_ORDER"
	//コメントのフラグ・内容を変更した操作。
	AuditActionModerateComment AuditAction = "MODERATE_COMMENT"
	//コメントを削除した操作。
	AuditActionDeleteComment AuditAction = "DELETE_COMMENT"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionUpdateOrderStatus, AuditActionDeleteOrder, AuditActionModerateComment, AuditActionDeleteComment:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceComment AuditResourceType = "comment"
)

func (t AuditResourceType) Valid() bool {
	return t == AuditResourceOrder || t == AuditResourceComment
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のメールアドレス（セッションのsub）
	ActorEmail string `gorm:"type:varchar(255);not null;index" json:"actor_email"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
