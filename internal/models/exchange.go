// internal/models/exchange.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Exchange is a barter offer: give X, want Y, optional cash surcharge.
// Persisted only when both sides resolved to catalog products.
type Exchange struct {
	BaseModel
	MessageID          uuid.UUID           `json:"message_id" gorm:"type:uuid;not null;uniqueIndex:idx_exchanges_identity"`
	ChatUserID         *uuid.UUID          `json:"chat_user_id" gorm:"type:uuid;index"`
	GiveProductID      uuid.UUID           `json:"give_product_id" gorm:"type:uuid;not null;uniqueIndex:idx_exchanges_identity"`
	GiveQuantity       int                 `json:"give_quantity" gorm:"not null;default:1"`
	WantProductID      uuid.UUID           `json:"want_product_id" gorm:"type:uuid;not null;uniqueIndex:idx_exchanges_identity"`
	WantQuantity       int                 `json:"want_quantity" gorm:"not null;default:1"`
	SurchargeAmount    *int64              `json:"surcharge_amount"`
	SurchargeCurrency  *Currency           `json:"surcharge_currency" gorm:"type:varchar(8)"`
	SurchargeDirection *SurchargeDirection `json:"surcharge_direction" gorm:"type:varchar(8)"`
	PostedAt           time.Time           `json:"posted_at" gorm:"not null;index"`
	Status             ListingStatus       `json:"status" gorm:"type:varchar(20);not null;default:'ok'"`

	Message     *Message `json:"message,omitempty" gorm:"foreignKey:MessageID"`
	GiveProduct *Product `json:"give_product,omitempty" gorm:"foreignKey:GiveProductID"`
	WantProduct *Product `json:"want_product,omitempty" gorm:"foreignKey:WantProductID"`
}
