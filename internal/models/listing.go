// internal/models/listing.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a single buy or sell offer extracted from a message. Rows are
// only created for resolved products; unresolved names live in the
// moderation queue instead. The (message_id, product_id, type) key makes
// reprocessing a message idempotent.
type Listing struct {
	BaseModel
	MessageID         uuid.UUID     `json:"message_id" gorm:"type:uuid;not null;uniqueIndex:idx_listings_identity"`
	ChatUserID        *uuid.UUID    `json:"chat_user_id" gorm:"type:uuid;index"`
	ProductID         uuid.UUID     `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_listings_identity"`
	Type              ListingType   `json:"type" gorm:"type:varchar(8);not null;uniqueIndex:idx_listings_identity"`
	Price             *int64        `json:"price"`
	Currency          Currency      `json:"currency" gorm:"type:varchar(8);not null;default:'gold'"`
	Quantity          *int          `json:"quantity"`
	Enhancement       *int          `json:"enhancement"`
	DurabilityCurrent *int          `json:"durability_current"`
	DurabilityMax     *int          `json:"durability_max"`
	PostedAt          time.Time     `json:"posted_at" gorm:"not null;index"`
	Status            ListingStatus `json:"status" gorm:"type:varchar(20);not null;default:'ok';index"`
	AnomalyReason     string        `json:"anomaly_reason" gorm:"size:500"`

	Message *Message `json:"message,omitempty" gorm:"foreignKey:MessageID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
