// internal/models/service.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a catalog entry for offered work (crafting, enchanting, escort
// runs). Unlike products, services are created on first sight rather than
// moderated, keyed by normalized name.
type Service struct {
	BaseModel
	Icon           string `json:"icon" gorm:"size:32"`
	Name           string `json:"name" gorm:"size:255;not null"`
	NormalizedName string `json:"normalized_name" gorm:"size:255;not null;uniqueIndex"`

	Listings []ServiceListing `json:"listings,omitempty" gorm:"foreignKey:ServiceID"`
}

// ServiceListing is one service offer or request extracted from a message.
type ServiceListing struct {
	BaseModel
	MessageID   uuid.UUID          `json:"message_id" gorm:"type:uuid;not null;uniqueIndex:idx_service_listings_identity"`
	ChatUserID  *uuid.UUID         `json:"chat_user_id" gorm:"type:uuid;index"`
	ServiceID   uuid.UUID          `json:"service_id" gorm:"type:uuid;not null;uniqueIndex:idx_service_listings_identity"`
	Type        ServiceListingType `json:"type" gorm:"type:varchar(8);not null;default:'offer';uniqueIndex:idx_service_listings_identity"`
	Price       *int64             `json:"price"`
	Currency    Currency           `json:"currency" gorm:"type:varchar(8);not null;default:'gold'"`
	Description string             `json:"description" gorm:"size:500"`
	PostedAt    time.Time          `json:"posted_at" gorm:"not null;index"`
	Status      ListingStatus      `json:"status" gorm:"type:varchar(20);not null;default:'ok'"`

	Message *Message `json:"message,omitempty" gorm:"foreignKey:MessageID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}
