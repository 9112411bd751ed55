// internal/models/product.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Product is a canonical catalog entry. A row with ParentID set is an alias
// whose market identity is the root ancestor; root rows never self-reference.
type Product struct {
	BaseModel
	ParentID       *uuid.UUID    `json:"parent_id" gorm:"type:uuid;index"`
	Icon           string        `json:"icon" gorm:"size:32"`
	Name           string        `json:"name" gorm:"size:255;not null"`
	NormalizedName string        `json:"normalized_name" gorm:"size:255;not null;index"`
	Grade          string        `json:"grade" gorm:"size:8;index"`
	Type           string        `json:"type" gorm:"size:50"`
	Status         ProductStatus `json:"status" gorm:"type:varchar(20);default:'ok';index"`
	IsVerified     bool          `json:"is_verified" gorm:"default:false"`

	Parent   *Product  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Aliases  []Product `json:"aliases,omitempty" gorm:"foreignKey:ParentID"`
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:ProductID"`
}

// EffectiveID returns the root identity used for pricing and matching:
// the parent for alias rows, the row's own id otherwise.
func (p *Product) EffectiveID() uuid.UUID {
	if p.ParentID != nil {
		return *p.ParentID
	}
	return p.ID
}

// FullName renders icon, name and grade the way the chat writes them.
func (p *Product) FullName() string {
	parts := make([]string, 0, 3)
	if p.Icon != "" {
		parts = append(parts, p.Icon)
	}
	parts = append(parts, p.Name)
	if p.Grade != "" {
		parts = append(parts, "["+p.Grade+"]")
	}
	return strings.Join(parts, " ")
}
