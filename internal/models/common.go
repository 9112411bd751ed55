// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type Currency string

const (
	CurrencyGold   Currency = "gold"
	CurrencyCookie Currency = "cookie"
)

type ListingType string

const (
	ListingTypeBuy  ListingType = "buy"
	ListingTypeSell ListingType = "sell"
)

type ListingStatus string

const (
	ListingStatusOK          ListingStatus = "ok"
	ListingStatusSuspicious  ListingStatus = "suspicious"
	ListingStatusNeedsReview ListingStatus = "needs_review"
	ListingStatusInvalid     ListingStatus = "invalid"
)

type ProductStatus string

const (
	ProductStatusOK         ProductStatus = "ok"
	ProductStatusNeedsMerge ProductStatus = "needs_merge"
)

type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusApproved PendingStatus = "approved"
	PendingStatusRejected PendingStatus = "rejected"
	PendingStatusMerged   PendingStatus = "merged"
)

type MatchReason string

const (
	MatchReasonNoMatch       MatchReason = "no_match"
	MatchReasonLowScore      MatchReason = "low_score"
	MatchReasonIconConflict  MatchReason = "icon_conflict"
	MatchReasonGradeConflict MatchReason = "grade_conflict"
)

// IsResolutionMiss reports whether the reason records a failed name
// resolution rather than a data conflict. All miss reasons share a single
// open queue row per normalized title; a name whose fuzzy score straddles
// the suggest threshold across runs must not split its occurrence count.
func (m MatchReason) IsResolutionMiss() bool {
	return m == MatchReasonNoMatch || m == MatchReasonLowScore
}

type ServiceListingType string

const (
	ServiceListingOffer  ServiceListingType = "offer"
	ServiceListingWanted ServiceListingType = "wanted"
)

type SurchargeDirection string

const (
	SurchargeMe   SurchargeDirection = "me"
	SurchargeThem SurchargeDirection = "them"
)
