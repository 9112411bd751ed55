// internal/models/pending.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductPending is the moderation queue for names the resolver could not
// confidently map to the catalog, plus icon/grade conflict reports.
// At most one pending row exists per (normalized_title, match_reason);
// repeats increment Occurrences instead of duplicating.
type ProductPending struct {
	BaseModel
	RawTitle        string        `json:"raw_title" gorm:"size:500;not null"`
	NormalizedTitle string        `json:"normalized_title" gorm:"size:500;not null;index"`
	Grade           string        `json:"grade" gorm:"size:8"`
	Icon            string        `json:"icon" gorm:"size:32"`
	SuggestedID     *uuid.UUID    `json:"suggested_id" gorm:"type:uuid"`
	MatchScore      *float64      `json:"match_score" gorm:"type:decimal(5,2)"`
	MatchReason     MatchReason   `json:"match_reason" gorm:"type:varchar(20);not null;default:'no_match'"`
	Occurrences     int           `json:"occurrences" gorm:"not null;default:1"`
	Status          PendingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminComment    string        `json:"admin_comment" gorm:"type:text"`
	ReviewedAt      *time.Time    `json:"reviewed_at"`

	Suggested *Product `json:"suggested,omitempty" gorm:"foreignKey:SuggestedID"`
}
