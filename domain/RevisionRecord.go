package domain

import (
	"github.com/fundwit/go-commons/types"
)

// RevisionRecord is one entry of the append-only revision ledger.
// An entry is open until ResolvedTime is set; at most one entry per
// drawing is open at any time.
type RevisionRecord struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	DrawingID types.ID `json:"drawingId"`

	Notes   string          `json:"notes"`
	DueDate types.Timestamp `json:"dueDate" sql:"type:DATETIME(6)"`

	RequestorID   types.ID        `json:"requestorId"`
	RequestorName string          `json:"requestorName"`
	RequestTime   types.Timestamp `json:"requestTime" sql:"type:DATETIME(6)"`
	ResolvedTime  types.Timestamp `json:"resolvedTime" sql:"type:DATETIME(6)"`
}

func (r *RevisionRecord) TableName() string {
	return "revision_records"
}
