package domain

import (
	"atelier/domain/state"

	"github.com/fundwit/go-commons/types"
)

type DrawingCategory string

const (
	CategoryArchitecture DrawingCategory = "ARCHITECTURE"
	CategoryInterior     DrawingCategory = "INTERIOR"
	CategoryLandscape    DrawingCategory = "LANDSCAPE"
	CategoryPlanning     DrawingCategory = "PLANNING"
)

// Drawing is one deliverable document of a project, tracked through the
// lifecycle in state.DrawingLifecycle. State is the single workflow field,
// counters and timestamps are derived by transitions only.
type Drawing struct {
	ID         types.ID        `json:"id" gorm:"primary_key"`
	Identifier string          `json:"identifier"`
	ProjectID  types.ID        `json:"projectId"`
	Category   DrawingCategory `json:"category"`

	Name    string          `json:"name"`
	Notes   string          `json:"notes"`
	DueDate types.Timestamp `json:"dueDate" sql:"type:DATETIME(6)"`

	// FileURL is empty only while the drawing is NOT_STARTED.
	FileURL string `json:"fileUrl"`

	State          state.State     `json:"state"`
	StateBeginTime types.Timestamp `json:"stateBeginTime" sql:"type:DATETIME(6)"`

	CurrentRevision int             `json:"currentRevision"`
	RevisionCount   int             `json:"revisionCount"`
	IssuedTime      types.Timestamp `json:"issuedTime" sql:"type:DATETIME(6)"`

	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

type DrawingDetail struct {
	Drawing

	AvailableCommands []state.Command `json:"availableCommands"`
}

type DrawingCreation struct {
	ProjectID types.ID        `json:"projectId" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Category  DrawingCategory `json:"category" binding:"required,oneof=ARCHITECTURE INTERIOR LANDSCAPE PLANNING"`
	Notes     string          `json:"notes"`
	DueDate   types.Timestamp `json:"dueDate"`
}

type DrawingUpdating struct {
	Name    string          `json:"name"`
	Notes   string          `json:"notes"`
	DueDate types.Timestamp `json:"dueDate"`
}

type DrawingQuery struct {
	ProjectID            types.ID        `form:"projectId" binding:"required"`
	Category             DrawingCategory `form:"category"`
	ExcludeNotApplicable bool            `form:"excludeNotApplicable"`
}

// DrawingTransition is the payload of a lifecycle command. FileURL is
// required for upload/resolve, Notes for request_revision.
type DrawingTransition struct {
	Command state.Command   `json:"command" binding:"required"`
	FileURL string          `json:"fileUrl"`
	Notes   string          `json:"notes"`
	DueDate types.Timestamp `json:"dueDate"`
}

// ProgressSnapshot is the derived completion view of one project. It is
// recomputed from current drawing rows on every request, never stored.
type ProgressSnapshot struct {
	ProjectID       types.ID `json:"projectId"`
	IssuedCount     int      `json:"issuedCount"`
	ApplicableTotal int      `json:"applicableTotal"`
	PercentComplete int      `json:"percentComplete"`
}
