package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ProjectPhase represents a fixed construction stage
type ProjectPhase string

const (
	ProjectPhasePlanning        ProjectPhase = "planning"
	ProjectPhaseLandAcquisition ProjectPhase = "land_acquisition"
	ProjectPhaseDocumentation   ProjectPhase = "documentation"
	ProjectPhaseFoundation      ProjectPhase = "foundation"
	ProjectPhaseStructure       ProjectPhase = "structure"
	ProjectPhaseFinishing       ProjectPhase = "finishing"
	ProjectPhaseDelivered       ProjectPhase = "delivered"
)

// ValidProjectPhase reports whether p is one of the fixed stages
func ValidProjectPhase(p ProjectPhase) bool {
	switch p {
	case ProjectPhasePlanning, ProjectPhaseLandAcquisition, ProjectPhaseDocumentation,
		ProjectPhaseFoundation, ProjectPhaseStructure, ProjectPhaseFinishing, ProjectPhaseDelivered:
		return true
	}
	return false
}

// ProjectStatus is the per-member construction progress record
type ProjectStatus struct {
	ID                 uuid.UUID    `json:"id"`
	UserID             uuid.UUID    `json:"userId"`
	Phase              ProjectPhase `json:"phase"`
	ProgressPercentage int          `json:"progressPercentage"`
	Notes              null.String  `json:"notes,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// UpsertProjectStatusInput represents admin input for progress updates
type UpsertProjectStatusInput struct {
	Phase              ProjectPhase `json:"phase" binding:"required"`
	ProgressPercentage int          `json:"progressPercentage"`
	Notes              string       `json:"notes,omitempty"`
}
