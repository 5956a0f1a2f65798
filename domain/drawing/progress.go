package drawing

import (
	"math"

	"atelier/bizerror"
	"atelier/domain"
	"atelier/domain/state"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
)

var (
	ProgressOfProjectFunc = ProgressOfProject
)

// ProgressOfProject recompute the completion view of a project from the
// current drawing rows. Nothing is cached between calls, a transition is
// visible to the next progress read immediately.
func ProgressOfProject(projectId types.ID, s *session.Session) (*domain.ProgressSnapshot, error) {
	if !s.Perms.HasProjectViewPerm(projectId) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&domain.Project{ID: projectId}).First(&domain.Project{}).Error; err != nil {
		return nil, err
	}

	var drawings []domain.Drawing
	if err := db.Where(&domain.Drawing{ProjectID: projectId}).Find(&drawings).Error; err != nil {
		return nil, err
	}
	return ComputeProgress(projectId, drawings), nil
}

// ComputeProgress count issued drawings against the applicable total.
// Not applicable drawings are out of both counts, an empty applicable set
// yields zero percent.
func ComputeProgress(projectId types.ID, drawings []domain.Drawing) *domain.ProgressSnapshot {
	applicable, issued := 0, 0
	for _, d := range drawings {
		if d.State == state.NotApplicable {
			continue
		}
		applicable++
		if d.State == state.Issued {
			issued++
		}
	}

	percent := 0
	if applicable > 0 {
		// round half up
		percent = int(math.Floor(float64(issued)*100/float64(applicable) + 0.5))
	}
	return &domain.ProgressSnapshot{ProjectID: projectId, IssuedCount: issued, ApplicableTotal: applicable, PercentComplete: percent}
}
