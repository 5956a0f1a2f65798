package drawing

import (
	"atelier/bizerror"
	"atelier/domain"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
)

var (
	QueryRevisionsFunc = QueryRevisions
)

// QueryRevisions the revision ledger of one drawing, oldest first.
func QueryRevisions(drawingId types.ID, s *session.Session) (*[]domain.RevisionRecord, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	d := domain.Drawing{}
	if err := db.Where(&domain.Drawing{ID: drawingId}).Select("project_id").First(&d).Error; err != nil {
		return nil, err
	}
	if !s.Perms.HasProjectViewPerm(d.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	var records []domain.RevisionRecord
	if err := db.Where(&domain.RevisionRecord{DrawingID: drawingId}).
		Order("request_time ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
