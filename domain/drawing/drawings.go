package drawing

import (
	"errors"
	"strconv"

	"atelier/bizerror"
	"atelier/domain"
	"atelier/domain/namespace"
	"atelier/domain/state"
	"atelier/event"
	"atelier/idgen"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	drawingIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateDrawingFunc = CreateDrawing
	QueryDrawingsFunc = QueryDrawings
	DetailDrawingFunc = DetailDrawing
	UpdateDrawingFunc = UpdateDrawing
	DeleteDrawingFunc = DeleteDrawing
	LoadDrawingsFunc  = LoadDrawings
)

func CreateDrawing(c *domain.DrawingCreation, s *session.Session) (*domain.DrawingDetail, error) {
	if !s.Perms.HasProjectRole(c.ProjectID, domain.ProjectRoleOwner, domain.ProjectRoleLeader) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var detail *domain.DrawingDetail
	var ev *event.EventRecord

	err1 := db.Transaction(func(tx *gorm.DB) error {
		now := types.CurrentTimestamp()
		d := domain.Drawing{
			ID:        idgen.NextID(drawingIdWorker),
			ProjectID: c.ProjectID,
			Category:  c.Category,
			Name:      c.Name,
			Notes:     c.Notes,
			DueDate:   c.DueDate,

			State:          state.NotStarted,
			StateBeginTime: now,

			CreatorID:  s.Identity.ID,
			CreateTime: now,
		}

		identifier, err := namespace.NextDrawingIdentifier(c.ProjectID, tx)
		if err != nil {
			return err
		}
		d.Identifier = identifier

		if err := tx.Create(d).Error; err != nil {
			return err
		}

		ev, err = event.CreateEvent(event.SourceTypeDrawing, d.ID, d.Identifier, event.EventCategoryCreated, "",
			nil, &s.Identity, now, tx)
		if err != nil {
			return err
		}

		detail = &domain.DrawingDetail{Drawing: d, AvailableCommands: state.DrawingLifecycle.AvailableCommands(d.State)}
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return detail, nil
}

func QueryDrawings(query *domain.DrawingQuery, s *session.Session) (*[]domain.Drawing, error) {
	if !s.Perms.HasProjectViewPerm(query.ProjectID) {
		return &[]domain.Drawing{}, nil
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where(domain.Drawing{ProjectID: query.ProjectID})
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.ExcludeNotApplicable {
		q = q.Where("state != ?", state.NotApplicable)
	}

	var drawings []domain.Drawing
	if err := q.Order("identifier ASC").Find(&drawings).Error; err != nil {
		return nil, err
	}
	return &drawings, nil
}

func DetailDrawing(identifier string, s *session.Session) (*domain.DrawingDetail, error) {
	id, _ := types.ParseID(identifier)
	d := domain.Drawing{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where("id = ? OR identifier LIKE ?", id, identifier).First(&d).Error; err != nil {
		return nil, err
	}

	if !s.Perms.HasProjectViewPerm(d.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	return &domain.DrawingDetail{Drawing: d, AvailableCommands: state.DrawingLifecycle.AvailableCommands(d.State)}, nil
}

func findDrawingAndCheckRoles(tx *gorm.DB, id types.ID, s *session.Session, roles ...string) (*domain.Drawing, error) {
	var d domain.Drawing
	if err := tx.Where(&domain.Drawing{ID: id}).First(&d).Error; err != nil {
		return nil, err
	}
	if s == nil || !s.Perms.HasProjectRole(d.ProjectID, roles...) {
		return nil, bizerror.ErrForbidden
	}
	return &d, nil
}

func UpdateDrawing(id types.ID, u *domain.DrawingUpdating, s *session.Session) (*domain.Drawing, error) {
	var updated domain.Drawing
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		origin, err := findDrawingAndCheckRoles(tx, id, s, domain.ProjectRoleOwner, domain.ProjectRoleLeader)
		if err != nil {
			return err
		}

		// a not applicable drawing is off every action surface
		if origin.State == state.NotApplicable {
			return &bizerror.ErrInvalidTransition{State: origin.State, Command: "update"}
		}

		db := tx.Model(&domain.Drawing{}).Where(&domain.Drawing{ID: id}).Update(u)
		if err := db.Error; err != nil {
			return err
		}
		if db.RowsAffected != 1 {
			return errors.New("expected affected row is 1, but actual is " + strconv.FormatInt(db.RowsAffected, 10))
		}

		ev, err = event.CreateEvent(event.SourceTypeDrawing, origin.ID, origin.Identifier, event.EventCategoryPropertyUpdated, "",
			[]event.UpdatedProperty{{
				PropertyName: "Name", PropertyDesc: "Name",
				OldValue: origin.Name, OldValueDesc: origin.Name,
				NewValue: u.Name, NewValueDesc: u.Name,
			}},
			&s.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.Drawing{ID: id}).First(&updated).Error
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &updated, nil
}

// DeleteDrawing hard delete, only for drawings which never had a file
// uploaded. Everything else is excluded with mark_not_applicable instead.
func DeleteDrawing(id types.ID, s *session.Session) error {
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		d, err := findDrawingAndCheckRoles(tx, id, s, domain.ProjectRoleOwner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if d.FileURL != "" || d.RevisionCount > 0 {
			return bizerror.ErrDrawingHasFile
		}

		ev, err = event.CreateEvent(event.SourceTypeDrawing, d.ID, d.Identifier, event.EventCategoryDeleted, "",
			nil, &s.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}

		if err := tx.Delete(domain.Drawing{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(domain.RevisionRecord{}, "drawing_id = ?", id).Error
	})
	if err1 != nil {
		return err1
	}
	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

func LoadDrawings(page, size int) ([]domain.Drawing, error) {
	drawings := []domain.Drawing{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	if err := db.Order("ID ASC").Offset(offset).Limit(size).Find(&drawings).Error; err != nil {
		return nil, err
	}
	return drawings, nil
}
