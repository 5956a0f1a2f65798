package drawing

import (
	"errors"
	"strconv"
	"sync"

	"atelier/bizerror"
	"atelier/domain"
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
	revisionIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	ApplyTransitionFunc = ApplyTransition
)

// commandRoles project roles allowed to issue each lifecycle command.
// Role checks happen before guard evaluation, the state machine itself
// never inspects identity.
var commandRoles = map[state.Command][]string{
	state.CommandUpload:            {domain.ProjectRoleOwner, domain.ProjectRoleLeader},
	state.CommandResolve:           {domain.ProjectRoleOwner, domain.ProjectRoleLeader},
	state.CommandApprove:           {domain.ProjectRoleOwner, domain.ProjectRoleReviewer},
	state.CommandRequestRevision:   {domain.ProjectRoleOwner, domain.ProjectRoleReviewer, domain.ProjectRoleClient},
	state.CommandIssue:             {domain.ProjectRoleOwner, domain.ProjectRoleLeader},
	state.CommandMarkNotApplicable: {domain.ProjectRoleOwner, domain.ProjectRoleLeader},
}

// Transitions on the same drawing are serialized: the guard re-reads the
// row only while holding the drawing's lock, so racing commands resolve
// to exactly one winner.
var (
	drawingLocksMutex sync.Mutex
	drawingLocks      = map[types.ID]*sync.Mutex{}
)

func lockOfDrawing(id types.ID) *sync.Mutex {
	drawingLocksMutex.Lock()
	defer drawingLocksMutex.Unlock()
	lock, found := drawingLocks[id]
	if !found {
		lock = &sync.Mutex{}
		drawingLocks[id] = lock
	}
	return lock
}

func validateTransitionPayload(t *domain.DrawingTransition) error {
	switch t.Command {
	case state.CommandUpload, state.CommandResolve:
		if t.FileURL == "" {
			return &bizerror.ErrValidation{Message: "fileUrl is required for command " + string(t.Command)}
		}
	case state.CommandRequestRevision:
		if t.Notes == "" {
			return &bizerror.ErrValidation{Message: "notes are required for command " + string(t.Command)}
		}
	case state.CommandApprove, state.CommandIssue, state.CommandMarkNotApplicable:
		// no payload
	default:
		return &bizerror.ErrBadParam{Cause: errors.New("unknown command '" + string(t.Command) + "'")}
	}
	return nil
}

func ApplyTransition(id types.ID, t *domain.DrawingTransition, s *session.Session) (*domain.DrawingDetail, error) {
	// fail fast, before any state is touched
	if err := validateTransitionPayload(t); err != nil {
		return nil, err
	}

	lock := lockOfDrawing(id)
	lock.Lock()
	defer lock.Unlock()

	var detail *domain.DrawingDetail
	var ev *event.EventRecord

	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		// guard re-read under the drawing lock
		d := domain.Drawing{ID: id}
		if err := tx.Where(&domain.Drawing{ID: id}).First(&d).Error; err != nil {
			return err
		}
		if !s.Perms.HasProjectRole(d.ProjectID, commandRoles[t.Command]...) {
			return bizerror.ErrForbidden
		}

		transition, found := state.DrawingLifecycle.TransitionOf(d.State, t.Command)
		if !found {
			return &bizerror.ErrInvalidTransition{State: d.State, Command: t.Command,
				Available: state.DrawingLifecycle.AvailableCommands(d.State)}
		}

		now := types.CurrentTimestamp()
		updates := map[string]interface{}{"state": transition.To, "state_begin_time": now}

		switch t.Command {
		case state.CommandUpload:
			updates["file_url"] = t.FileURL
			updates["current_revision"] = 1
		case state.CommandResolve:
			updates["file_url"] = t.FileURL
			updates["current_revision"] = d.CurrentRevision + 1
			updates["revision_count"] = d.RevisionCount + 1

			// close the single open ledger entry of the drawing
			ret := tx.Model(&domain.RevisionRecord{}).
				Where("drawing_id = ? AND resolved_time = ?", d.ID, types.Timestamp{}).
				Update(&domain.RevisionRecord{ResolvedTime: now})
			if ret.Error != nil {
				return ret.Error
			}
			if ret.RowsAffected != 1 {
				return errors.New("expected one open revision record, but actual is " + strconv.FormatInt(ret.RowsAffected, 10))
			}
		case state.CommandIssue:
			updates["issued_time"] = now
		case state.CommandRequestRevision:
			// re-opening an issued drawing withdraws the issuance
			if d.State == state.Issued {
				updates["issued_time"] = types.Timestamp{}
			}
			record := domain.RevisionRecord{
				ID: idgen.NextID(revisionIdWorker), DrawingID: d.ID,
				Notes: t.Notes, DueDate: t.DueDate,
				RequestorID: s.Identity.ID, RequestorName: s.Identity.Nickname, RequestTime: now,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		// state in the where clause keeps the write honest against other
		// instances sharing the database
		ret := tx.Model(&domain.Drawing{}).Where(&domain.Drawing{ID: d.ID, State: d.State}).Update(updates)
		if err := ret.Error; err != nil {
			return err
		}
		if ret.RowsAffected != 1 {
			return errors.New("expected affected row is 1, but actual is " + strconv.FormatInt(ret.RowsAffected, 10))
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeDrawing, d.ID, d.Identifier, event.EventCategoryStateTransited, string(t.Command),
			[]event.UpdatedProperty{{
				PropertyName: "State", PropertyDesc: "State",
				OldValue: string(d.State), OldValueDesc: string(d.State),
				NewValue: string(transition.To), NewValueDesc: string(transition.To),
			}},
			&s.Identity, now, tx)
		if err != nil {
			return err
		}

		updated := domain.Drawing{}
		if err := tx.Where(&domain.Drawing{ID: id}).First(&updated).Error; err != nil {
			return err
		}
		detail = &domain.DrawingDetail{Drawing: updated, AvailableCommands: state.DrawingLifecycle.AvailableCommands(updated.State)}
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
