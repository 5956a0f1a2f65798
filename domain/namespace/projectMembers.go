package namespace

import (
	"time"

	"atelier/account"
	"atelier/bizerror"
	"atelier/domain"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryProjectMembersFunc = QueryProjectMembers
	UpsertProjectMemberFunc = UpsertProjectMember
	DeleteProjectMemberFunc = DeleteProjectMember
)

type ProjectMemberQuery struct {
	ProjectID types.ID `form:"projectId" binding:"required"`
}

type ProjectMemberUpserting struct {
	ProjectID types.ID `json:"projectId" binding:"required"`
	MemberID  types.ID `json:"memberId" binding:"required"`
	Role      string   `json:"role" binding:"required,oneof=owner leader reviewer client"`
}

type ProjectMemberDeleting struct {
	ProjectID types.ID `form:"projectId" binding:"required"`
	MemberID  types.ID `form:"memberId" binding:"required"`
}

func canManageMembers(projectId types.ID, s *session.Session) bool {
	return s.Perms.HasRole(account.SystemAdminPermission.ID) ||
		s.Perms.HasProjectRole(projectId, domain.ProjectRoleOwner)
}

func QueryProjectMembers(q *ProjectMemberQuery, s *session.Session) (*[]domain.ProjectMember, error) {
	if !s.Perms.HasProjectViewPerm(q.ProjectID) && !s.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}
	var members []domain.ProjectMember
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&domain.ProjectMember{ProjectId: q.ProjectID}).Find(&members).Error; err != nil {
		return nil, err
	}
	return &members, nil
}

func UpsertProjectMember(u *ProjectMemberUpserting, s *session.Session) error {
	if !canManageMembers(u.ProjectID, s) {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&domain.Project{ID: u.ProjectID}).First(&domain.Project{}).Error; err != nil {
			return err
		}

		record := domain.ProjectMember{ProjectId: u.ProjectID, MemberId: u.MemberID}
		db := tx.Model(&domain.ProjectMember{}).Where(&record).Update(&domain.ProjectMember{Role: u.Role})
		if db.Error != nil {
			return db.Error
		}
		if db.RowsAffected == 0 {
			record.Role = u.Role
			record.CreateTime = time.Now()
			return tx.Create(&record).Error
		}
		return nil
	})
}

func DeleteProjectMember(d *ProjectMemberDeleting, s *session.Session) error {
	if !canManageMembers(d.ProjectID, s) {
		return bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Delete(domain.ProjectMember{}, "project_id = ? AND member_id = ?", d.ProjectID, d.MemberID).Error
}
