package namespace

import (
	"errors"
	"fmt"
	"time"

	"atelier/account"
	"atelier/bizerror"
	"atelier/domain"
	"atelier/idgen"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryProjectsFunc = QueryProjects
	CreateProjectFunc = CreateProject
	UpdateProjectFunc = UpdateProject
)

func QueryProjects(s *session.Session) (*[]domain.Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var projects []domain.Project

	if s.Perms.HasRole(account.SystemAdminPermission.ID) {
		if err := db.Find(&projects).Error; err != nil {
			return nil, err
		}
		return &projects, nil
	}

	visibleProjects := s.VisibleProjects()
	if len(visibleProjects) == 0 {
		return &[]domain.Project{}, nil
	}
	if err := db.Where("id IN (?)", visibleProjects).Find(&projects).Error; err != nil {
		return nil, err
	}
	return &projects, nil
}

func CreateProject(c *domain.ProjectCreating, s *session.Session) (*domain.Project, error) {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	now := time.Now()
	g := domain.Project{ID: idgen.NextID(idWorker), Name: c.Name, Identifier: c.Identifier, ClientName: c.ClientName,
		NextDrawingID: 1, CreateTime: now, Creator: s.Identity.ID}
	r := domain.ProjectMember{ProjectId: g.ID, MemberId: s.Identity.ID, Role: domain.ProjectRoleOwner, CreateTime: now}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func UpdateProject(id types.ID, d *domain.ProjectUpdating, s *session.Session) error {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) &&
		!s.Perms.HasProjectRole(id, domain.ProjectRoleOwner) {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var project domain.Project
		if err := tx.Where(domain.Project{ID: id}).First(&project).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Project{ID: id}).Where(domain.Project{ID: id}).
			Update(domain.Project{Name: d.Name, ClientName: d.ClientName}).Error
	})
}

// NextDrawingIdentifier consume the per project sequence: "<identifier>-<n>".
func NextDrawingIdentifier(projectId types.ID, tx *gorm.DB) (string, error) {
	project := domain.Project{}
	if err := tx.Where(&domain.Project{ID: projectId}).First(&project).Error; err != nil {
		return "", err
	}

	// consume current value
	nextDrawingID := fmt.Sprintf("%s-%d", project.Identifier, project.NextDrawingID)
	// generate next value
	db := tx.Model(&domain.Project{}).Where(&domain.Project{ID: projectId, NextDrawingID: project.NextDrawingID}).
		Update("next_drawing_id", project.NextDrawingID+1)
	if db.Error != nil {
		return "", db.Error
	}
	if db.RowsAffected != 1 {
		return "", errors.New("concurrent modification")
	}
	return nextDrawingID, nil
}

func QueryProjectNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []domain.Project
	if err := db.Model(&domain.Project{}).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.Name
	}
	return result, nil
}
