package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Project struct {
	ID         types.ID  `json:"id" gorm:"primary_key"`
	Name       string    `json:"name"`
	Identifier string    `json:"identifier"`
	ClientName string    `json:"clientName"`

	NextDrawingID int       `json:"nextDrawingId"`
	Creator       types.ID  `json:"creator"`
	CreateTime    time.Time `json:"createTime" sql:"type:DATETIME(6)"`
}

type ProjectCreating struct {
	Name       string `json:"name" binding:"required"`
	Identifier string `json:"identifier" binding:"required,lte=6"`
	ClientName string `json:"clientName"`
}

type ProjectUpdating struct {
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"clientName"`
}

type ProjectMember struct {
	ProjectId  types.ID  `json:"projectId" gorm:"primary_key"`
	MemberId   types.ID  `json:"memberId" gorm:"primary_key"`
	Role       string    `json:"role"`
	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(6)"`
}

type ProjectRole struct {
	ProjectID types.ID `json:"projectId"`
	Role      string   `json:"role"`
}

const (
	ProjectRoleOwner    = "owner"
	ProjectRoleLeader   = "leader"
	ProjectRoleReviewer = "reviewer"
	ProjectRoleClient   = "client"
)
