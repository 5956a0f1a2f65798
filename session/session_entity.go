package session

import (
	"context"
	"strings"
	"time"

	"atelier/authority"

	"github.com/fundwit/go-commons/types"
)

type Session struct {
	Token        string                 `json:"token"`
	Identity     Identity               `json:"identity"`
	Perms        authority.Permissions  `json:"perms"`
	ProjectRoles authority.ProjectRoles `json:"projectRoles"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

func (s *Session) Clone() Session {
	c := *s
	perms := make(authority.Permissions, len(s.Perms))
	copy(perms, s.Perms)
	c.Perms = perms
	projectRoles := make(authority.ProjectRoles, len(s.ProjectRoles))
	copy(projectRoles, s.ProjectRoles)
	c.ProjectRoles = projectRoles
	return c
}

// VisibleProjects parse visible project ids from Session.Perms
func (s *Session) VisibleProjects() []types.ID {
	var projectIds []types.ID
	for _, v := range s.Perms {
		pairs := strings.Split(v, "_")
		if len(pairs) == 2 {
			id, err := types.ParseID(pairs[1])
			if err != nil {
				continue
			}
			projectIds = append(projectIds, id)
		}
	}
	if projectIds == nil {
		return []types.ID{}
	}
	return projectIds
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}
