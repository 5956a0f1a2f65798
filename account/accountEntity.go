package account

import (
	"github.com/fundwit/go-commons/types"
)

type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	SystemAdminPermission = Permission{ID: "system:admin", Name: "System Administrator"}
	SystemViewPermission  = Permission{ID: "system:view", Name: "System Viewer"}
)

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Secret   string   `json:"-"`
	Admin    bool     `json:"admin"`
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Admin    bool     `json:"admin"`
}

type UserCreation struct {
	Name     string `json:"name" binding:"required"`
	Nickname string `json:"nickname"`
	Secret   string `json:"secret" binding:"required,gte=6"`
}

type UserUpdation struct {
	Nickname string `json:"nickname" binding:"required"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret" binding:"required"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6"`
}
