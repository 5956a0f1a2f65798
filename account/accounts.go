package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"atelier/authority"
	"atelier/bizerror"
	"atelier/domain"
	"atelier/idgen"
	"atelier/misc"
	"atelier/persistence"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc = CreateUser
	QueryUsersFunc = QueryUsers
	UpdateUserFunc = UpdateUser

	LoadPermFunc = LoadPerm
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// Bootstrap create the default admin account when the user table is empty.
// ADMIN_SECRET overrides the initial password.
func Bootstrap() error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	count := 0
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		secret = "admin123"
	}
	admin := User{ID: idgen.NextID(userIdWorker), Name: "admin", Nickname: "Administrator", Secret: HashSha256(secret), Admin: true}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	misc.Log.Info("default admin account created")
	return nil
}

func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: c.Nickname, Secret: HashSha256(c.Secret)}
	if user.Nickname == "" {
		user.Nickname = user.Name
	}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Admin: user.Admin}, nil
}

func QueryUsers(s *session.Session) (*[]UserInfo, error) {
	var users []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func UpdateUser(userId types.ID, c *UserUpdation, s *session.Session) error {
	if !s.Perms.HasRole(SystemAdminPermission.ID) && userId != s.Identity.ID {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		user := User{ID: userId}
		if err := tx.Where(&user).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update(&User{Nickname: c.Nickname}).Error; err != nil {
			return err
		}
		return nil
	})
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	if err := db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).Scan(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

// LoadPerm build the permission strings and project roles of one user from
// the project member records.
func LoadPerm(userId types.ID) (authority.Permissions, authority.ProjectRoles) {
	db := persistence.ActiveDataSourceManager.GormDB(nil)

	perms := authority.Permissions{}
	projectRoles := authority.ProjectRoles{}

	user := User{ID: userId}
	if err := db.Where(&user).First(&user).Error; err == nil && user.Admin {
		perms = append(perms, SystemAdminPermission.ID)
	}

	var memberships []domain.ProjectMember
	if err := db.Where(&domain.ProjectMember{MemberId: userId}).Find(&memberships).Error; err != nil {
		misc.Log.Warnf("failed to load project members of user %v: %v", userId, err)
		return perms, projectRoles
	}
	for _, m := range memberships {
		perms = append(perms, m.Role+"_"+m.ProjectId.String())
		projectRoles = append(projectRoles, domain.ProjectRole{ProjectID: m.ProjectId, Role: m.Role})
	}
	return perms, projectRoles
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []User
	if err := db.Model(&User{}).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.Name
	}
	return result, nil
}
