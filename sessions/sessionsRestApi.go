package sessions

import (
	"errors"
	"net/http"
	"time"

	"atelier/account"
	"atelier/bizerror"
	"atelier/misc"
	"atelier/persistence"
	"atelier/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// loginLimiter throttles login attempts across the instance.
var loginLimiter = rate.NewLimiter(rate.Every(time.Second), 10)

func RegisterSessionsRestAPI(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", SimpleLoginHandler)
	g.DELETE("", SimpleLogoutHandler)

	s := r.Group("/v1/session", session.SimpleAuthFilter())
	s.GET("", handleQuerySession)
}

func handleQuerySession(c *gin.Context) {
	c.JSON(http.StatusOK, session.ExtractSessionFromGinContext(c))
}

func SimpleLogoutHandler(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func SimpleLoginHandler(c *gin.Context) {
	if !loginLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, &misc.ErrorBody{Code: "common.too_many_requests", Message: "too many login attempts"})
		return
	}

	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	identity := session.Identity{}
	db := persistence.ActiveDataSourceManager.GormDB(c.Request.Context())
	if err := db.Model(&account.User{}).Where(&account.User{Name: login.Name, Secret: account.HashSha256(login.Password)}).
		Scan(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			panic(bizerror.ErrUnauthenticated)
		}
		panic(err)
	}

	token := uuid.New().String()
	perms, projectRoles := account.LoadPermFunc(identity.ID)
	securityContext := session.Session{Token: token, Identity: identity, Perms: perms, ProjectRoles: projectRoles, SigningTime: time.Now()}
	session.TokenCache.Set(token, &securityContext, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &securityContext)
}
