package namespace

import (
	"errors"
	"net/http"

	"atelier/bizerror"
	"atelier/domain"
	"atelier/misc"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterProjectsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/projects", middleWares...)
	g.GET("", handleQueryProjects)
	g.POST("", handleCreateProject)
	g.PUT(":id", handleUpdateProject)

	m := r.Group("/v1/project-members", middleWares...)
	m.GET("", handleQueryMembers)
	m.POST("", handleUpsertMember)
	m.DELETE("", handleDeleteMember)
}

func handleQueryProjects(c *gin.Context) {
	projects, err := QueryProjectsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: projects, Total: uint64(len(*projects))})
}

func handleCreateProject(c *gin.Context) {
	creation := domain.ProjectCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	project, err := CreateProjectFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, project)
}

func handleUpdateProject(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	updating := domain.ProjectUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateProjectFunc(parsedId, &updating, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusOK)
}

func handleQueryMembers(c *gin.Context) {
	query := ProjectMemberQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	members, err := QueryProjectMembersFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: members, Total: uint64(len(*members))})
}

func handleUpsertMember(c *gin.Context) {
	upserting := ProjectMemberUpserting{}
	if err := c.ShouldBindBodyWith(&upserting, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpsertProjectMemberFunc(&upserting, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusOK)
}

func handleDeleteMember(c *gin.Context) {
	deleting := ProjectMemberDeleting{}
	if err := c.MustBindWith(&deleting, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteProjectMemberFunc(&deleting, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
