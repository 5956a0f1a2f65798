package drawingrest

import (
	"errors"
	"net/http"

	"atelier/bizerror"
	"atelier/domain"
	"atelier/domain/drawing"
	"atelier/misc"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathDrawings = "/v1/drawings"
)

func RegisterDrawingsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathDrawings, middleWares...)
	g.GET("", handleQuery)
	g.POST("", handleCreate)
	g.GET(":id", handleDetail)
	g.PUT(":id", handleUpdate)
	g.DELETE(":id", handleDelete)
	g.PUT(":id/transition", handleTransition)
	g.GET(":id/revisions", handleQueryRevisions)

	p := r.Group("/v1/drawing-progress", middleWares...)
	p.GET("", handleProgress)
}

func handleQuery(c *gin.Context) {
	query := domain.DrawingQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	drawings, err := drawing.QueryDrawingsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: drawings, Total: uint64(len(*drawings))})
}

func handleCreate(c *gin.Context) {
	creation := domain.DrawingCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := drawing.CreateDrawingFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleDetail(c *gin.Context) {
	detail, err := drawing.DetailDrawingFunc(c.Param("id"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func handleUpdate(c *gin.Context) {
	parsedId := parseId(c)

	updating := domain.DrawingUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updated, err := drawing.UpdateDrawingFunc(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func handleDelete(c *gin.Context) {
	parsedId := parseId(c)

	if err := drawing.DeleteDrawingFunc(parsedId, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleTransition(c *gin.Context) {
	parsedId := parseId(c)

	transition := domain.DrawingTransition{}
	if err := c.ShouldBindBodyWith(&transition, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := drawing.ApplyTransitionFunc(parsedId, &transition, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleQueryRevisions(c *gin.Context) {
	parsedId := parseId(c)

	records, err := drawing.QueryRevisionsFunc(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}

type progressQuery struct {
	ProjectID types.ID `form:"projectId" binding:"required"`
}

func handleProgress(c *gin.Context) {
	query := progressQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	progress, err := drawing.ProgressOfProjectFunc(query.ProjectID, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, progress)
}

func parseId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
