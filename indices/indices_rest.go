package indices

import (
	"net/http"

	"atelier/bizerror"
	"atelier/misc"
	"atelier/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterIndicesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/index-requests", middleWares...)
	g.POST("", handleCreateIndexRequest)

	s := r.Group("/v1/drawing-search", middleWares...)
	s.GET("", handleSearchDrawings)
}

func handleCreateIndexRequest(c *gin.Context) {
	accepted, err := ScheduleNewSyncRunFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	if accepted {
		c.AbortWithStatus(http.StatusAccepted)
	} else {
		c.AbortWithStatus(http.StatusConflict)
	}
}

func handleSearchDrawings(c *gin.Context) {
	query := DrawingSearchQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	drawings, err := SearchDrawingsFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: drawings, Total: uint64(len(drawings))})
}
