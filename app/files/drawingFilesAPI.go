package files

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"atelier/bizerror"
	"atelier/client/oss"
	"atelier/domain"
	"atelier/domain/drawing"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	PathDrawingFiles = "/v1/drawing-files"

	UploadDrawingFileFunc = UploadDrawingFile
)

func RegisterDrawingFilesAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/drawings", middleWares...)
	g.POST(":id/files", handleUploadFile)

	f := r.Group(PathDrawingFiles, middleWares...)
	f.GET("*key", handleDownloadFile)
}

// handleUploadFile receive the raw bytes of a deliverable, store them and
// answer with the fileUrl the lifecycle transition expects. The state
// machine itself never sees file content.
func handleUploadFile(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	src, err := file.Open()
	if err != nil {
		panic(err)
	}
	defer src.Close()

	fileUrl, err := UploadDrawingFileFunc(parsedId, file.Filename, src, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, gin.H{"fileUrl": fileUrl})
}

func UploadDrawingFile(drawingId types.ID, filename string, src io.Reader, s *session.Session) (string, error) {
	detail, err := drawing.DetailDrawingFunc(drawingId.String(), s)
	if err != nil {
		return "", err
	}
	if !s.Perms.HasProjectRole(detail.ProjectID, domain.ProjectRoleOwner, domain.ProjectRoleLeader) {
		return "", bizerror.ErrForbidden
	}

	key := "drawings/" + drawingId.String() + "/" + uuid.New().String() + "-" + path.Base(filename)
	if err := oss.PutObjectFunc(key, src, s); err != nil {
		return "", err
	}
	return PathDrawingFiles + "/" + key, nil
}

func handleDownloadFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, "drawings/") {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid file key")})
	}

	s := session.ExtractSessionFromGinContext(c)

	// the second key segment is the owning drawing id
	segments := strings.Split(key, "/")
	if len(segments) < 3 {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid file key")})
	}
	if _, err := drawing.DetailDrawingFunc(segments[1], s); err != nil {
		panic(err)
	}

	reader, err := oss.GetObjectFunc(key, s)
	if err != nil {
		panic(err)
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", reader, nil)
}
