package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"

	"atelier/authority"
	"atelier/domain"
	"atelier/domain/drawing"
	"atelier/domain/state"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

// BuildSecCtx build session with given perms, project roles are derived from perms
func BuildSecCtx(uid types.ID, perms ...string) *session.Session {
	projectRoles := authority.ProjectRoles{}
	for _, perm := range perms {
		idx := strings.Index(perm, "_")
		if idx > 0 {
			role := perm[0:idx]
			projectId, err := types.ParseID(perm[idx+1:])
			if err != nil {
				continue
			}
			projectRoles = append(projectRoles, domain.ProjectRole{ProjectID: projectId, Role: role})
		}
	}

	return &session.Session{Identity: session.Identity{ID: uid}, Perms: perms, ProjectRoles: projectRoles}
}

// BuildDrawing create a drawing in its initial state
func BuildDrawing(name string, projectId types.ID, secCtx *session.Session) *domain.DrawingDetail {
	detail, err := drawing.CreateDrawing(&domain.DrawingCreation{
		ProjectID: projectId, Name: name, Category: domain.CategoryArchitecture}, secCtx)
	Expect(err).To(BeNil())
	Expect(detail).ToNot(BeNil())
	Expect(detail.State).To(Equal(state.NotStarted))
	return detail
}

// ExecuteRequest drive the request against the router, returns status code, response body and the raw response
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	Expect(err).To(BeNil())
	return resp.StatusCode, string(bodyBytes), resp
}
