package namespace_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"atelier/bizerror"
	"atelier/domain"
	"atelier/domain/namespace"
	"atelier/session"
	"atelier/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProjectRestApi", func() {
	var (
		router *gin.Engine
	)
	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		namespace.RegisterProjectsRestAPI(router)
	})

	Describe("handleQueryProjects", func() {
		It("should be able to query projects successfully", func() {
			namespace.QueryProjectsFunc = func(s *session.Session) (*[]domain.Project, error) {
				t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
				return &[]domain.Project{{ID: 123, Identifier: "VLA", Name: "villa a", ClientName: "acme",
					NextDrawingID: 10, CreateTime: t, Creator: 1}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`
				{"list": [{"id": "123", "identifier": "VLA", "name": "villa a", "clientName": "acme",
					"nextDrawingId": 10, "createTime": "2021-01-01T00:00:00Z", "creator": "1"}], "total": 1}
			`))
		})
	})

	Describe("handleCreateProject", func() {
		It("should be able to create project successfully", func() {
			var payload *domain.ProjectCreating
			namespace.CreateProjectFunc = func(c *domain.ProjectCreating, s *session.Session) (*domain.Project, error) {
				payload = c
				t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
				return &domain.Project{ID: 123, Identifier: c.Identifier, Name: c.Name, ClientName: c.ClientName,
					NextDrawingID: 1, CreateTime: t, Creator: 100}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(`
				{"name": "villa a", "identifier": "VLA", "clientName": "acme"}
			`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(body).To(MatchJSON(`
				{"id": "123", "identifier": "VLA", "name": "villa a", "clientName": "acme",
					"nextDrawingId": 1, "createTime": "2021-01-01T00:00:00Z", "creator": "100"}
			`))
			Expect(status).To(Equal(http.StatusCreated))

			Expect(*payload).To(Equal(domain.ProjectCreating{Name: "villa a", Identifier: "VLA", ClientName: "acme"}))
		})

		It("should return 400 when validate failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(`{"name": "villa a"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param",
				"message":"Key: 'ProjectCreating.Identifier' Error:Field validation for 'Identifier' failed on the 'required' tag","data":null}`))
		})
	})

	Describe("handleUpdateProject", func() {
		It("should be able to update project successfully", func() {
			var resId types.ID
			var payload *domain.ProjectUpdating
			namespace.UpdateProjectFunc = func(id types.ID, d *domain.ProjectUpdating, s *session.Session) error {
				resId = id
				payload = d
				return nil
			}

			req := httptest.NewRequest(http.MethodPut, "/v1/projects/123", strings.NewReader(`
				{"name": "new project name"}
			`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(body).To(BeZero())
			Expect(status).To(Equal(http.StatusOK))

			Expect(resId).To(Equal(types.ID(123)))
			Expect(*payload).To(Equal(domain.ProjectUpdating{Name: "new project name"}))
		})
	})

	Describe("handleQueryMembers", func() {
		It("should be able to query members successfully", func() {
			namespace.QueryProjectMembersFunc = func(q *namespace.ProjectMemberQuery, s *session.Session) (*[]domain.ProjectMember, error) {
				Expect(q.ProjectID).To(Equal(types.ID(123)))
				t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
				return &[]domain.ProjectMember{{ProjectId: 123, MemberId: 20, Role: "reviewer", CreateTime: t}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/project-members?projectId=123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`
				{"list": [{"projectId": "123", "memberId": "20", "role": "reviewer", "createTime": "2021-01-01T00:00:00Z"}], "total": 1}
			`))
		})
	})

	Describe("handleUpsertMember", func() {
		It("should be able to upsert member successfully", func() {
			var payload *namespace.ProjectMemberUpserting
			namespace.UpsertProjectMemberFunc = func(u *namespace.ProjectMemberUpserting, s *session.Session) error {
				payload = u
				return nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/project-members", strings.NewReader(`
				{"projectId": "123", "memberId": "20", "role": "leader"}
			`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(body).To(BeZero())
			Expect(status).To(Equal(http.StatusOK))
			Expect(*payload).To(Equal(namespace.ProjectMemberUpserting{ProjectID: 123, MemberID: 20, Role: "leader"}))
		})

		It("should return 400 for unknown role", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/project-members", strings.NewReader(`
				{"projectId": "123", "memberId": "20", "role": "director"}
			`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param",
				"message":"Key: 'ProjectMemberUpserting.Role' Error:Field validation for 'Role' failed on the 'oneof' tag","data":null}`))
		})
	})

	Describe("handleDeleteMember", func() {
		It("should be able to delete member successfully", func() {
			var payload *namespace.ProjectMemberDeleting
			namespace.DeleteProjectMemberFunc = func(d *namespace.ProjectMemberDeleting, s *session.Session) error {
				payload = d
				return nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/v1/project-members?projectId=123&memberId=20", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(body).To(BeZero())
			Expect(status).To(Equal(http.StatusNoContent))
			Expect(*payload).To(Equal(namespace.ProjectMemberDeleting{ProjectID: 123, MemberID: 20}))
		})
	})
})
