package namespace_test

import (
	"time"

	"atelier/account"
	"atelier/bizerror"
	"atelier/domain"
	"atelier/domain/namespace"
	"atelier/persistence"
	"atelier/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Projects", func() {
	var (
		testDatabase *testinfra.TestDatabase
	)
	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("atelier")
		Expect(testDatabase.DS.GormDB(nil).AutoMigrate(&domain.Project{}, &domain.ProjectMember{}).Error).To(BeNil())
		persistence.ActiveDataSourceManager = testDatabase.DS
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("CreateProject", func() {
		It("should be able to create project with a default owner member", func() {
			sec := testinfra.BuildSecCtx(types.ID(1), account.SystemAdminPermission.ID)
			p, err := namespace.CreateProject(&domain.ProjectCreating{Name: "villa a", Identifier: "VLA", ClientName: "acme"}, sec)
			Expect(err).To(BeNil())
			Expect(p).ToNot(BeNil())
			Expect(p.Name).To(Equal("villa a"))
			Expect(p.Identifier).To(Equal("VLA"))
			Expect(p.ClientName).To(Equal("acme"))
			Expect(p.NextDrawingID).To(Equal(1))
			Expect(p.ID).ToNot(BeNil())
			Expect(p.CreateTime).ToNot(BeNil())
			Expect(p.Creator).To(Equal(types.ID(1)))

			var r []domain.ProjectMember
			Expect(testDatabase.DS.GormDB(nil).Find(&r).Error).To(BeNil())
			Expect(len(r)).To(Equal(1))
			Expect(r[0].ProjectId).To(Equal(p.ID))
			Expect(r[0].MemberId).To(Equal(types.ID(1)))
			Expect(r[0].Role).To(Equal("owner"))

			var q []domain.Project
			Expect(testDatabase.DS.GormDB(nil).Find(&q).Error).To(BeNil())
			Expect(len(q)).To(Equal(1))
			Expect(q[0].Name).To(Equal(p.Name))
			Expect(q[0].Identifier).To(Equal("VLA"))
			Expect(q[0].NextDrawingID).To(Equal(1))
			Expect(q[0].ID).To(Equal(p.ID))
		})

		It("only administrator can create project", func() {
			sec := testinfra.BuildSecCtx(types.ID(1))
			p, err := namespace.CreateProject(&domain.ProjectCreating{Name: "villa a", Identifier: "VLA"}, sec)
			Expect(p).To(BeNil())
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should return error when database action failed", func() {
			testDatabase.DS.GormDB(nil).DropTable(&domain.ProjectMember{})

			sec := testinfra.BuildSecCtx(types.ID(1), account.SystemAdminPermission.ID)
			p, err := namespace.CreateProject(&domain.ProjectCreating{Name: "villa a", Identifier: "VLA"}, sec)
			Expect(err).ToNot(BeNil())
			Expect(p).To(BeNil())

			testDatabase.DS.GormDB(nil).DropTable(&domain.Project{})
			p, err = namespace.CreateProject(&domain.ProjectCreating{Name: "villa a", Identifier: "VLA"}, sec)
			Expect(err).ToNot(BeNil())
			Expect(p).To(BeNil())
		})
	})

	Describe("QueryProjects", func() {
		It("administrator can query all projects", func() {
			t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
			testDatabase.DS.GormDB(nil).Save(&domain.Project{ID: 123, Identifier: "VLA", Name: "villa a", NextDrawingID: 10, CreateTime: t, Creator: 1})
			testDatabase.DS.GormDB(nil).Save(&domain.Project{ID: 124, Identifier: "VLB", Name: "villa b", NextDrawingID: 1, CreateTime: t, Creator: 1})

			b, err := namespace.QueryProjects(testinfra.BuildSecCtx(types.ID(2), account.SystemAdminPermission.ID))
			Expect(err).To(BeNil())
			Expect(len(*b)).To(Equal(2))
		})

		It("other users can only query visible projects", func() {
			t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
			testDatabase.DS.GormDB(nil).Save(&domain.Project{ID: 123, Identifier: "VLA", Name: "villa a", NextDrawingID: 10, CreateTime: t, Creator: 1})
			testDatabase.DS.GormDB(nil).Save(&domain.Project{ID: 124, Identifier: "VLB", Name: "villa b", NextDrawingID: 1, CreateTime: t, Creator: 1})

			b, err := namespace.QueryProjects(testinfra.BuildSecCtx(types.ID(2), "reviewer_123"))
			Expect(err).To(BeNil())
			Expect(*b).To(Equal([]domain.Project{{ID: 123, Identifier: "VLA", Name: "villa a", NextDrawingID: 10, CreateTime: t, Creator: 1}}))

			b, err = namespace.QueryProjects(testinfra.BuildSecCtx(types.ID(2)))
			Expect(err).To(BeNil())
			Expect(*b).To(BeEmpty())
		})
	})

	Describe("UpdateProject", func() {
		It("administrator or project owner can update project", func() {
			t := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
			testDatabase.DS.GormDB(nil).Save(&domain.Project{ID: 123, Identifier: "VLA", Name: "villa a", NextDrawingID: 10, CreateTime: t, Creator: 111})

			err := namespace.UpdateProject(123, &domain.ProjectUpdating{Name: "new name"}, testinfra.BuildSecCtx(types.ID(2), "leader_123"))
			Expect(err).To(Equal(bizerror.ErrForbidden))

			err = namespace.UpdateProject(123, &domain.ProjectUpdating{Name: "new name", ClientName: "acme"},
				testinfra.BuildSecCtx(types.ID(2), "owner_123"))
			Expect(err).To(BeNil())

			var q []domain.Project
			Expect(testDatabase.DS.GormDB(nil).Find(&q).Error).To(BeNil())
			Expect(len(q)).To(Equal(1))
			Expect(q[0].Name).To(Equal("new name"))
			Expect(q[0].ClientName).To(Equal("acme"))
			Expect(q[0].Identifier).To(Equal("VLA"))
			Expect(q[0].NextDrawingID).To(Equal(10))
		})
	})

	Describe("NextDrawingIdentifier", func() {
		It("should be able to generate next drawing identifier", func() {
			sec := testinfra.BuildSecCtx(types.ID(1), account.SystemAdminPermission.ID)

			p1, err := namespace.CreateProject(&domain.ProjectCreating{Name: "project1", Identifier: "P1"}, sec)
			Expect(err).To(BeNil())
			p2, err := namespace.CreateProject(&domain.ProjectCreating{Name: "project2", Identifier: "P2"}, sec)
			Expect(err).To(BeNil())

			nextId, err := namespace.NextDrawingIdentifier(p1.ID, testDatabase.DS.GormDB(nil))
			Expect(err).To(BeNil())
			Expect(nextId).To(Equal("P1-1"))

			record := &domain.Project{}
			Expect(testDatabase.DS.GormDB(nil).Where(&domain.Project{ID: p1.ID}).First(&record).Error).To(BeNil())
			Expect(record.NextDrawingID).To(Equal(2))
			record = &domain.Project{}
			Expect(testDatabase.DS.GormDB(nil).Where(&domain.Project{ID: p2.ID}).First(&record).Error).To(BeNil())
			Expect(record.NextDrawingID).To(Equal(1))

			nextId, err = namespace.NextDrawingIdentifier(p1.ID, testDatabase.DS.GormDB(nil))
			Expect(err).To(BeNil())
			Expect(nextId).To(Equal("P1-2"))
			nextId, err = namespace.NextDrawingIdentifier(p2.ID, testDatabase.DS.GormDB(nil))
			Expect(err).To(BeNil())
			Expect(nextId).To(Equal("P2-1"))
		})
	})

	Describe("QueryProjectNames", func() {
		It("should return correct project names", func() {
			ret, err := namespace.QueryProjectNames(nil)
			Expect(err).To(BeNil())
			Expect(len(ret)).To(BeZero())

			db := testDatabase.DS.GormDB(nil)
			Expect(db.Save(&domain.Project{
				ID: 1, Name: "p1", Identifier: "P1", NextDrawingID: 10, CreateTime: time.Now(), Creator: 100}).Error).To(BeNil())
			Expect(db.Save(&domain.Project{
				ID: 2, Name: "p2", Identifier: "P2", NextDrawingID: 11, CreateTime: time.Now(), Creator: 200}).Error).To(BeNil())

			ret, err = namespace.QueryProjectNames([]types.ID{1, 2, 4})
			Expect(err).To(BeNil())
			Expect(ret).To(Equal(map[types.ID]string{1: "p1", 2: "p2"}))
		})
	})
})
