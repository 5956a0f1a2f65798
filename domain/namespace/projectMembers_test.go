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
	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProjectMembers", func() {
	var (
		testDatabase *testinfra.TestDatabase
	)
	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("atelier")
		Expect(testDatabase.DS.GormDB(nil).AutoMigrate(&domain.Project{}, &domain.ProjectMember{}).Error).To(BeNil())
		persistence.ActiveDataSourceManager = testDatabase.DS

		Expect(testDatabase.DS.GormDB(nil).Save(&domain.Project{
			ID: 100, Name: "villa a", Identifier: "VLA", NextDrawingID: 1, CreateTime: time.Now(), Creator: 1}).Error).To(BeNil())
		Expect(testDatabase.DS.GormDB(nil).Create(&domain.ProjectMember{
			ProjectId: 100, MemberId: 1, Role: domain.ProjectRoleOwner, CreateTime: time.Now()}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("QueryProjectMembers", func() {
		It("should return members of the project for members and administrators", func() {
			members, err := namespace.QueryProjectMembers(&namespace.ProjectMemberQuery{ProjectID: 100},
				testinfra.BuildSecCtx(types.ID(2), "client_100"))
			Expect(err).To(BeNil())
			Expect(len(*members)).To(Equal(1))
			Expect((*members)[0].MemberId).To(Equal(types.ID(1)))
			Expect((*members)[0].Role).To(Equal("owner"))

			members, err = namespace.QueryProjectMembers(&namespace.ProjectMemberQuery{ProjectID: 100},
				testinfra.BuildSecCtx(types.ID(2), account.SystemAdminPermission.ID))
			Expect(err).To(BeNil())
			Expect(len(*members)).To(Equal(1))
		})

		It("should forbid users outside of the project", func() {
			members, err := namespace.QueryProjectMembers(&namespace.ProjectMemberQuery{ProjectID: 100},
				testinfra.BuildSecCtx(types.ID(2), "owner_200"))
			Expect(members).To(BeNil())
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})
	})

	Describe("UpsertProjectMember", func() {
		It("should insert new member and update existing member", func() {
			sec := testinfra.BuildSecCtx(types.ID(1), "owner_100")

			Expect(namespace.UpsertProjectMember(&namespace.ProjectMemberUpserting{
				ProjectID: 100, MemberID: 20, Role: domain.ProjectRoleReviewer}, sec)).To(BeNil())

			var r []domain.ProjectMember
			Expect(testDatabase.DS.GormDB(nil).Where("member_id = ?", 20).Find(&r).Error).To(BeNil())
			Expect(len(r)).To(Equal(1))
			Expect(r[0].Role).To(Equal("reviewer"))
			Expect(r[0].CreateTime).ToNot(Equal(time.Time{}))

			Expect(namespace.UpsertProjectMember(&namespace.ProjectMemberUpserting{
				ProjectID: 100, MemberID: 20, Role: domain.ProjectRoleClient}, sec)).To(BeNil())

			r = []domain.ProjectMember{}
			Expect(testDatabase.DS.GormDB(nil).Where("member_id = ?", 20).Find(&r).Error).To(BeNil())
			Expect(len(r)).To(Equal(1))
			Expect(r[0].Role).To(Equal("client"))
		})

		It("only administrator or project owner can manage members", func() {
			err := namespace.UpsertProjectMember(&namespace.ProjectMemberUpserting{
				ProjectID: 100, MemberID: 20, Role: domain.ProjectRoleReviewer},
				testinfra.BuildSecCtx(types.ID(2), "leader_100"))
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should return record not found error when project not exist", func() {
			err := namespace.UpsertProjectMember(&namespace.ProjectMemberUpserting{
				ProjectID: 404, MemberID: 20, Role: domain.ProjectRoleReviewer},
				testinfra.BuildSecCtx(types.ID(2), account.SystemAdminPermission.ID))
			Expect(err).To(Equal(gorm.ErrRecordNotFound))
		})
	})

	Describe("DeleteProjectMember", func() {
		It("should be able to delete member", func() {
			sec := testinfra.BuildSecCtx(types.ID(1), "owner_100")
			Expect(namespace.UpsertProjectMember(&namespace.ProjectMemberUpserting{
				ProjectID: 100, MemberID: 20, Role: domain.ProjectRoleReviewer}, sec)).To(BeNil())

			Expect(namespace.DeleteProjectMember(&namespace.ProjectMemberDeleting{ProjectID: 100, MemberID: 20}, sec)).To(BeNil())

			var r []domain.ProjectMember
			Expect(testDatabase.DS.GormDB(nil).Where("member_id = ?", 20).Find(&r).Error).To(BeNil())
			Expect(r).To(BeEmpty())

			// deleting absent member is a no-op
			Expect(namespace.DeleteProjectMember(&namespace.ProjectMemberDeleting{ProjectID: 100, MemberID: 20}, sec)).To(BeNil())
		})

		It("only administrator or project owner can delete members", func() {
			err := namespace.DeleteProjectMember(&namespace.ProjectMemberDeleting{ProjectID: 100, MemberID: 1},
				testinfra.BuildSecCtx(types.ID(2), "reviewer_100"))
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})
	})
})
