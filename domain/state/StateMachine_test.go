package state_test

import (
	"atelier/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	Describe("NewStateMachine", func() {
		Context("With given states and transitions", func() {
			It("should create new State Machine successfully", func() {
				stateMachine := state.NewStateMachine(
					[]state.State{"PENDING", "DONE"},
					[]state.Transition{
						{Command: "close", From: "PENDING", To: "DONE"},
						{Command: "reopen", From: "DONE", To: "PENDING"},
					})
				Expect(stateMachine).NotTo(BeZero())
				Expect(stateMachine.States).Should(Equal([]state.State{"PENDING", "DONE"}))
				Expect(stateMachine.Transitions).Should(Equal(
					[]state.Transition{
						{Command: "close", From: "PENDING", To: "DONE"},
						{Command: "reopen", From: "DONE", To: "PENDING"},
					},
				))
			})
		})
	})

	Describe("FindState", func() {
		It("should find declared states only", func() {
			s, found := state.DrawingLifecycle.FindState("UNDER_REVIEW")
			Expect(found).To(BeTrue())
			Expect(s).To(Equal(state.UnderReview))

			_, found = state.DrawingLifecycle.FindState("UNKNOWN")
			Expect(found).To(BeFalse())
		})
	})

	Describe("TransitionOf", func() {
		It("should return the transition matched by source state and command", func() {
			t, found := state.DrawingLifecycle.TransitionOf(state.NotStarted, state.CommandUpload)
			Expect(found).To(BeTrue())
			Expect(t).To(Equal(state.Transition{Command: state.CommandUpload, From: state.NotStarted, To: state.UnderReview}))

			t, found = state.DrawingLifecycle.TransitionOf(state.Issued, state.CommandRequestRevision)
			Expect(found).To(BeTrue())
			Expect(t.To).To(Equal(state.RevisionPending))

			_, found = state.DrawingLifecycle.TransitionOf(state.NotStarted, state.CommandIssue)
			Expect(found).To(BeFalse())
			_, found = state.DrawingLifecycle.TransitionOf(state.Issued, state.CommandMarkNotApplicable)
			Expect(found).To(BeFalse())
			_, found = state.DrawingLifecycle.TransitionOf(state.NotApplicable, state.CommandUpload)
			Expect(found).To(BeFalse())
		})
	})

	Describe("AvailableTransitions", func() {
		It("should return transitions of the drawing lifecycle as expected", func() {
			Ω(state.DrawingLifecycle.AvailableTransitions(state.NotStarted)).Should(Equal([]state.Transition{
				{Command: state.CommandUpload, From: state.NotStarted, To: state.UnderReview},
				{Command: state.CommandMarkNotApplicable, From: state.NotStarted, To: state.NotApplicable},
			}))

			Ω(state.DrawingLifecycle.AvailableTransitions(state.UnderReview)).Should(Equal([]state.Transition{
				{Command: state.CommandApprove, From: state.UnderReview, To: state.Approved},
				{Command: state.CommandRequestRevision, From: state.UnderReview, To: state.RevisionPending},
				{Command: state.CommandMarkNotApplicable, From: state.UnderReview, To: state.NotApplicable},
			}))

			Ω(state.DrawingLifecycle.AvailableTransitions(state.Issued)).Should(Equal([]state.Transition{
				{Command: state.CommandRequestRevision, From: state.Issued, To: state.RevisionPending},
			}))

			// terminal state
			Ω(len(state.DrawingLifecycle.AvailableTransitions(state.NotApplicable))).Should(Equal(0))
		})
	})

	Describe("AvailableCommands", func() {
		It("should return commands of the drawing lifecycle as expected", func() {
			Ω(state.DrawingLifecycle.AvailableCommands(state.Approved)).Should(Equal([]state.Command{
				state.CommandIssue, state.CommandRequestRevision, state.CommandMarkNotApplicable,
			}))
			Ω(state.DrawingLifecycle.AvailableCommands(state.RevisionPending)).Should(Equal([]state.Command{
				state.CommandResolve, state.CommandMarkNotApplicable,
			}))
			Ω(state.DrawingLifecycle.AvailableCommands(state.NotApplicable)).Should(Equal([]state.Command{}))
		})
	})
})
