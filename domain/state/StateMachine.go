package state

// State is the single effective lifecycle state of a drawing.
// Every drawing is in exactly one state at any time.
type State string

const (
	NotStarted      State = "NOT_STARTED"
	UnderReview     State = "UNDER_REVIEW"
	RevisionPending State = "REVISION_PENDING"
	Approved        State = "APPROVED"
	Issued          State = "ISSUED"
	NotApplicable   State = "NOT_APPLICABLE"
)

type Command string

const (
	CommandUpload            Command = "upload"
	CommandApprove           Command = "approve"
	CommandRequestRevision   Command = "request_revision"
	CommandIssue             Command = "issue"
	CommandResolve           Command = "resolve"
	CommandMarkNotApplicable Command = "mark_not_applicable"
)

type Transition struct {
	Command Command `json:"command"`
	From    State   `json:"from"`
	To      State   `json:"to"`
}

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

// DrawingLifecycle is the authoritative transition table of the drawing
// workflow. A command absent from the table is invalid for that state.
// NotApplicable is terminal, and an issued drawing can not be marked
// not applicable any more.
var DrawingLifecycle = NewStateMachine(
	[]State{NotStarted, UnderReview, RevisionPending, Approved, Issued, NotApplicable},
	[]Transition{
		{Command: CommandUpload, From: NotStarted, To: UnderReview},
		{Command: CommandMarkNotApplicable, From: NotStarted, To: NotApplicable},

		{Command: CommandApprove, From: UnderReview, To: Approved},
		{Command: CommandRequestRevision, From: UnderReview, To: RevisionPending},
		{Command: CommandMarkNotApplicable, From: UnderReview, To: NotApplicable},

		{Command: CommandIssue, From: Approved, To: Issued},
		{Command: CommandRequestRevision, From: Approved, To: RevisionPending},
		{Command: CommandMarkNotApplicable, From: Approved, To: NotApplicable},

		{Command: CommandRequestRevision, From: Issued, To: RevisionPending},

		{Command: CommandResolve, From: RevisionPending, To: UnderReview},
		{Command: CommandMarkNotApplicable, From: RevisionPending, To: NotApplicable},
	},
)

func (sm *StateMachine) FindState(name string) (State, bool) {
	for _, s := range sm.States {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

func (sm *StateMachine) TransitionOf(from State, command Command) (Transition, bool) {
	for _, t := range sm.Transitions {
		if t.From == from && t.Command == command {
			return t, true
		}
	}
	return Transition{}, false
}

func (sm *StateMachine) AvailableTransitions(from State) []Transition {
	r := []Transition{}
	for _, t := range sm.Transitions {
		if t.From == from {
			r = append(r, t)
		}
	}
	return r
}

func (sm *StateMachine) AvailableCommands(from State) []Command {
	r := []Command{}
	for _, t := range sm.Transitions {
		if t.From == from {
			r = append(r, t.Command)
		}
	}
	return r
}
