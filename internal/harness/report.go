package harness

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	tcerrors "github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/verify"
)

// State is a step of a run. States are entered strictly in order; a run
// ends in StatePassed or StateFailed.
type State string

const (
	StateInit         State = "init"
	StateSandboxReady State = "sandbox_ready"
	StateMaterialized State = "materialized"
	StateCommitted    State = "committed"
	StateBuildInvoked State = "build_invoked"
	StatePassed       State = "passed"
	StateFailed       State = "failed"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomePassed means the build exited with status zero.
	OutcomePassed Outcome = "passed"
	// OutcomeFailed means the build ran and failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeError means the run aborted before or around the build.
	OutcomeError Outcome = "error"
)

// Transition records entering a state.
type Transition struct {
	State State     `json:"state"`
	At    time.Time `json:"at"`
}

// Report describes a single run.
type Report struct {
	RunID string `json:"run_id"`

	// State is the terminal state; Reached is the last state entered
	// before it.
	State   State   `json:"state"`
	Reached State   `json:"reached"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`

	SandboxDir     string `json:"sandbox_dir,omitempty"`
	Kept           bool   `json:"kept"`
	TemplateCommit string `json:"template_commit,omitempty"`
	BaselineCommit string `json:"baseline_commit,omitempty"`
	Files          int    `json:"files"`

	Verification *verify.Outcome `json:"verification,omitempty"`

	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Transitions []Transition `json:"transitions"`

	log *slog.Logger
}

func newReport(log *slog.Logger) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	r.log = log.With("run_id", r.RunID)
	r.enter(StateInit)
	return r
}

func (r *Report) enter(s State) {
	r.Transitions = append(r.Transitions, Transition{State: s, At: time.Now()})
	if s != StatePassed && s != StateFailed {
		r.Reached = s
	}
	r.State = s
	r.log.Info("state", "state", string(s))
}

// finish moves the run into its terminal state according to err.
func (r *Report) finish(err error) {
	r.FinishedAt = time.Now()
	switch {
	case err == nil:
		r.Outcome = OutcomePassed
		r.enter(StatePassed)
	case tcerrors.IsFailure(err):
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
		r.enter(StateFailed)
	default:
		r.Outcome = OutcomeError
		r.Error = err.Error()
		r.enter(StateFailed)
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Passed reports whether the run ended in StatePassed.
func (r *Report) Passed() bool {
	return r.Outcome == OutcomePassed
}
