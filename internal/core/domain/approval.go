package domain

import "time"

// DecisionOutcome is the outcome of a single approval decision.
type DecisionOutcome string

const (
	OutcomeApproved DecisionOutcome = "approved"
	OutcomeRejected DecisionOutcome = "rejected"
)

// ApprovalDecision is one entry in an expense's approval trail.
type ApprovalDecision struct {
	DecisionID string          `json:"decisionID"` // Primary Key (e.g., UUID)
	ExpenseID  string          `json:"expenseID"`
	StepOrder  int             `json:"stepOrder"` // 1-based, strictly increasing, gap-free
	ApproverID string          `json:"approverID"`
	// ApproverRole is the role the acting user held when deciding. An admin
	// override at a manager step records admin, not manager.
	ApproverRole Role            `json:"approverRole"`
	Outcome      DecisionOutcome `json:"outcome"`
	Comment      string          `json:"comment"`
	DecidedAt    time.Time       `json:"decidedAt"`
}

// ApprovalStep is one required step in a resolved approval chain.
type ApprovalStep struct {
	StepOrder    int    `json:"stepOrder"` // 1-based
	RequiredRole Role   `json:"requiredRole"`
	ApproverID   string `json:"approverID"`
}

// ApprovalChain is the ordered sequence of steps an expense must pass.
// Derived from company org data; never persisted (see chain resolver).
type ApprovalChain []ApprovalStep

// StepAt returns the step for a 0-based index, or nil when the index is past
// the end of the chain (expense terminal or chain exhausted).
func (c ApprovalChain) StepAt(index int) *ApprovalStep {
	if index < 0 || index >= len(c) {
		return nil
	}
	step := c[index]
	return &step
}
