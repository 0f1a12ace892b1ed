package timeoff

import "github.com/warp/leave-ledger/generic"

// Outcome reports what a ledger operation did. Rejections leave the ledger
// unchanged; callers decide whether to surface them.
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeUnchanged        Outcome = "unchanged"
	OutcomeAbsent           Outcome = "absent"
	OutcomeOccupied         Outcome = "occupied"
	OutcomeApprovedLocked   Outcome = "approved_locked"
	OutcomeUnknownCategory  Outcome = "unknown_category"
	OutcomeProtected        Outcome = "protected"
	OutcomeInUse            Outcome = "in_use"
	OutcomeInvalidKey       Outcome = "invalid_key"
	OutcomeInvalidAllowance Outcome = "invalid_allowance"
	OutcomeDuplicateKey     Outcome = "duplicate_key"
)

// Changed reports whether the ledger returned alongside the outcome differs
// from the input.
func (o Outcome) Changed() bool { return o == OutcomeApplied }

// Rejected reports whether an invariant blocked the operation.
func (o Outcome) Rejected() bool {
	return o != OutcomeApplied && o != OutcomeUnchanged
}

// Err maps the outcome onto the generic error taxonomy. Applied and
// Unchanged map to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeAbsent:
		return generic.ErrNotFound
	case OutcomeOccupied:
		return generic.ErrDayOccupied
	case OutcomeApprovedLocked:
		return generic.ErrApprovedLocked
	case OutcomeUnknownCategory:
		return generic.ErrUnknownCategory
	case OutcomeProtected:
		return generic.ErrProtectedCategory
	case OutcomeInUse:
		return generic.ErrCategoryInUse
	case OutcomeInvalidKey:
		return generic.ErrInvalidKey
	case OutcomeInvalidAllowance:
		return generic.ErrInvalidAllowance
	case OutcomeDuplicateKey:
		return generic.ErrDuplicateKey
	default:
		return nil
	}
}
