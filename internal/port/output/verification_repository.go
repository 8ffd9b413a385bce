package output

import (
	"github.com/payflow/payment-engine/internal/core"
)

// VerificationRepository is an output port (secondary port) for verification
// data access
type VerificationRepository interface {
	// Save persists a verification, assigning its ID
	Save(verification *core.Verification) (*core.Verification, error)

	// UpdateStatus writes a verification's terminal status. Moving a
	// verification back to SCHEDULED fails with core.ErrTerminalStatus.
	UpdateStatus(id int64, status core.VerificationStatus) error
}
