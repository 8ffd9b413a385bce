package database

import (
	"errors"
	"fmt"

	"github.com/payflow/payment-engine/internal/constant/model/db"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/output"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVerificationRepository is a secondary adapter that implements the
// VerificationRepository output port
type GormVerificationRepository struct {
	gormDB *gorm.DB
}

// NewGormVerificationRepository creates a new GORM verification repository
func NewGormVerificationRepository(gormDB *gorm.DB) output.VerificationRepository {
	return &GormVerificationRepository{gormDB: gormDB}
}

func verificationToCore(v *db.Verification) *core.Verification {
	return &core.Verification{
		ID:        v.ID,
		PaymentID: v.PaymentID,
		Type:      core.VerificationType(v.Type),
		Status:    core.VerificationStatus(v.Status),
	}
}

func verificationFromCore(v *core.Verification) *db.Verification {
	return &db.Verification{
		ID:        v.ID,
		PaymentID: v.PaymentID,
		Type:      string(v.Type),
		Status:    string(v.Status),
	}
}

// Save persists a verification, assigning its ID
func (r *GormVerificationRepository) Save(verification *core.Verification) (*core.Verification, error) {
	dbVerification := verificationFromCore(verification)
	if err := r.gormDB.Create(dbVerification).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification: %w", err)
	}
	return verificationToCore(dbVerification), nil
}

// UpdateStatus writes a verification's terminal status. The transition away
// from SCHEDULED is monotonic: rewinding fails with core.ErrTerminalStatus.
func (r *GormVerificationRepository) UpdateStatus(id int64, status core.VerificationStatus) error {
	return r.gormDB.Transaction(func(tx *gorm.DB) error {
		var dbVerification db.Verification

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbVerification).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.ErrVerificationNotFound
			}
			return fmt.Errorf("failed to lock verification: %w", err)
		}

		if !status.IsTerminal() {
			return fmt.Errorf("%w: verification %d cannot return to %s", core.ErrTerminalStatus, id, status)
		}

		dbVerification.Status = string(status)
		if err := tx.Save(&dbVerification).Error; err != nil {
			return fmt.Errorf("failed to update verification status: %w", err)
		}
		return nil
	})
}
