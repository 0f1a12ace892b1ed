package generic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err      error
		conflict bool
		client   bool
		notFound bool
		retry    bool
	}{
		{ErrDayOccupied, true, false, false, false},
		{ErrApprovedLocked, true, false, false, false},
		{ErrProtectedCategory, true, false, false, false},
		{ErrCategoryInUse, true, false, false, false},
		{ErrDuplicateKey, true, false, false, false},
		{ErrAlreadyExists, true, false, false, false},
		{ErrConcurrentModification, true, false, false, true},
		{ErrUnknownCategory, false, true, false, false},
		{ErrInvalidKey, false, true, false, false},
		{ErrInvalidAllowance, false, true, false, false},
		{ErrInvalidDate, false, true, false, false},
		{ErrNonWorkingDay, false, true, false, false},
		{ErrYearOutOfRange, false, true, false, false},
		{ErrNotFound, false, false, true, false},
		{errors.New("disk full"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("save: %w", tt.err)
			assert.Equal(t, tt.conflict, IsConflict(wrapped))
			assert.Equal(t, tt.client, IsClientError(wrapped))
			assert.Equal(t, tt.notFound, IsNotFound(wrapped))
			assert.Equal(t, tt.retry, IsRetryable(wrapped))
		})
	}
}

func TestStructuredErrors_Unwrap(t *testing.T) {
	occupied := &OccupiedDayError{EmployeeID: "emp-1", Date: MustParseDate("2025-03-11"), Existing: "VACATION"}
	assert.ErrorIs(t, occupied, ErrDayOccupied)
	assert.Equal(t, "day already booked: 2025-03-11 for emp-1 (VACATION)", occupied.Error())

	invalid := &LedgerValidationError{Problems: []string{"protected category VACATION missing"}}
	assert.ErrorIs(t, invalid, ErrInvalidLedger)
	assert.True(t, IsClientError(invalid))

	var target *LedgerValidationError
	assert.True(t, errors.As(fmt.Errorf("replace: %w", invalid), &target))
	assert.Len(t, target.Problems, 1)
}
