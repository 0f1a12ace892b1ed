package api

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/timeoff"
)

func TestWriteRequestFormPDF(t *testing.T) {
	// GIVEN: Jordi's requested vacation week
	form := timeoff.BuildRequestForm(jordi(), jordiLedger(), timeoff.CategoryVacation, timeoff.StatusRequested, 2025)
	require.Equal(t, 5, form.TotalDays)

	// WHEN: Rendering it
	var buf bytes.Buffer
	err := writeRequestFormPDF(&buf, form, testNow)

	// THEN: A PDF document is produced
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}
