// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerline/peerline/pkg/pointer"
)

// fullChecklist returns a checklist with every flag set to the given value.
func fullChecklist(value bool) Screening {
	return Screening{
		ScopeOK:    pointer.To(value),
		FormatOK:   pointer.To(value),
		ZGSOK:      pointer.To(value),
		AntiplagOK: pointer.To(value),
	}
}

/*
TestScreening_Complete verifies the tri-state checklist completion rules.
*/
func TestScreening_Complete(t *testing.T) {
	// 1. All true passes
	assert.True(t, fullChecklist(true).Complete())

	// 2. Any false fails
	checklist := fullChecklist(true)
	checklist.AntiplagOK = pointer.To(false)
	assert.False(t, checklist.Complete())

	// 3. Any unset flag fails, even with the rest true
	checklist = fullChecklist(true)
	checklist.ZGSOK = nil
	assert.False(t, checklist.Complete())

	// 4. Empty checklist fails
	assert.False(t, Screening{}.Complete())
}

/*
TestScreening_EvaluateGate covers the gate's full decision table.
*/
func TestScreening_EvaluateGate(t *testing.T) {
	tests := []struct {
		name      string
		requested Status
		checklist Screening
		wantPass  bool
		wantNext  Status
	}{
		{
			name:      "pass requested and checklist complete",
			requested: StatusUnderReview,
			checklist: fullChecklist(true),
			wantPass:  true,
			wantNext:  StatusUnderReview,
		},
		{
			name:      "pass requested but a flag is false",
			requested: StatusUnderReview,
			checklist: func() Screening { c := fullChecklist(true); c.ScopeOK = pointer.To(false); return c }(),
			wantPass:  false,
			wantNext:  StatusSubmitted,
		},
		{
			name:      "pass requested but a flag is unset",
			requested: StatusUnderReview,
			checklist: func() Screening { c := fullChecklist(true); c.FormatOK = nil; return c }(),
			wantPass:  false,
			wantNext:  StatusSubmitted,
		},
		{
			name:      "bounce requested wins even with a complete checklist",
			requested: StatusSubmitted,
			checklist: fullChecklist(true),
			wantPass:  false,
			wantNext:  StatusSubmitted,
		},
		{
			name:      "bounce requested with incomplete checklist",
			requested: StatusSubmitted,
			checklist: Screening{},
			wantPass:  false,
			wantNext:  StatusSubmitted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcome := EvaluateGate(tc.requested, tc.checklist)
			assert.Equal(t, tc.wantPass, outcome.Pass)
			assert.Equal(t, tc.wantNext, outcome.Next)
		})
	}
}
