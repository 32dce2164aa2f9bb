// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestWorkflow_LegalEdges verifies the full set of reachable lifecycle moves.
*/
func TestWorkflow_LegalEdges(t *testing.T) {
	legal := []struct {
		from Status
		to   Status
	}{
		{StatusDraft, StatusSubmitted},
		{StatusSubmitted, StatusScreening},
		{StatusSubmitted, StatusDraft},
		{StatusScreening, StatusUnderReview},
		{StatusScreening, StatusSubmitted},
		{StatusUnderReview, StatusRevisionMinor},
		{StatusUnderReview, StatusRevisionMajor},
		{StatusUnderReview, StatusAccepted},
		{StatusUnderReview, StatusRejected},
		{StatusRevisionMinor, StatusUnderReview},
		{StatusRevisionMajor, StatusUnderReview},
		{StatusAccepted, StatusInProduction},
		{StatusInProduction, StatusAccepted},
		{StatusInProduction, StatusPublished},
	}

	for _, edge := range legal {
		_, ok := ruleFor(edge.from, edge.to)
		assert.True(t, ok, "expected %s -> %s to be legal", edge.from, edge.to)
	}

	// The table holds exactly these edges and no others.
	total := 0
	for _, targets := range transitions {
		total += len(targets)
	}
	assert.Equal(t, len(legal), total)
}

/*
TestWorkflow_IllegalEdges spot-checks moves that must never be possible.
*/
func TestWorkflow_IllegalEdges(t *testing.T) {
	illegal := []struct {
		from Status
		to   Status
	}{
		{StatusDraft, StatusPublished},
		{StatusDraft, StatusUnderReview},
		{StatusSubmitted, StatusAccepted},
		{StatusScreening, StatusRejected},
		{StatusRejected, StatusUnderReview}, // terminal
		{StatusPublished, StatusInProduction},
		{StatusPublished, StatusDraft},
		{StatusUnderReview, StatusDraft},
		{StatusAccepted, StatusPublished}, // must pass through production
	}

	for _, edge := range illegal {
		_, ok := ruleFor(edge.from, edge.to)
		assert.False(t, ok, "expected %s -> %s to be illegal", edge.from, edge.to)
	}
}

/*
TestWorkflow_TerminalStates verifies that terminal statuses have no outgoing
edges and are reported as terminal.
*/
func TestWorkflow_TerminalStates(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusPublished.Terminal())
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusInProduction.Terminal())

	assert.Empty(t, LegalTargets(StatusRejected))
	assert.Empty(t, LegalTargets(StatusPublished))
}

/*
TestWorkflow_LegalTargetsOrder verifies the deterministic ordering contract.
*/
func TestWorkflow_LegalTargetsOrder(t *testing.T) {
	assert.Equal(t,
		[]Status{StatusRevisionMinor, StatusRevisionMajor, StatusAccepted, StatusRejected},
		LegalTargets(StatusUnderReview),
	)
	assert.Equal(t,
		[]Status{StatusDraft, StatusScreening},
		LegalTargets(StatusSubmitted),
	)
}
