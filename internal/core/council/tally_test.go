// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/peerline/peerline/internal/core/article"
)

// votesOf builds an ordered vote slice from decision values, with cast
// times spaced a second apart in slice order.
func votesOf(values ...article.Decision) []Vote {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	votes := make([]Vote, len(values))
	for i, value := range values {
		votes[i] = Vote{
			MemberID: string(rune('a' + i)),
			Value:    value,
			CastAt:   base.Add(time.Duration(i) * time.Second),
		}
	}
	return votes
}

/*
TestTally_Majority covers the quorum and strict-majority rules, including
the five-member reference case: three accept, one reject, one abstaining by
not voting.
*/
func TestTally_Majority(t *testing.T) {
	// 1. Reference case: N=5, quorum=3, totalCast=4, leader accept(3), 3 > 2
	tally := Compute(5, votesOf(
		article.DecisionAccept, article.DecisionAccept,
		article.DecisionReject, article.DecisionAccept,
	))
	assert.Equal(t, 3, tally.Quorum)
	assert.Equal(t, 4, tally.TotalCast)
	assert.Equal(t, article.DecisionAccept, tally.Leader)
	assert.Equal(t, 3, tally.LeaderCount)
	assert.True(t, tally.MajorityReached)

	// 2. Below quorum: two of five voting is not enough even if unanimous
	tally = Compute(5, votesOf(article.DecisionAccept, article.DecisionAccept))
	assert.Equal(t, 2, tally.TotalCast)
	assert.False(t, tally.MajorityReached)

	// 3. Quorum met but no strict majority: 2-2 split of four cast
	tally = Compute(5, votesOf(
		article.DecisionAccept, article.DecisionReject,
		article.DecisionAccept, article.DecisionReject,
	))
	assert.Equal(t, 2, tally.LeaderCount)
	assert.False(t, tally.MajorityReached, "a tie is not a majority")

	// 4. Leader must beat half of cast, not half of members: 2 of 3 cast
	// on a 5-member council meets neither quorum nor matters; 3 of 5 cast
	// with 2-1 does meet quorum and 2 > 1.5
	tally = Compute(5, votesOf(
		article.DecisionReject, article.DecisionReject, article.DecisionAccept,
	))
	assert.True(t, tally.MajorityReached)
	assert.Equal(t, article.DecisionReject, tally.Leader)
}

/*
TestTally_TieBreak verifies the first-seen insertion order rule on equal
bucket counts.
*/
func TestTally_TieBreak(t *testing.T) {
	// reject was cast first; on a 2-2 tie reject is the leader
	tally := Compute(4, votesOf(
		article.DecisionReject, article.DecisionAccept,
		article.DecisionAccept, article.DecisionReject,
	))
	assert.Equal(t, article.DecisionReject, tally.Leader)
	assert.Equal(t, 2, tally.LeaderCount)

	// Buckets are reported in first-seen order too
	assert.Equal(t, article.DecisionReject, tally.Buckets[0].Value)
	assert.Equal(t, article.DecisionAccept, tally.Buckets[1].Value)
}

/*
TestTally_Quorum verifies the quorum formula, including the floor of one.
*/
func TestTally_Quorum(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 3, 7: 4, 10: 5}
	for members, want := range cases {
		assert.Equal(t, want, Compute(members, nil).Quorum, "members=%d", members)
	}
}

/*
TestTally_Empty verifies the zero-vote tally shape.
*/
func TestTally_Empty(t *testing.T) {
	tally := Compute(5, nil)
	assert.Equal(t, 0, tally.TotalCast)
	assert.Empty(t, tally.Buckets)
	assert.Equal(t, article.Decision(""), tally.Leader)
	assert.False(t, tally.MajorityReached)
}

/*
TestTally_RecastSingleCount verifies that a recast vote set (one row per
member, value replaced) tallies without duplicate counting.
*/
func TestTally_RecastSingleCount(t *testing.T) {
	// Member 'a' originally voted reject, then recast to accept. The store
	// keeps one row with the original cast position and the new value.
	votes := votesOf(article.DecisionAccept, article.DecisionAccept, article.DecisionReject)
	tally := Compute(3, votes)

	assert.Equal(t, 3, tally.TotalCast)
	assert.Equal(t, article.DecisionAccept, tally.Leader)
	assert.Equal(t, 2, tally.LeaderCount)
	assert.True(t, tally.MajorityReached)
}
