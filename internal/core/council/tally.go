// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"github.com/peerline/peerline/internal/core/article"
)

// # Majority Tally
//
// The tally is a pure function of the roster size and the vote set. It is
// recomputed on demand; nothing is incrementally maintained.

// Bucket is one vote value's count in a tally.
type Bucket struct {
	Value article.Decision `json:"value"`
	Count int              `json:"count"`
}

// Tally is the current voting state of one article.
type Tally struct {
	TotalMembers int `json:"total_members"`
	Quorum       int `json:"quorum"`
	TotalCast    int `json:"total_cast"`

	// Buckets are ordered by first-seen cast order, which is also the
	// tie-break order for the leader.
	Buckets []Bucket `json:"buckets"`

	Leader      article.Decision `json:"leader,omitempty"`
	LeaderCount int              `json:"leader_count"`

	// MajorityReached holds when quorum is met and the leader carries a
	// strict majority of the votes cast (not of all members).
	MajorityReached bool `json:"majority_reached"`
}

// Compute tallies the vote set against the roster size.
//
// The votes slice must be ordered by first cast time ascending; the leader
// on equal counts is the value whose bucket appeared first in that order.
func Compute(totalMembers int, votes []Vote) Tally {
	tally := Tally{
		TotalMembers: totalMembers,
		Quorum:       quorum(totalMembers),
		TotalCast:    len(votes),
	}

	// Bucket in first-seen order.
	index := make(map[article.Decision]int)
	for _, vote := range votes {
		position, seen := index[vote.Value]
		if !seen {
			position = len(tally.Buckets)
			index[vote.Value] = position
			tally.Buckets = append(tally.Buckets, Bucket{Value: vote.Value})
		}
		tally.Buckets[position].Count++
	}

	// Leader: highest count, earliest bucket wins ties.
	for _, bucket := range tally.Buckets {
		if bucket.Count > tally.LeaderCount {
			tally.Leader = bucket.Value
			tally.LeaderCount = bucket.Count
		}
	}

	tally.MajorityReached = tally.TotalCast >= tally.Quorum &&
		tally.LeaderCount*2 > tally.TotalCast

	return tally
}

// quorum is ceil(totalMembers / 2), never below 1.
func quorum(totalMembers int) int {
	q := (totalMembers + 1) / 2
	if q < 1 {
		q = 1
	}
	return q
}
