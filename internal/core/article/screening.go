// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package article

// # Screening Gate
//
// The gate decides whether a screened manuscript enters peer review or
// bounces back to the author. It is a pure function of the checklist and
// the requested target, evaluated atomically with the status write.

// GateOutcome is the screening gate's verdict.
type GateOutcome struct {
	// Pass is true only when peer review was requested and every flag holds.
	Pass bool

	// Next is the status the article actually moves to. On a failed gate
	// this is always StatusSubmitted, regardless of what was requested.
	Next Status
}

// EvaluateGate applies the screening checklist against the requested target.
//
// Pass requires BOTH that the requested next status is under_review AND that
// all four flags are true. An explicit request to bounce (requested =
// submitted) always fails, even if every flag happens to be true. The gate
// never overrides a requested failure path.
func EvaluateGate(requested Status, checklist Screening) GateOutcome {
	if requested == StatusUnderReview && checklist.Complete() {
		return GateOutcome{Pass: true, Next: StatusUnderReview}
	}
	return GateOutcome{Pass: false, Next: StatusSubmitted}
}
