// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "time"

// idSequence hands out millisecond-timestamp ids that never repeat within a
// process: two writes in the same millisecond get consecutive values. Ids stay
// plain JSON numbers so existing data files and the frontend keep working.
type idSequence struct {
	last   int64
	seeded bool
}

// seed starts the sequence above the highest id already stored, which also
// guards against a clock that moved backwards across a restart.
func (sequence *idSequence) seed(highest int64) {
	sequence.last = max(sequence.last, highest)
	sequence.seeded = true
}

func (sequence *idSequence) next(now time.Time) int64 {
	candidate := now.UnixMilli()
	if candidate <= sequence.last {
		candidate = sequence.last + 1
	}
	sequence.last = candidate
	return candidate
}
