package schedule

import (
	"fmt"

	"github.com/jazz-lnz/tymate/internal/timeutil"
)

// roomThreshold is the surplus, in minutes, above which the day is
// considered comfortable rather than merely doable.
const roomThreshold = 240

// Verdict is the day's workload check: free minutes against the estimated
// minutes of near-term tasks.
type Verdict struct {
	FreeMinutes      int
	CommittedMinutes int
	SurplusMinutes   int
	Fits             bool
	Message          string
}

// ComputeVerdict compares free time to committed time. Same inputs always
// produce the same verdict.
func ComputeVerdict(freeMinutes, committedMinutes int) Verdict {
	surplus := freeMinutes - committedMinutes
	v := Verdict{
		FreeMinutes:      freeMinutes,
		CommittedMinutes: committedMinutes,
		SurplusMinutes:   surplus,
		Fits:             surplus >= 0,
	}
	switch {
	case surplus > roomThreshold:
		v.Message = "✓ You have room to do stuff."
	case surplus >= 0:
		v.Message = "✓ Time is tight, but things are doable."
	default:
		v.Message = fmt.Sprintf("⚠ You're short by %s. Something has to move.", timeutil.FormatMinutes(-surplus))
	}
	return v
}
