package match

import "time"

// LiveWindow approximates one fixture's broadcast duration. A match is
// considered live from its scheduled start until the window has elapsed.
const LiveWindow = 3 * time.Hour

// InferStatus derives the lifecycle status of a fixture from its canonical
// schedule text and the caller-supplied reference instant. Unparseable
// schedule texts default to not-started; status is best-effort by contract
// and never an error.
func InferStatus(scheduleText string, now time.Time) string {
	start, ok := ScheduleInstant(scheduleText, now)
	if !ok {
		return StatusNotStarted
	}
	return InferStatusAt(start, now)
}

// InferStatusAt is the instant form of InferStatus. Both window boundaries
// count as live.
func InferStatusAt(start, now time.Time) string {
	switch {
	case now.Before(start):
		return StatusNotStarted
	case now.After(start.Add(LiveWindow)):
		return StatusFinished
	default:
		return StatusLive
	}
}
