package tui

import (
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
)

// timerState tracks the current state of the study timer.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// sessionTimer runs a study session against one task and logs the elapsed
// minutes as a task session when stopped. Nothing is written until stop.
type sessionTimer struct {
	store  *store.Store
	userID int64

	state     timerState
	startTime time.Time
	elapsed   time.Duration
	pausedAt  time.Time // when paused, to compute pause gap
	pauseGap  time.Duration

	taskID    int64
	taskTitle string

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newSessionTimer(s *store.Store, userID int64) sessionTimer {
	return sessionTimer{
		store:        s,
		userID:       userID,
		state:        timerStopped,
		lastActivity: time.Now(),
		idleTimeout:  5 * time.Minute,
	}
}

func (t *sessionTimer) start(taskID int64, taskTitle string) {
	t.state = timerRunning
	t.startTime = time.Now()
	t.elapsed = 0
	t.pauseGap = 0
	t.taskID = taskID
	t.taskTitle = taskTitle
	t.lastActivity = time.Now()
	t.isIdle = false
}

// stop ends the session and logs it. Sessions shorter than a minute are
// logged as one minute so the stop is never silently lost.
func (t *sessionTimer) stop() (int, error) {
	if t.state == timerStopped {
		return 0, nil
	}
	minutes := int(t.currentElapsed().Minutes())
	if minutes < 1 {
		minutes = 1
	}
	_, err := t.store.LogSession(t.userID, t.taskID, minutes, "", time.Now())
	if err != nil {
		return 0, err
	}
	t.state = timerStopped
	t.elapsed = 0
	return minutes, nil
}

// abandon discards the running session without logging anything.
func (t *sessionTimer) abandon() {
	t.state = timerStopped
	t.elapsed = 0
}

func (t *sessionTimer) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = time.Now()
}

func (t *sessionTimer) resume() {
	if t.state != timerPaused {
		return
	}
	t.pauseGap += time.Since(t.pausedAt)
	t.state = timerRunning
	t.isIdle = false
	t.lastActivity = time.Now()
}

func (t *sessionTimer) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

func (t *sessionTimer) tick() {
	if t.state == timerRunning {
		t.elapsed = time.Since(t.startTime) - t.pauseGap

		// Idle detection
		if time.Since(t.lastActivity) > t.idleTimeout && !t.isIdle {
			t.isIdle = true
			t.pause()
		}
	}
}

func (t *sessionTimer) recordActivity() {
	t.lastActivity = time.Now()
	if t.isIdle && t.state == timerPaused {
		t.resume()
		t.isIdle = false
	}
}

func (t sessionTimer) running() bool {
	return t.state != timerStopped
}

func (t sessionTimer) paused() bool {
	return t.state == timerPaused
}

func (t sessionTimer) currentElapsed() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	if t.state == timerPaused {
		return time.Since(t.startTime) - t.pauseGap - time.Since(t.pausedAt)
	}
	return time.Since(t.startTime) - t.pauseGap
}
