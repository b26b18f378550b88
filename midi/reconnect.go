package midi

import "time"

// reconnectBaseDelay, reconnectMaxDelay and maxReconnectAttempts bound
// the exponential backoff applied between attempts to reopen a MIDI
// input port. This runs independently of whatever backoff the audio
// device is doing in the audio package: losing the MIDI controller
// and losing the sound card are unrelated failures with unrelated
// recovery timelines.
const (
	reconnectBaseDelay   = time.Second
	reconnectMaxDelay    = 30 * time.Second
	maxReconnectAttempts = 10
)

// ReconnectState tracks backoff between attempts to reopen a MIDI
// input after it disconnects or fails to open. Unlike the unbounded
// audio-side backoff, this one has an attempt ceiling: once
// maxReconnectAttempts have failed against the current target,
// Exhausted reports true so the caller can fall back to scanning for
// any available input instead of retrying the same named port
// forever.
type ReconnectState struct {
	attempts  int
	lastTry   time.Time
	connected bool
}

// Disconnected records that the input failed or closed and resets the
// backoff counter for a fresh series of attempts.
func (r *ReconnectState) Disconnected() {
	r.connected = false
	r.attempts = 0
	r.lastTry = time.Time{}
}

// Connected records a successful (re)open, stopping further retry.
func (r *ReconnectState) Connected() {
	r.connected = true
	r.attempts = 0
}

// IsConnected reports whether the input is currently believed open.
func (r *ReconnectState) IsConnected() bool { return r.connected }

// Exhausted reports whether maxReconnectAttempts have failed since the
// last Disconnected call without an intervening success.
func (r *ReconnectState) Exhausted() bool {
	return !r.connected && r.attempts >= maxReconnectAttempts
}

// ShouldRetry reports whether enough backoff time has elapsed since
// the last attempt to justify another retry, and if so advances the
// attempt counter as a side effect. Returns false once Exhausted.
func (r *ReconnectState) ShouldRetry(now time.Time) bool {
	if r.connected || r.Exhausted() {
		return false
	}
	if !r.lastTry.IsZero() && now.Sub(r.lastTry) < r.currentDelay() {
		return false
	}
	r.lastTry = now
	r.attempts++
	return true
}

func (r *ReconnectState) currentDelay() time.Duration {
	delay := reconnectBaseDelay
	for i := 0; i < r.attempts; i++ {
		delay *= 2
		if delay >= reconnectMaxDelay {
			return reconnectMaxDelay
		}
	}
	return delay
}
