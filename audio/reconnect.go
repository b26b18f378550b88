package audio

import "time"

// reconnectBaseDelay and reconnectMaxDelay bound the exponential
// backoff applied between device reconnect attempts after a
// DeviceError.
const (
	reconnectBaseDelay = 250 * time.Millisecond
	reconnectMaxDelay  = 8 * time.Second
)

// ReconnectState tracks backoff between device reconnect attempts.
type ReconnectState struct {
	attempts  int
	lastTry   time.Time
	connected bool
}

// Disconnected records that the device failed and resets the backoff
// counter for a fresh series of attempts.
func (r *ReconnectState) Disconnected() {
	r.connected = false
	r.attempts = 0
	r.lastTry = time.Time{}
}

// Connected records a successful (re)connect, stopping further retry.
func (r *ReconnectState) Connected() {
	r.connected = true
	r.attempts = 0
}

// IsConnected reports whether the device is currently believed up.
func (r *ReconnectState) IsConnected() bool { return r.connected }

// ShouldRetry reports whether enough backoff time has elapsed since
// the last attempt for now to justify another retry, and if so
// advances the attempt counter as a side effect.
func (r *ReconnectState) ShouldRetry(now time.Time) bool {
	if r.connected {
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
