package timer

// Countdown is a tick-driven discussion timer. It never reads the wall clock: the
// owner calls Tick once per elapsed second.
type Countdown struct {
	remaining int
	running   bool
	expired   bool
}

// New returns a paused countdown. A negative start is treated as zero.
func New(seconds int) *Countdown {
	return &Countdown{remaining: max(0, seconds)}
}

// Restore rebuilds a countdown from a stored snapshot.
func Restore(remaining int, running bool) *Countdown {
	return &Countdown{remaining: max(0, remaining), running: running}
}

// Tick advances the countdown by one second and reports whether it expired on this
// tick. Expiry is reported once per countdown; a countdown already at zero (after an
// adjustment) expires on its next running tick.
func (that *Countdown) Tick() bool {
	if !that.running || that.expired {
		return false
	}

	if that.remaining > 0 {
		that.remaining--
		if that.remaining > 0 {
			return false
		}
	}

	that.expired = true

	return true
}

// Adjust adds delta seconds, clamped at zero.
func (that *Countdown) Adjust(delta int) {
	that.remaining = max(0, that.remaining+delta)
	if that.remaining > 0 {
		that.expired = false
	}
}

func (that *Countdown) Pause() {
	that.running = false
}

func (that *Countdown) Resume() {
	that.running = true
}

func (that *Countdown) Remaining() int {
	return that.remaining
}

func (that *Countdown) Running() bool {
	return that.running
}

func (that *Countdown) Expired() bool {
	return that.expired
}
