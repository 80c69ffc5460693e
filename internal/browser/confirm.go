package browser

import "time"

const DefaultConfirmWindow = 3 * time.Second

// ConfirmGuard implements confirm-on-second-press for destructive controls.
// The first press arms a key; a second press inside Window fires it. Presses
// after the window has passed arm again.
type ConfirmGuard struct {
	Window time.Duration
	Now    func() time.Time

	armed map[string]time.Time
}

func NewConfirmGuard(window time.Duration) *ConfirmGuard {
	if window <= 0 {
		window = DefaultConfirmWindow
	}
	return &ConfirmGuard{Window: window, Now: time.Now}
}

func (g *ConfirmGuard) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Press reports whether key fired.
func (g *ConfirmGuard) Press(key string) bool {
	if g.armed == nil {
		g.armed = make(map[string]time.Time)
	}
	now := g.now()
	if at, ok := g.armed[key]; ok && now.Sub(at) < g.Window {
		delete(g.armed, key)
		return true
	}
	g.armed[key] = now
	return false
}

// ArmedAt returns when key was armed.
func (g *ConfirmGuard) ArmedAt(key string) (time.Time, bool) {
	at, ok := g.armed[key]
	return at, ok
}

func (g *ConfirmGuard) Armed(key string) bool {
	at, ok := g.armed[key]
	return ok && g.now().Sub(at) < g.Window
}

// Expire disarms key if it is still armed from armedAt. Timers started for
// an earlier arming are ignored.
func (g *ConfirmGuard) Expire(key string, armedAt time.Time) {
	if at, ok := g.armed[key]; ok && at.Equal(armedAt) {
		delete(g.armed, key)
	}
}

// Blur disarms key when focus leaves its control.
func (g *ConfirmGuard) Blur(key string) {
	delete(g.armed, key)
}

func (g *ConfirmGuard) Reset() {
	g.armed = nil
}
