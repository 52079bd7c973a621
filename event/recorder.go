package event

import "sync"

// Recorder keeps every published event. Used by tests and one-shot commands.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of what has been recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Filter returns recorded events matching component and kind.
func (r *Recorder) Filter(c Component, k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Component == c && e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the last event matching component and kind.
func (r *Recorder) Last(c Component, k Kind) (Event, bool) {
	matched := r.Filter(c, k)
	if len(matched) == 0 {
		return Event{}, false
	}
	return matched[len(matched)-1], true
}
