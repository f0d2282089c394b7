package slideshow

// Event is a notification from the engine to its subscribers.
type Event interface {
	event()
}

// SlideChanged reports the index of the slide just loaded.
type SlideChanged struct {
	Slide int
}

// Closing reports a condition that ends the show. Err is nil when the user
// asked to quit.
type Closing struct {
	Reason string
	Err    error
}

func (SlideChanged) event() {}
func (Closing) event()      {}

// Listener receives events on the control thread, in emission order. It must
// not block.
type Listener func(Event)
