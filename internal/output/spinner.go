package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows a braille-dot spinner on a writer (normally stderr) while a
// long-running call is in flight.
type Spinner struct {
	Message string
	w       io.Writer
	done    chan struct{}
	stopped chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		Message: message,
		w:       w,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins animating. Call Stop to clear the line.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], s.Message)
				i++
			}
		}
	}()
}

// Stop halts the animation and erases the spinner line.
func (s *Spinner) Stop() {
	close(s.done)
	<-s.stopped
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.Message)+4))
}
