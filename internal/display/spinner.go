package display

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress while a blocking request is waiting.
// On a plain console it is a no-op.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner with msg beside it
func (c *Console) NewSpinner(msg string) *Spinner {
	if c.plain {
		return &Spinner{}
	}
	c.EndFragments()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.out))
	s.Suffix = " " + msg
	return &Spinner{s: s}
}

// NewSpinner creates a spinner on the default console
func NewSpinner(msg string) *Spinner {
	return Default.NewSpinner(msg)
}

// Start begins animating
func (sp *Spinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop halts the animation and erases it
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
