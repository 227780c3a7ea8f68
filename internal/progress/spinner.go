package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner animates a message on a terminal. On anything that is not a TTY
// it stays silent, so piped and CI output is not polluted.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner returns a spinner writing to w.
func NewSpinner(w io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{
		w:       w,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Enabled reports whether the spinner draws anything.
func (p *Spinner) Enabled() bool {
	return p.caps.IsTTY
}

// Start begins animating msg.
func (p *Spinner) Start(msg string) {
	if !p.Enabled() || p.s != nil {
		return
	}
	opts := []spinner.Option{spinner.WithSuffix(" " + msg)}
	if f, ok := p.w.(*os.File); ok {
		opts = append(opts, spinner.WithWriterFile(f))
	} else {
		opts = append(opts, spinner.WithWriter(p.w))
	}
	if p.caps.SupportsColor {
		opts = append(opts, spinner.WithColor("cyan"))
	}
	p.s = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], spinnerDelay, opts...)
	p.s.Start()
}

// Update replaces the message of a running spinner.
func (p *Spinner) Update(msg string) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = " " + msg
	p.s.Unlock()
}

// Success stops the spinner and prints msg with a checkmark.
func (p *Spinner) Success(msg string) {
	p.stop(p.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints msg with a failure mark.
func (p *Spinner) Fail(msg string) {
	p.stop(p.symbols.Failure, msg)
}

func (p *Spinner) stop(symbol, msg string) {
	if p.s == nil {
		return
	}
	p.s.Stop()
	p.s = nil
	fmt.Fprintf(p.w, "%s %s\n", symbol, msg)
}
