// Package ui renders the live, GoogleTest-style console output of a run.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Status tags printed at the left edge of run output lines.
const (
	TagBanner   = "[==========] "
	TagSection  = "[----------] "
	TagRun      = "[ RUN      ] "
	TagOK       = "[       OK ] "
	TagFailed   = "[  FAILED  ] "
	TagPassed   = "[  PASSED  ] "
	TagFallback = "[ FALLBACK ] "
)

// Printer is the colored-output sink shared by the execution guard and the
// orchestrator. Color is resolved once at construction; when disabled, tags
// print as plain text.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// ColorEnabled reports whether this printer emits ANSI colors.
func (p *Printer) ColorEnabled() bool {
	return p.color
}

// Writer returns the underlying destination.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Tag prints a status tag in the given color followed by formatted text and
// a newline.
func (p *Printer) Tag(c text.Color, tag, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.color {
		fmt.Fprint(p.w, c.Sprint(tag))
	} else {
		fmt.Fprint(p.w, tag)
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Colored prints the whole formatted line in the given color, with a newline.
func (p *Printer) Colored(c text.Color, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := fmt.Sprintf(format, args...)
	if p.color {
		s = c.Sprint(s)
	}
	fmt.Fprintln(p.w, s)
}

// Printf prints plain formatted text.
func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

// Println prints a plain line.
func (p *Printer) Println(args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, args...)
}

// Run prints the start-of-test marker.
func (p *Printer) Run(fullName string) {
	p.Tag(text.FgGreen, TagRun, "%s", fullName)
}

// OK prints the per-test pass line with elapsed time.
func (p *Printer) OK(fullName string, elapsedMs int64) {
	p.Tag(text.FgGreen, TagOK, "%s (%d ms)", fullName, elapsedMs)
}

// Fail prints the per-test failure line with elapsed time.
func (p *Printer) Fail(fullName string, elapsedMs int64) {
	p.Tag(text.FgRed, TagFailed, "%s (%d ms)", fullName, elapsedMs)
}

// FailName prints a failure line without timing, used for the summary list
// and abnormal terminations.
func (p *Printer) FailName(fullName string) {
	p.Tag(text.FgRed, TagFailed, "%s", fullName)
}

// FailureAt prints an assertion failure: the call site in red, then the
// indented message.
func (p *Printer) FailureAt(site, message string) {
	p.Colored(text.FgRed, "%s: Failure", site)
	p.Printf("  %s\n", message)
}

// Detail prints an indented diagnostic line beneath the current test.
func (p *Printer) Detail(format string, args ...any) {
	p.Printf("  "+format+"\n", args...)
}
