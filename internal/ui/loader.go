package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

const clearLine = "\r\x1b[K"

// Loader is a single status line. When animated, a spinner runs beside the
// pending text; otherwise only final states are printed.
type Loader struct {
	out     io.Writer
	animate bool
	spin    spinner.Spinner

	mu   sync.Mutex
	text string
	stop chan struct{}
	done chan struct{}
}

// NewLoader writes to out. animate should be true only for terminals.
func NewLoader(out io.Writer, animate bool) *Loader {
	return &Loader{out: out, animate: animate, spin: spinner.Dot}
}

// Start shows text as pending, replacing any pending text.
func (l *Loader) Start(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	if !l.animate || l.stop != nil {
		return
	}
	l.stop, l.done = make(chan struct{}), make(chan struct{})
	go l.spinLoop(l.stop, l.done)
}

func (l *Loader) spinLoop(stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(l.spin.FPS)
	defer t.Stop()
	for frame := 0; ; frame++ {
		l.mu.Lock()
		fmt.Fprintf(l.out, "%s%s %s", clearLine, l.spin.Frames[frame%len(l.spin.Frames)], l.text)
		l.mu.Unlock()
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

// halt stops the spinner and returns the pending text. Callers must not hold mu.
func (l *Loader) halt() string {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil
	l.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
		fmt.Fprint(l.out, clearLine)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	text := l.text
	l.text = ""
	return text
}

func (l *Loader) finish(symbol string, text string) {
	l.halt()
	fmt.Fprintf(l.out, "%s %s\n", symbol, text)
}

// Succeed ends the pending state with a success line.
func (l *Loader) Succeed(text string) { l.finish(okStyle.Render("✔"), text) }

// Fail ends the pending state with a failure line.
func (l *Loader) Fail(text string) { l.finish(failStyle.Render("✖"), text) }

// Info ends the pending state with an informational line.
func (l *Loader) Info(text string) { l.finish(infoStyle.Render("ℹ"), text) }

// Pause stops the spinner so other output can be written, returning the
// pending text for a later Start.
func (l *Loader) Pause() string { return l.halt() }
