package style

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// PlainEnv switches progress output to plain lines when set to "true".
const PlainEnv = "CASEGEN_PLAIN"

type Spinner interface {
	SetSuffix(suffix string)
	SetFinalMSG(finalMSG string)
	Start()
	Stop()
}

// LineSpinner prints each update on its own line instead of redrawing, for
// logs, CI and tests.
type LineSpinner struct {
	mu       sync.Mutex
	writer   io.Writer
	color    func(a ...interface{}) string
	suffix   string
	finalMSG string
	active   bool
}

func NewLineSpinner(w io.Writer) *LineSpinner {
	return &LineSpinner{
		writer: w,
		color:  color.New(color.FgCyan).SprintFunc(),
	}
}

func (s *LineSpinner) SetSuffix(suffix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if suffix == s.suffix {
		return
	}
	s.suffix = suffix
	if s.active {
		fmt.Fprintf(s.writer, "%s%s\n", s.color("…"), suffix)
	}
}

func (s *LineSpinner) SetFinalMSG(finalMSG string) {
	s.mu.Lock()
	s.finalMSG = finalMSG
	s.mu.Unlock()
}

// Start will start the indicator.
func (s *LineSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	if s.suffix != "" {
		fmt.Fprintf(s.writer, "%s%s\n", s.color("…"), s.suffix)
	}
}

// Stop stops the indicator.
func (s *LineSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	if s.finalMSG != "" {
		fmt.Fprint(s.writer, s.finalMSG)
	}
}

type TerminalSpinner struct {
	spinner *spinner.Spinner
}

func NewTerminalSpinner(cs []string, d time.Duration, options ...spinner.Option) *TerminalSpinner {
	return &TerminalSpinner{
		spinner: spinner.New(cs, d, options...),
	}
}

func (s *TerminalSpinner) SetSuffix(suffix string) {
	s.spinner.Lock()
	s.spinner.Suffix = suffix
	s.spinner.Unlock()
}

func (s *TerminalSpinner) SetFinalMSG(finalMSG string) {
	s.spinner.FinalMSG = finalMSG
}

func (s *TerminalSpinner) Start() {
	s.spinner.Start()
}

func (s *TerminalSpinner) Stop() {
	s.spinner.Stop()
}

// NewSpinner returns a redrawing spinner on w, or a LineSpinner when
// PlainEnv is set.
func NewSpinner(w io.Writer) Spinner {
	if os.Getenv(PlainEnv) == "true" {
		return NewLineSpinner(w)
	}

	return NewTerminalSpinner(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
}
