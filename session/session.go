// Package session owns the uniform controls and the compiled program of a
// tonemapping shader and drives recompilation. A failed compilation never
// replaces the running program nor its controls.
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/soypat/tonelab"
	"github.com/soypat/tonelab/control"
	"github.com/soypat/tonelab/scenario"
)

// Program is a compiled and linked shader program.
type Program interface {
	// Delete releases the program's resources.
	Delete()
}

// Compiler compiles an assembled fragment shader into a [Program].
type Compiler interface {
	Compile(fragmentSource string) (Program, error)
}

// Uniform pairs a descriptor with the control that provides its value.
type Uniform struct {
	tonelab.UniformDescriptor
	Control control.Control
}

// State of a [Session].
type State uint8

const (
	// Idle sessions have no program installed yet.
	Idle State = iota
	// Live sessions render with an installed program.
	Live
	// Recompiling is held for the duration of a pass.
	Recompiling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Live:
		return "live"
	case Recompiling:
		return "recompiling"
	}
	return "undefined"
}

// CompileError is returned when the assembled shader fails to compile or
// link. The previous program and controls remain installed.
type CompileError struct {
	// UserLine is the line of the assembled source at which user text starts.
	UserLine int
	Source   string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("fragment shader (your code starting at line %d) failed: %v", e.UserLine, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Config configures a [Session].
type Config struct {
	Compiler Compiler
	// Factory builds controls. Nil uses [control.Models].
	Factory control.Factory
	// Parser parses uniform declarations from the user source.
	Parser tonelab.Parser
	// Log receives pass results and descriptor diagnostics. Nil is silent.
	Log *log.Logger
	// Source and Scenario set the initial state without compiling it. The
	// first [Session.Recompile] builds them.
	Source   string
	Scenario *scenario.Scenario
}

// Session holds the user source, the active scenario, the current uniforms
// and the current program. It is not safe for concurrent use.
type Session struct {
	cfg      Config
	source   string
	scenario *scenario.Scenario
	uniforms []Uniform
	program  Program
	state    State
	userLine int
}

// New returns a session with no program. Call one of the Set methods or
// [Session.Recompile] to build the first program.
func New(cfg Config) (*Session, error) {
	if cfg.Compiler == nil {
		return nil, errors.New("session requires a Compiler")
	}
	if cfg.Factory == nil {
		cfg.Factory = control.Models{}
	}
	return &Session{cfg: cfg, source: cfg.Source, scenario: cfg.Scenario}, nil
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Source returns the user source text.
func (s *Session) Source() string { return s.source }

// Scenario returns the active scenario or nil.
func (s *Session) Scenario() *scenario.Scenario { return s.scenario }

// Uniforms returns the uniforms of the installed program, user declarations
// first followed by scenario uniforms. The caller must not modify the slice.
func (s *Session) Uniforms() []Uniform { return s.uniforms }

// Program returns the installed program or nil before the first success.
func (s *Session) Program() Program { return s.program }

// UserLine returns the line at which user text starts in the last
// assembled source.
func (s *Session) UserLine() int { return s.userLine }

// SetSource replaces the user source and recompiles. The new source is kept
// even when compilation fails so it can be fixed and resubmitted.
func (s *Session) SetSource(src string) error {
	s.source = src
	return s.Recompile()
}

// SetScenario activates sc and recompiles. On failure the previous scenario
// is restored along with the previous program.
func (s *Session) SetScenario(sc *scenario.Scenario) error {
	prev := s.scenario
	s.scenario = sc
	err := s.Recompile()
	if err != nil {
		s.scenario = prev
	}
	return err
}

// ClearScenario deactivates the active scenario, if any, and recompiles.
func (s *Session) ClearScenario() error {
	if s.scenario == nil {
		return nil
	}
	return s.SetScenario(nil)
}

// Recompile runs a full pass: snapshot the current controls, parse the user
// source, append scenario uniforms, reconcile and synthesize controls,
// assemble and compile. On success the new program and uniforms replace the
// old ones, which are released. On failure nothing changes and the error is
// returned, a *CompileError when the compiler rejected the source.
func (s *Session) Recompile() error {
	prevState := s.state
	s.state = Recompiling
	start := time.Now()
	uniforms, asm, err := s.pass()
	if err != nil {
		s.state = prevState
		return err
	}
	prog, err := s.cfg.Compiler.Compile(asm.Source)
	if err != nil {
		s.state = prevState
		s.logf("compile failed, keeping previous program: %v", err)
		return &CompileError{UserLine: asm.UserLine, Source: asm.Source, Err: err}
	}
	old := s.program
	s.program = prog
	s.uniforms = uniforms
	s.userLine = asm.UserLine
	s.state = Live
	if old != nil {
		old.Delete()
	}
	s.logf("compiled %d uniforms in %s", len(uniforms), time.Since(start).Round(time.Microsecond))
	return nil
}

func (s *Session) pass() ([]Uniform, Assembly, error) {
	snap := TakeSnapshot(s.uniforms)
	descs := s.cfg.Parser.AppendUniforms(nil, s.source)
	var parts Parts
	parts.User = s.source
	if s.scenario != nil {
		descs = append(descs, s.scenario.Uniforms...)
		parts.Declarations = string(s.scenario.AppendDeclarations(nil))
		parts.Fragment = s.scenario.Fragment
	}
	for i := range descs {
		if err := descs[i].Validate(); err != nil {
			s.logf("%v", err)
		}
	}
	specs := Reconcile(descs, snap)
	uniforms := make([]Uniform, len(descs))
	for i := range descs {
		c, err := control.Synthesize(s.cfg.Factory, specs[i])
		if err != nil {
			return nil, Assembly{}, err
		}
		uniforms[i] = Uniform{UniformDescriptor: descs[i], Control: c}
	}
	parts.Macros = tonelab.ChoiceMacros(descs)
	return uniforms, Assemble(parts), nil
}

// Close releases the installed program.
func (s *Session) Close() {
	if s.program != nil {
		s.program.Delete()
		s.program = nil
	}
	s.uniforms = nil
	s.state = Idle
}

func (s *Session) logf(format string, args ...any) {
	if s.cfg.Log != nil {
		s.cfg.Log.Printf(format, args...)
	}
}
