package sandbox

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/internal/dataframe"
)

// CodeCorrector is the external code-generation collaborator the engine
// asks for a replacement script after a failed attempt.
type CodeCorrector interface {
	CorrectCode(ctx context.Context, req CorrectionRequest) (string, error)
}

// CorrectionRequest carries the failing script, its error and the
// instructions captured before the first generation call.
type CorrectionRequest struct {
	Instructions
	FailingScript string
	ErrorMessage  string
}

// Instructions is the question context captured once per run and reused
// unchanged across every correction cycle.
type Instructions struct {
	Question string
	Previews []string
	// RowCount and ColumnCount are set for single-frame runs only.
	RowCount    int
	ColumnCount int
}

// RunOptions controls one engine invocation.
type RunOptions struct {
	// UseErrorCorrection retries failed scripts through the corrector.
	// When false the first execution error is returned as-is.
	UseErrorCorrection bool
	// MaxAttempts bounds the number of correction requests. The first
	// execution consumes no budget.
	MaxAttempts int
}

// engine states, one invocation walks Attempting until it either
// succeeds or exhausts its correction budget.
type state int

const (
	stateAttempting state = iota
	stateSucceeded
	stateExhausted
)

type retryState struct {
	attempt     int
	maxAttempts int
	lastErr     error
}

// Engine drives sanitize → build → execute cycles with bounded
// self-correction and hands the winning context to the result extractor.
type Engine struct {
	policy          Policy
	registry        *Registry
	corrector       CodeCorrector
	customLibraries []string
	log             *zap.Logger
}

// NewEngine builds an engine. A nil logger disables logging.
func NewEngine(policy Policy, registry *Registry, corrector CodeCorrector, customLibraries []string, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		policy:          policy,
		registry:        registry,
		corrector:       corrector,
		customLibraries: customLibraries,
		log:             log,
	}
}

// execution retains what result extraction needs: the script text that
// actually ran without throwing and the context it ran in.
type execution struct {
	script string
	ectx   *Context
}

// Run executes a generated script against the frames, self-correcting up
// to the retry budget. Sanitization-policy violations and dependency
// load failures are fatal on every cycle; parse and runtime errors are
// correctable. When no attempt ever succeeds, Run returns an
// ExhaustedError wrapping the last failure.
func (e *Engine) Run(ctx context.Context, frames []*dataframe.Frame, script string, instr Instructions, opts RunOptions) (any, error) {
	st := retryState{maxAttempts: opts.MaxAttempts}
	code := script
	var succeeded *execution

	current := stateAttempting
	for current == stateAttempting {
		exec, err := e.attempt(code, frames)
		if err == nil {
			succeeded = exec
			current = stateSucceeded
			break
		}

		if isFatal(err) {
			return nil, err
		}
		if !opts.UseErrorCorrection {
			return nil, err
		}
		if st.attempt >= st.maxAttempts {
			st.lastErr = err
			current = stateExhausted
			break
		}

		st.attempt++
		st.lastErr = err
		e.log.Debug("script attempt failed, requesting correction",
			zap.Int("correction", st.attempt),
			zap.Error(err))

		replacement, cerr := e.corrector.CorrectCode(ctx, CorrectionRequest{
			Instructions:  instr,
			FailingScript: code,
			ErrorMessage:  err.Error(),
		})
		if cerr != nil {
			return nil, fmt.Errorf("requesting corrected script: %w", cerr)
		}
		code = replacement
	}

	if current == stateExhausted || succeeded == nil {
		e.log.Warn("retry budget exhausted without a successful script",
			zap.Int("corrections", st.attempt))
		return nil, &ExhaustedError{Corrections: st.attempt, LastErr: st.lastErr}
	}

	return Extract(succeeded.script, succeeded.ectx, succeeded.ectx.Output()), nil
}

// attempt sanitizes the script, builds a fresh context and executes the
// cleaned statements against it.
func (e *Engine) attempt(script string, frames []*dataframe.Frame) (*execution, error) {
	cleaned, deps, err := Sanitize(script, e.policy, e.customLibraries)
	if err != nil {
		return nil, err
	}

	ectx, err := BuildContext(deps, frames, e.policy, e.registry)
	if err != nil {
		return nil, err
	}

	if err := ectx.Run(cleaned); err != nil {
		return nil, err
	}
	return &execution{script: cleaned, ectx: ectx}, nil
}

// isFatal reports errors that never earn a correction cycle: whitelist
// violations and dependency load failures.
func isFatal(err error) bool {
	var disallowed *DisallowedImportError
	var depLoad *DependencyLoadError
	return errors.As(err, &disallowed) || errors.As(err, &depLoad)
}
