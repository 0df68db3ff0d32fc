// Package session orchestrates a question run end to end: preview
// capture, script generation (with caching), sandboxed execution with
// self-correction, and mapping of failures into a readable answer.
package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/internal/cache"
	"github.com/tabletalk-ai/tabletalk/internal/dataframe"
	"github.com/tabletalk-ai/tabletalk/internal/llm"
	"github.com/tabletalk-ai/tabletalk/internal/prompt"
	"github.com/tabletalk-ai/tabletalk/internal/sandbox"
)

// Options controls session behaviour.
type Options struct {
	// MaxAttempts bounds correction requests per question.
	MaxAttempts int
	// ErrorCorrection retries failed scripts through the model.
	ErrorCorrection bool
	// Conversational rephrases the raw answer as a sentence.
	Conversational bool
	// EnforcePrivacy drops preview rows from prompts entirely.
	EnforcePrivacy bool
	// AnonymizePreviews masks sensitive-looking preview values.
	AnonymizePreviews bool
	// PreviewRows is the number of rows shown to the model.
	PreviewRows int
	// CacheEnabled reuses generated scripts for repeated questions.
	CacheEnabled bool
	// CustomLibraries extends the sanitizer's library whitelist.
	CustomLibraries []string
}

// DefaultOptions mirrors the reference behaviour.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:       3,
		ErrorCorrection:   true,
		AnonymizePreviews: true,
		PreviewRows:       5,
		CacheEnabled:      true,
	}
}

// Session makes dataframes conversational. One Session may serve many
// questions; each question owns its retry state and execution contexts.
type Session struct {
	gen      llm.CodeGenerator
	engine   *sandbox.Engine
	registry *sandbox.Registry
	cache    *cache.Cache
	opts     Options
	log      *zap.Logger

	processID string

	lastPromptID      string
	lastCodeGenerated string
	lastAnswer        string
	lastError         string
}

// New builds a session around a code generator. A nil logger disables
// logging.
func New(gen llm.CodeGenerator, opts Options, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	registry := sandbox.NewRegistry()
	engine := sandbox.NewEngine(
		sandbox.DefaultPolicy(),
		registry,
		&corrector{gen: gen},
		opts.CustomLibraries,
		log,
	)
	return &Session{
		gen:       gen,
		engine:    engine,
		registry:  registry,
		cache:     cache.New(),
		opts:      opts,
		log:       log,
		processID: uuid.NewString(),
	}
}

// Registry exposes the module registry so callers can register custom
// whitelisted modules.
func (s *Session) Registry() *sandbox.Registry { return s.registry }

// ProcessID identifies this session.
func (s *Session) ProcessID() string { return s.processID }

// LastPromptID identifies the most recent question run.
func (s *Session) LastPromptID() string { return s.lastPromptID }

// LastCodeGenerated returns the script produced for the last question.
func (s *Session) LastCodeGenerated() string { return s.lastCodeGenerated }

// LastError returns the error message of the last failed question, if any.
func (s *Session) LastError() string { return s.lastError }

// ClearCache drops all cached scripts.
func (s *Session) ClearCache() { s.cache.Clear() }

// Ask answers a natural-language question about the frames. Failures of
// any kind are mapped into a readable message rather than returned as an
// error; the error return covers caller misuse only.
func (s *Session) Ask(ctx context.Context, frames []*dataframe.Frame, question string) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("at least one dataframe is required")
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	s.lastPromptID = uuid.NewString()
	s.lastError = ""
	s.log.Info("running question",
		zap.String("prompt_id", s.lastPromptID),
		zap.Int("frames", len(frames)))

	instr := s.instructions(frames, question)

	script, err := s.generateScript(ctx, question, instr)
	if err != nil {
		return s.failure(err), nil
	}
	s.lastCodeGenerated = script
	s.log.Debug("code generated", zap.String("code", script))

	value, err := s.engine.Run(ctx, frames, script, instr, sandbox.RunOptions{
		UseErrorCorrection: s.opts.ErrorCorrection,
		MaxAttempts:        s.opts.MaxAttempts,
	})
	if err != nil {
		return s.failure(err), nil
	}

	answer := formatValue(value)
	s.log.Info("answer computed", zap.String("answer", answer))

	if s.opts.Conversational && !s.opts.EnforcePrivacy {
		if rephrased, err := s.gen.GenerateCode(ctx, prompt.Response(question, answer)); err == nil && rephrased != "" {
			answer = rephrased
		}
	}

	s.lastAnswer = answer
	return answer, nil
}

// generateScript consults the cache before asking the model.
func (s *Session) generateScript(ctx context.Context, question string, instr sandbox.Instructions) (string, error) {
	if s.opts.CacheEnabled {
		if script, ok := s.cache.Get(question); ok {
			s.log.Info("using cached script")
			return script, nil
		}
	}

	var p string
	if len(instr.Previews) == 1 {
		p = prompt.Generate(question, instr.Previews[0], instr.RowCount, instr.ColumnCount)
	} else {
		p = prompt.GenerateMulti(question, instr.Previews)
	}

	script, err := s.gen.GenerateCode(ctx, p)
	if err != nil {
		return "", err
	}

	if s.opts.CacheEnabled {
		s.cache.Set(question, script)
	}
	return script, nil
}

// instructions captures the question context once, before the first
// generation call; correction cycles reuse it unchanged.
func (s *Session) instructions(frames []*dataframe.Frame, question string) sandbox.Instructions {
	rows := s.opts.PreviewRows
	if s.opts.EnforcePrivacy {
		rows = 0
	}

	previews := make([]string, len(frames))
	for i, f := range frames {
		head := f.Head(rows)
		if s.opts.AnonymizePreviews {
			head = dataframe.Anonymize(head)
		}
		previews[i] = head.String()
	}

	instr := sandbox.Instructions{Question: question, Previews: previews}
	if len(frames) == 1 {
		instr.RowCount = frames[0].NumRows()
		instr.ColumnCount = frames[0].NumColumns()
	}
	return instr
}

// failure records the error and produces the user-visible message.
func (s *Session) failure(err error) string {
	s.lastError = err.Error()
	s.log.Error("question failed", zap.Error(err))
	return fmt.Sprintf(
		"Unfortunately, I was not able to answer your question, because of the following error:\n\n%v\n", err)
}

// formatValue renders the extracted result as an answer string.
func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case []any:
		parts := make([]string, len(n))
		for i, item := range n {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// corrector adapts the code generator into the engine's correction
// collaborator: it builds the correction prompt from the original
// instructions plus the failing script and error.
type corrector struct {
	gen llm.CodeGenerator
}

func (c *corrector) CorrectCode(ctx context.Context, req sandbox.CorrectionRequest) (string, error) {
	p := prompt.CorrectError(
		req.Question, req.Previews, req.RowCount, req.ColumnCount,
		req.FailingScript, req.ErrorMessage)
	out, err := c.gen.GenerateCode(ctx, p)
	if err != nil {
		return "", err
	}
	return llm.ExtractCode(out), nil
}
