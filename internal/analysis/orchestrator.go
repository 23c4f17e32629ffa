package analysis

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

// stage tracks where in the pipeline a request is. One request is strictly
// sequential: Composing -> AwaitingModel -> Reconciling -> done, with failure
// terminal from any stage.
type stage int

const (
	stageComposing stage = iota
	stageAwaitingModel
	stageReconciling
)

func (s stage) String() string {
	switch s {
	case stageComposing:
		return "composing"
	case stageAwaitingModel:
		return "awaiting_model"
	case stageReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// Request is the input for one analysis round trip.
type Request struct {
	Resume  ResumePayload
	Context JobContext
}

// Engine sequences normalizer output, prompt composition, the model round
// trip and reconciliation. Stateless across calls beyond the board it reads.
type Engine struct {
	invoker Invoker
	board   *jobstore.Repository
}

func NewEngine(invoker Invoker, board *jobstore.Repository) *Engine {
	return &Engine{invoker: invoker, board: board}
}

// Analyze runs one request end to end. On failure exactly one error kind is
// returned and never a partial result.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := validatePayload(req.Resume); err != nil {
		return nil, e.fail(stageComposing, err)
	}

	jc := req.Context
	if jc.Kind == ContextCorpus && jc.Corpus == nil {
		if e.board == nil {
			return nil, e.fail(stageComposing,
				newError(KindValidation, "closed-corpus request without a job board", nil))
		}
		// Snapshot once at request start; concurrent board writes do not
		// affect this request.
		jc.Corpus = e.board.ListAll(ctx)
	}
	prompt := composePrompt(req.Resume, jc)

	result, err := e.invoker.Invoke(ctx, prompt)
	if err != nil {
		return nil, e.fail(stageAwaitingModel, err)
	}

	if err := Reconcile(result, jc.Corpus, prompt.Closed); err != nil {
		return nil, e.fail(stageReconciling, err)
	}
	return result, nil
}

// fail maps any internal error to exactly one typed kind. Untyped errors out
// of a custom Invoker are treated as transport failures.
func (e *Engine) fail(st stage, err error) error {
	var typed *Error
	if !errors.As(err, &typed) {
		typed = newError(KindTransport, "model invocation failed", err)
	}
	log.Printf("analysis failed at %s stage: kind=%s", st, typed.Kind)
	return typed
}

// validatePayload rejects requests lacking both meaningful text and binary
// content before any network call is attempted.
func validatePayload(p ResumePayload) error {
	switch p.Kind {
	case PayloadText:
		if strings.TrimSpace(p.Content) == "" {
			return newError(KindValidation, "empty resume", nil)
		}
	case PayloadBinary:
		if len(p.Data) == 0 {
			return newError(KindValidation, "empty resume file", nil)
		}
		if !imageMIMEs[p.MIMEType] {
			return newError(KindValidation, "unsupported file type: "+p.MIMEType, nil)
		}
	default:
		return newError(KindValidation, "resume payload missing", nil)
	}
	return nil
}
