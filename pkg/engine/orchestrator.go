package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/directive"
)

const (
	defaultTimeout  = 45 * time.Second
	readOnlyRetries = 2
)

// Orchestrator executes the directives embedded in a block of text and
// splices the results back in place.
type Orchestrator struct {
	registry *Registry
	log      *zap.Logger

	// Timeout bounds each handler invocation. Zero means the default.
	Timeout time.Duration
}

func NewOrchestrator(registry *Registry, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{registry: registry, log: log, Timeout: defaultTimeout}
}

// Execute runs every registered directive in text, left to right, and
// returns the text with each directive replaced by its rendering plus
// the number of successful executions. Directives run sequentially: a
// later directive may depend on an earlier one's side effects. A
// failing handler is rendered as an error in place and never stops its
// siblings. Unknown tags stay in the text verbatim.
//
// Replacement is by position, not by substring search, so two
// byte-identical directives each get their own execution and splice.
func (o *Orchestrator) Execute(ctx context.Context, text string, ec Context) (string, int) {
	dirs := directive.ParseKnown(text, o.registry.Has)
	if len(dirs) == 0 {
		return text, 0
	}

	var out strings.Builder
	executed := 0
	last := 0
	for _, d := range dirs {
		handler, ok := o.registry.Lookup(d.Tag)
		if !ok {
			continue
		}
		outcome := o.invoke(ctx, handler, d, ec)
		if outcome.OK {
			executed++
		} else {
			o.log.Warn("directive failed",
				zap.String("tag", d.Tag),
				zap.String("agent", ec.AgentHandle),
				zap.String("error", outcome.Err))
		}
		out.WriteString(text[last:d.Start])
		out.WriteString("\n")
		out.WriteString(outcome.Text)
		out.WriteString("\n")
		last = d.Start + len(d.Raw)
	}
	out.WriteString(text[last:])
	return out.String(), executed
}

// invoke runs one handler under the per-directive deadline, recovering
// panics and converting errors into rendered failures. Read-only
// capabilities get a couple of retries; mutating ones never do.
func (o *Orchestrator) invoke(ctx context.Context, handler Handler, d directive.Directive, ec Context) Outcome {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cap, _ := catalog.ByTag(d.Tag)
	attempts := 1
	if !cap.Mutates {
		attempts += readOnlyRetries
	}

	var outcome Outcome
	var err error
	for i := 0; i < attempts; i++ {
		outcome, err = o.attempt(ctx, handler, d, ec, timeout)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return Failure("⚠️ %s failed: %v", d.Tag, err)
	}
	return outcome
}

func (o *Orchestrator) attempt(ctx context.Context, handler Handler, d directive.Directive, ec Context, timeout time.Duration) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return handler(hctx, d.Args, ec)
}
