// Package schedule fires stored prompts into the same generation and
// execution path live channel messages use.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/channel"
	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/store"
)

// resultLimit caps the stored last-result summary.
const resultLimit = 240

// parser accepts standard 5-field cron expressions plus descriptors
// like @hourly and @every 10m.
var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateExpression rejects bad schedule expressions at save time.
func ValidateExpression(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("bad schedule expression %q: %w", expr, err)
	}
	return nil
}

// NextRun computes when a schedule fires after the given instant.
func NextRun(sc store.Schedule, after time.Time) (time.Time, error) {
	s, err := parser.Parse(sc.Expression)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(after), nil
}

// Responder is the generation + execution path. *channel.Gateway
// satisfies it.
type Responder interface {
	Respond(ctx context.Context, agent *identity.Agent, text string) channel.Reply
}

// Scheduler evaluates enabled schedules on a fixed tick and feeds due
// ones through the gateway as synthetic messages from the owning
// agent. No binding lookup happens: the agent is already known.
type Scheduler struct {
	store   *store.Store
	agents  *identity.Registry
	gateway Responder
	log     *zap.Logger
	tick    time.Duration

	// inflight guards at-most-one run per schedule.
	inflight sync.Map
	// baseline anchors schedules that have never fired.
	baseline time.Time
}

func New(st *store.Store, agents *identity.Registry, gateway Responder, tick time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if tick <= 0 {
		tick = 30 * time.Second
	}
	return &Scheduler{
		store:    st,
		agents:   agents,
		gateway:  gateway,
		log:      log,
		tick:     tick,
		baseline: time.Now(),
	}
}

// Start blocks, evaluating schedules every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

// runDue fires every enabled schedule whose next activation has
// passed and reports how many firings it launched. Firings run
// concurrently across schedules but never overlap for the same
// schedule.
func (s *Scheduler) runDue(ctx context.Context, now time.Time) int {
	schedules, err := s.store.ListSchedules("")
	if err != nil {
		s.log.Error("listing schedules failed", zap.Error(err))
		return 0
	}
	launched := 0
	for _, sc := range schedules {
		if !sc.Enabled {
			continue
		}
		anchor := sc.LastRun
		if anchor.IsZero() {
			anchor = s.baseline
		}
		next, err := NextRun(sc, anchor)
		if err != nil {
			s.log.Error("bad schedule expression",
				zap.String("schedule", sc.ID),
				zap.String("expression", sc.Expression),
				zap.Error(err))
			continue
		}
		if next.After(now) {
			continue
		}
		if _, running := s.inflight.LoadOrStore(sc.ID, struct{}{}); running {
			continue
		}
		launched++
		go func(sc store.Schedule, at time.Time) {
			defer s.inflight.Delete(sc.ID)
			s.fire(ctx, sc, at)
		}(sc, now)
	}
	return launched
}

// fire runs one schedule. Handler failures inside the response are
// already contained by the orchestrator; anything else is recorded in
// the schedule's last result rather than thrown, so one bad schedule
// never halts the rest.
func (s *Scheduler) fire(ctx context.Context, sc store.Schedule, at time.Time) {
	agent, ok := s.agents.GetByID(sc.AgentID)
	if !ok {
		s.record(sc.ID, at, "error: owning agent no longer exists")
		return
	}
	s.log.Info("schedule firing",
		zap.String("schedule", sc.Name),
		zap.String("agent", agent.Handle))

	reply := s.gateway.Respond(ctx, agent, sc.Prompt)
	summary := reply.Text
	if reply.Action == channel.ActionError {
		summary = "error: " + summary
	}
	s.record(sc.ID, at, summary)
}

func (s *Scheduler) record(id string, at time.Time, result string) {
	if len(result) > resultLimit {
		// Cut on a rune boundary so the stored summary stays valid UTF-8.
		cut := resultLimit
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut] + "…"
	}
	if err := s.store.MarkScheduleRun(id, at, result); err != nil {
		s.log.Error("recording schedule run failed", zap.String("schedule", id), zap.Error(err))
	}
}
