package services

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/observability"
)

// dequeueErrorBackoff spaces out retries when the queue itself is failing,
// as opposed to merely empty.
const dequeueErrorBackoff = time.Second

// JobProcessor is the pipeline contract a worker slot drives for each
// dequeued job.
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *entities.Job) *entities.StatusRecord
}

// AgentSupervisor keeps a fixed number of worker slots alive. Each slot runs
// a crash-isolated agent loop; when an agent panics, the supervisor restarts
// that slot after a fixed delay, indefinitely. Other slots are unaffected.
type AgentSupervisor struct {
	queue        repositories.JobQueue
	processor    JobProcessor
	metrics      *observability.Metrics
	agentCount   int
	restartDelay time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAgentSupervisor creates a supervisor for agentCount slots. metrics may
// be nil.
func NewAgentSupervisor(
	queue repositories.JobQueue,
	processor JobProcessor,
	metrics *observability.Metrics,
	agentCount int,
	restartDelay time.Duration,
) *AgentSupervisor {
	if agentCount < 1 {
		agentCount = 1
	}
	if restartDelay <= 0 {
		restartDelay = 2 * time.Second
	}
	return &AgentSupervisor{
		queue:        queue,
		processor:    processor,
		metrics:      metrics,
		agentCount:   agentCount,
		restartDelay: restartDelay,
	}
}

// Start launches every slot and returns immediately.
func (s *AgentSupervisor) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for slot := 0; slot < s.agentCount; slot++ {
		s.wg.Add(1)
		go func(slot int) {
			defer s.wg.Done()
			s.superviseSlot(ctx, slot)
		}(slot)
	}
	log.Info().Int("agents", s.agentCount).Dur("restart_delay", s.restartDelay).Msg("Agent supervisor started")
}

// Stop cancels all slots and waits for in-flight jobs to finish.
func (s *AgentSupervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Info().Msg("Agent supervisor stopped")
}

func (s *AgentSupervisor) superviseSlot(ctx context.Context, slot int) {
	for {
		s.runAgent(ctx, slot)
		if ctx.Err() != nil {
			return
		}

		// runAgent only returns early on a crash
		observability.RecordAgentRestart(ctx, s.metrics, slot)
		log.Warn().Int("slot", slot).Dur("restart_delay", s.restartDelay).Msg("Agent crashed, restarting after delay")
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.restartDelay):
		}
	}
}

// runAgent is one agent incarnation: dequeue, process, repeat. A panic
// anywhere inside is caught here so it takes down this incarnation only.
func (s *AgentSupervisor) runAgent(ctx context.Context, slot int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("slot", slot).Interface("panic", r).Str("stack", string(debug.Stack())).Msg("Agent panicked")
		}
	}()

	log.Info().Int("slot", slot).Msg("Agent started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("slot", slot).Msg("Agent stopping")
			return
		default:
		}

		job, err := s.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, repositories.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Int("slot", slot).Msg("Dequeue failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueErrorBackoff):
			}
			continue
		}

		s.processor.ProcessJob(ctx, job)
	}
}
