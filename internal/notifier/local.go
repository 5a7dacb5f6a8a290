package notifier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/julianstephens/sagestudy/internal/logger"
)

// Pending describes a scheduled reminder that has not fired yet
type Pending struct {
	ID      string
	FireAt  time.Time
	Payload Payload
}

// LocalGateway keeps reminders as one-shot gocron jobs tagged by
// notification id. Jobs only fire while the scheduler is started.
type LocalGateway struct {
	scheduler *gocron.Scheduler
	deliverer Deliverer
	enabled   bool

	mu      sync.Mutex
	pending map[string]Pending
}

func NewLocalGateway(deliverer Deliverer, loc *time.Location, enabled bool) *LocalGateway {
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)
	s.TagsUnique()
	return &LocalGateway{
		scheduler: s,
		deliverer: deliverer,
		enabled:   enabled,
		pending:   make(map[string]Pending),
	}
}

// Start begins firing due jobs in the background
func (g *LocalGateway) Start() {
	g.scheduler.StartAsync()
}

// Stop halts the scheduler. Pending jobs are dropped.
func (g *LocalGateway) Stop() {
	g.scheduler.Stop()
}

func (g *LocalGateway) RequestPermission(ctx context.Context) (bool, error) {
	if !g.enabled {
		return false, nil
	}
	if err := g.deliverer.Ready(ctx); err != nil {
		logger.Debug("Notification deliverer not ready", "error", err)
		return false, nil
	}
	return true, nil
}

func (g *LocalGateway) Schedule(ctx context.Context, id string, fireAt time.Time, payload Payload) error {
	if id == "" {
		return fmt.Errorf("notification id cannot be empty")
	}
	if !g.enabled {
		logger.Debug("Notifications disabled, not scheduling", "notification_id", id)
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pending[id]; ok {
		g.removeLocked(id)
	}

	_, err := g.scheduler.Every(24 * time.Hour).
		StartAt(fireAt).
		LimitRunsTo(1).
		Tag(id).
		Do(g.fire, id)
	if err != nil {
		return fmt.Errorf("failed to schedule notification %s: %w", id, err)
	}

	g.pending[id] = Pending{ID: id, FireAt: fireAt, Payload: payload}
	logger.Debug("Scheduled notification", "notification_id", id, "task_id", payload.TaskID, "fire_at", fireAt)
	return nil
}

func (g *LocalGateway) fire(id string) {
	g.mu.Lock()
	p, ok := g.pending[id]
	delete(g.pending, id)
	g.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := g.deliverer.Deliver(ctx, p.Payload); err != nil {
		logger.Warn("Failed to deliver notification", "notification_id", id, "task_id", p.Payload.TaskID, "error", err)
		return
	}
	logger.Info("Delivered notification", "notification_id", id, "task_id", p.Payload.TaskID)
}

// removeLocked drops the job for id. Caller holds mu.
func (g *LocalGateway) removeLocked(id string) {
	delete(g.pending, id)
	if err := g.scheduler.RemoveByTag(id); err != nil && !errors.Is(err, gocron.ErrJobNotFoundWithTag) {
		logger.Debug("Failed to remove job", "notification_id", id, "error", err)
	}
}

func (g *LocalGateway) Cancel(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[id]; !ok {
		return nil
	}
	g.removeLocked(id)
	return nil
}

func (g *LocalGateway) CancelAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scheduler.Clear()
	g.pending = make(map[string]Pending)
	return nil
}

// Pending returns the reminders still waiting to fire, soonest first
func (g *LocalGateway) Pending() []Pending {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Pending, 0, len(g.pending))
	for _, p := range g.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}
