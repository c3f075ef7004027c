package shopper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/tweenshop/pkg/session"
	"go.uber.org/zap"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrTimeout        = errors.New("shopper did not answer in time")
	ErrClosed         = errors.New("shopper registry closed")
)

// Registry maps session ids to shopper actors.
type Registry struct {
	system  *actor.ActorSystem
	deps    Deps
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	pids   map[string]*actor.PID
	closed bool
}

func NewRegistry(system *actor.ActorSystem, deps Deps, timeout time.Duration) *Registry {
	return &Registry{
		system:  system,
		deps:    deps,
		timeout: timeout,
		logger:  deps.Logger.Named("shopper-registry"),
		pids:    make(map[string]*actor.PID),
	}
}

// NewSession spawns a shopper for a fresh session id.
func (r *Registry) NewSession() (string, error) {
	id := session.NewID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrClosed
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return newShopperActor(id, r.deps, func() { r.forget(id) })
	})
	pid, err := r.system.Root.SpawnNamed(props, "shopper-"+id)
	if err != nil {
		return "", fmt.Errorf("failed to spawn shopper actor: %w", err)
	}
	r.pids[id] = pid

	r.logger.Debug("Session created", zap.String("session_id", id))
	return id, nil
}

func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pids[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pids)
}

// forget drops an expired session so later requests get ErrUnknownSession.
func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.pids, id)
	r.mu.Unlock()

	r.logger.Debug("Session released", zap.String("session_id", id))
}

func (r *Registry) pid(id string) (*actor.PID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	pid, ok := r.pids[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return pid, nil
}

// Close stops every shopper actor.
func (r *Registry) Close() {
	r.mu.Lock()
	pids := r.pids
	r.pids = make(map[string]*actor.PID)
	r.closed = true
	r.mu.Unlock()

	for _, pid := range pids {
		if err := r.system.Root.StopFuture(pid).Wait(); err != nil {
			r.logger.Warn("Failed to stop shopper", zap.String("pid", pid.Id), zap.Error(err))
		}
	}
}

// Ask sends msg to the shopper of session id and waits for a reply of
// type T. The wait is bounded by the registry timeout and ctx's deadline.
func Ask[T any](ctx context.Context, r *Registry, id string, msg interface{}) (T, error) {
	var zero T

	pid, err := r.pid(id)
	if err != nil {
		return zero, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if timeout <= 0 {
		return zero, ErrTimeout
	}

	res, err := r.system.Root.RequestFuture(pid, msg, timeout).Result()
	if err != nil {
		if errors.Is(err, actor.ErrTimeout) {
			return zero, ErrTimeout
		}
		return zero, err
	}

	switch v := res.(type) {
	case *failure:
		return zero, v.err
	case T:
		return v, nil
	default:
		return zero, fmt.Errorf("unexpected reply %T to %T", res, msg)
	}
}
