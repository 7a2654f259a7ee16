package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"railcodes/lib/table"
)

// what the registry needs from a collector, whatever its record type.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
	RunKeys(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Table(ctx context.Context, key string) (*table.Table, error)
}

// collectors in the order they were registered.
type Registry struct {
	runners []Runner
	byName  map[string]Runner
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Runner{}}
}

// adds `r` under its name, replacing an earlier runner of the same name in
// place.
func (r *Registry) Register(runner Runner) {
	name := runner.Name()
	if _, ok := r.byName[name]; ok {
		for i, existing := range r.runners {
			if existing.Name() == name {
				r.runners[i] = runner
			}
		}
	} else {
		r.runners = append(r.runners, runner)
	}
	r.byName[name] = runner
}

func (r *Registry) Get(name string) (Runner, bool) {
	runner, ok := r.byName[name]
	return runner, ok
}

func (r *Registry) Runners() []Runner {
	return r.runners
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.runners))
	for i, runner := range r.runners {
		names[i] = runner.Name()
	}
	return names
}

// runs every registered collector in order, sleeping `pause` between them
// so the source site is not hit back to back. a failing collector does not
// stop the ones after it.
func (r *Registry) CollectAll(ctx context.Context, pause time.Duration) error {
	ctx, span := tracer.Start(ctx, "CollectAll")
	defer span.End()

	var errs []error
	for i, runner := range r.runners {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(append(errs, ctx.Err())...)
			case <-time.After(pause):
			}
		}
		slog.InfoContext(ctx, "collecting cluster", "cluster", runner.Name())
		err := runner.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
