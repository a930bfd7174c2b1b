// Command depotsim drives a depot world through a fixed number of ticks:
// movers spawn, move, expire and are compacted away while satellites follow
// their parents through the builtin hierarchy.
//
//	go run ./cmd/depotsim -config depotsim.toml
//	go tool pprof -http=":8000" cpu.pprof
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/internal/config"
	"github.com/TheBitDrifter/depot/internal/logging"
	"github.com/TheBitDrifter/depot/schedule"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type Velocity struct {
	X, Y float64
}

// Lifetime counts the ticks an entity has left.
type Lifetime struct {
	Remaining int
}

type Clock struct {
	Tick int
}

type Stats struct {
	Spawned  int
	Expired  int
	Attached int
}

var (
	velocity = depot.FactoryNewComponent[Velocity]()
	lifetime = depot.FactoryNewComponent[Lifetime]()
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a .toml or .yaml config file")
	ticks := flag.Int("ticks", -1, "override simulation.ticks")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *ticks >= 0 {
		cfg.Simulation.Ticks = *ticks
	}

	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer cleanup()

	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	}

	depot.Config.SetLogger(logger)
	depot.Config.SetInitialCapacity(cfg.Simulation.Capacity)

	w := depot.Factory.NewWorldBuilder().
		WithBuiltins().
		WithComponents(velocity, lifetime).
		WithResources(depot.NewResource(Clock{}), depot.NewResource(Stats{})).
		Build()
	defer func() {
		if err := w.Close(); err != nil {
			logger.Error("close world", zap.Error(err))
		}
	}()

	observe(w)
	if err := populate(w, cfg.Simulation); err != nil {
		return err
	}

	scheduler := schedule.NewBuilder().
		Add(schedule.Start, schedule.New().Add(spawner(cfg.Simulation))).
		Add(schedule.Update, schedule.New().Add(movement, expiry, advanceClock)).
		Add(schedule.PostUpdate, schedule.New().Flush()).
		Add(schedule.End, schedule.New().Compact()).
		Build()

	for i := 0; i < cfg.Simulation.Ticks; i++ {
		scheduler.Tick(w)
	}

	report(w, logger)
	return nil
}

func observe(w *depot.World) {
	w.Observe(depot.EventSpawn, func(ids []depot.EntityID, w *depot.World) {
		stats := depot.ResMut[Stats](w)
		stats.Get().Spawned += len(ids)
		stats.Release()
	})
	w.Observe(depot.EventDestroy, func(ids []depot.EntityID, w *depot.World) {
		stats := depot.ResMut[Stats](w)
		stats.Get().Expired += len(ids)
		stats.Release()
	})
	w.Observe(depot.EventAddComponent, func(ids []depot.EntityID, w *depot.World) {
		parent := depot.Read(depot.ParentComponent)
		q := depot.Factory.NewFilteredQuery(w, ids, parent)
		attached := 0
		for range q.Entities() {
			attached++
		}
		stats := depot.ResMut[Stats](w)
		stats.Get().Attached += attached
		stats.Release()
	})
}

// populate spawns the initial movers and gives each a few satellites.
func populate(w *depot.World, sim config.SimulationConfig) error {
	roots := make([]depot.EntityID, 0, sim.Entities)
	for i := 0; i < sim.Entities; i++ {
		e := depot.Spawn(
			depot.TransformComponent.With(depot.Transform{X: float64(i)}),
			velocity.With(Velocity{X: 1, Y: 0.5}),
		)
		roots = append(roots, e.Entity())
		w.Enqueue(e)
	}

	// Spawns flush before adds, so the links can share the batch.
	var links []*depot.Event
	for _, root := range roots {
		for c := 0; c < sim.Children; c++ {
			child := depot.Spawn(depot.TransformComponent.With(depot.Transform{X: 1, Y: float64(c + 1)}))
			w.Enqueue(child)
			links = append(links, depot.Attach(root, child.Entity())...)
		}
	}
	w.Enqueue(links...)
	w.Flush()

	if n := depot.Factory.NewQuery(w, depot.Read(depot.ParentComponent)).Matched(); n != sim.Entities*sim.Children {
		return eris.Errorf("attached %d satellites, expected %d", n, sim.Entities*sim.Children)
	}
	return nil
}

func spawner(sim config.SimulationConfig) depot.System {
	return func(w *depot.World) {
		for i := 0; i < sim.Spawn; i++ {
			values := []depot.ComponentValue{
				depot.TransformComponent.With(depot.Transform{}),
				velocity.With(Velocity{X: float64(i%3) - 1, Y: 1}),
			}
			if sim.Lifetime > 0 {
				values = append(values, lifetime.With(Lifetime{Remaining: sim.Lifetime}))
			}
			w.Enqueue(depot.Spawn(values...))
		}
	}
}

func movement(w *depot.World) {
	transform, vel := depot.Write(depot.TransformComponent), depot.Read(velocity)
	q := depot.Factory.NewQuery(w, transform, vel)
	for q.Next() {
		t, v := transform.Get(q), vel.Get(q)
		t.X += v.X
		t.Y += v.Y
	}
}

func expiry(w *depot.World) {
	entity, life := depot.FetchEntity(), depot.Write(lifetime)
	q := depot.Factory.NewQuery(w, entity, life)
	for q.Next() {
		l := life.Get(q)
		l.Remaining--
		if l.Remaining <= 0 {
			w.Enqueue(depot.DestroyEntity(entity.Get(q)))
		}
	}
}

func advanceClock(w *depot.World) {
	clock := depot.ResMut[Clock](w)
	clock.Get().Tick++
	clock.Release()
}

func report(w *depot.World, logger *zap.Logger) {
	clock := depot.Res[Clock](w)
	stats := depot.Res[Stats](w)
	defer clock.Release()
	defer stats.Release()

	live := depot.Factory.NewQuery(w, depot.FetchEntity())
	graph := w.Archetypes()
	archetypes := graph.Get().Len()
	graph.Release()

	fields := []zap.Field{
		zap.Int("ticks", clock.Get().Tick),
		zap.Int("spawned", stats.Get().Spawned),
		zap.Int("expired", stats.Get().Expired),
		zap.Int("attached", stats.Get().Attached),
		zap.Int("live", live.Matched()),
		zap.Int("archetypes", archetypes),
	}
	live.Close()

	satellite := depot.FetchEntity()
	q := depot.Factory.NewQuery(w, satellite, depot.Read(depot.ParentComponent))
	var first depot.EntityID
	if q.Next() {
		first = satellite.Get(q)
	}
	q.Close()
	if first != 0 {
		if pos, ok := depot.WorldPosition(w, first); ok {
			fields = append(fields, zap.Float64("satellite_x", pos.X), zap.Float64("satellite_y", pos.Y))
		}
	}

	logger.Info("simulation finished", fields...)
}
