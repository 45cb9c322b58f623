package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/trickstertwo/logroute"
)

// StressOptions sizes a stress run.
type StressOptions struct {
	Producers     int
	Reconfigurers int
	// IDsPerReconfigurer is how many observer ids each reconfigurer cycles through.
	IDsPerReconfigurer int
	Duration           time.Duration
	// FailEvery makes every n-th registration a failing observer; 0 disables.
	FailEvery int
	Seed      uint64
	// Checkpoints splits Duration into phases; all workers stop at the end of
	// each phase and the repository is verified before the next one starts.
	Checkpoints int
}

// StressReport is the outcome of a stress run.
type StressReport struct {
	Produced  uint64
	Delivered uint64
	Reconfigs uint64
	// Checkpoints is the number of quiescent points that were verified.
	Checkpoints int
	Stats       logroute.RepositoryStats
}

func newStressCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Dispatch concurrently while observers are reconfigured, then verify state",
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := logroute.ParseLevel(v.GetString("level"))
			if err != nil {
				return err
			}
			ad, err := newAdapter(v.GetString("backend"), minLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			repo := logroute.NewRepository(logroute.RepositoryConfig{Diagnostics: ad})
			logger, err := logroute.NewBuilder().
				WithAdapter(ad).
				WithMinLevel(minLevel).
				WithRepository(repo).
				Build()
			if err != nil {
				return err
			}

			opts := StressOptions{
				Producers:          v.GetInt("producers"),
				Reconfigurers:      v.GetInt("reconfigurers"),
				IDsPerReconfigurer: v.GetInt("ids"),
				Duration:           v.GetDuration("duration"),
				FailEvery:          v.GetInt("fail-every"),
				Seed:               v.GetUint64("seed"),
				Checkpoints:        v.GetInt("checkpoints"),
			}
			logger.Info().
				Int("producers", opts.Producers).
				Int("reconfigurers", opts.Reconfigurers).
				Dur("duration", opts.Duration).
				Msg("stress started")

			rep, err := RunStress(cmd.Context(), repo, opts)
			if err != nil {
				logger.Error().Err(err).Msg("stress failed")
				return err
			}
			logger.Info().
				Uint64("produced", rep.Produced).
				Uint64("delivered", rep.Delivered).
				Uint64("reconfigurations", rep.Reconfigs).
				Int("checkpoints", rep.Checkpoints).
				Uint64("dispatched", rep.Stats.Dispatched).
				Uint64("observer_failures", rep.Stats.ObserverFailures).
				Int("observers", rep.Stats.Observers).
				Msg("stress finished, repository consistent")
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("producers", 8, "concurrent producers")
	f.Int("reconfigurers", 2, "concurrent reconfigurers")
	f.Int("ids", 4, "observer ids per reconfigurer")
	f.Duration("duration", 2*time.Second, "run time")
	f.Int("fail-every", 5, "every n-th registration fails on each event (0 disables)")
	f.Uint64("seed", 1, "random seed")
	f.Int("checkpoints", 4, "quiescent points at which the repository is verified")
	for _, name := range []string{"producers", "reconfigurers", "ids", "duration", "fail-every", "seed", "checkpoints"} {
		_ = v.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

type record uint64

func (r record) CorrelationID() string { return "rec-" + strconv.FormatUint(uint64(r), 10) }

// RunStress runs producers and reconfigurers against repo for opts.Duration,
// split into opts.Checkpoints phases. At the end of every phase all workers
// stop and the repository is verified against the state the reconfigurers
// believe they left behind. A done ctx ends the run early.
func RunStress(ctx context.Context, repo *logroute.Repository, opts StressOptions) (StressReport, error) {
	if opts.Producers <= 0 || opts.Reconfigurers < 0 || opts.Duration <= 0 {
		return StressReport{}, fmt.Errorf("%w: producers and duration must be positive", logroute.ErrInvalidArgument)
	}
	if opts.IDsPerReconfigurer <= 0 {
		opts.IDsPerReconfigurer = 1
	}
	if opts.Checkpoints <= 0 {
		opts.Checkpoints = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		rep           StressReport
		produced      atomic.Uint64
		delivered     atomic.Uint64
		reconfigs     atomic.Uint64
		registrations atomic.Uint64
	)
	producerRNGs := make([]*rand.Rand, opts.Producers)
	for p := range producerRNGs {
		producerRNGs[p] = rand.New(rand.NewPCG(opts.Seed, uint64(p)))
	}
	reconfigRNGs := make([]*rand.Rand, opts.Reconfigurers)
	states := make([]map[string]logroute.Level, opts.Reconfigurers)
	for r := range reconfigRNGs {
		reconfigRNGs[r] = rand.New(rand.NewPCG(opts.Seed, uint64(1<<32+r)))
		states[r] = make(map[string]logroute.Level)
	}

	phase := opts.Duration / time.Duration(opts.Checkpoints)
	for cp := 0; cp < opts.Checkpoints && ctx.Err() == nil; cp++ {
		pctx, cancel := context.WithTimeout(ctx, phase)
		g, gctx := errgroup.WithContext(pctx)
		for p, rng := range producerRNGs {
			g.Go(func() error {
				var n uint64
				for gctx.Err() == nil {
					level := logroute.Level(rng.IntN(int(logroute.LevelNone)))
					repo.Log(level, "producer {} event {}", p, n, record(n))
					n++
					produced.Add(1)
				}
				return nil
			})
		}
		for r, rng := range reconfigRNGs {
			state := states[r]
			g.Go(func() error {
				for gctx.Err() == nil {
					id := "r" + strconv.Itoa(r) + "-" + strconv.Itoa(rng.IntN(opts.IDsPerReconfigurer))
					level := logroute.Level(rng.IntN(int(logroute.LevelNone) + 1))
					_, present := state[id]
					switch {
					case !present:
						n := registrations.Add(1)
						var obs logroute.Observer = logroute.ObserverFunc(func(logroute.Event) error {
							delivered.Add(1)
							return nil
						})
						if opts.FailEvery > 0 && n%uint64(opts.FailEvery) == 0 {
							obs = logroute.ObserverFunc(func(logroute.Event) error {
								return errors.New("observer rejected event")
							})
						}
						if err := repo.AddObserver(id, level, obs); err != nil {
							return fmt.Errorf("add %s: %w", id, err)
						}
						state[id] = level
					case rng.IntN(2) == 0:
						if err := repo.SetObservationLevel(id, level); err != nil {
							return fmt.Errorf("set level %s: %w", id, err)
						}
						state[id] = level
					default:
						if _, ok := repo.RemoveObserver(id); !ok {
							return fmt.Errorf("remove %s: %w", id, logroute.ErrObserverNotFound)
						}
						delete(state, id)
					}
					reconfigs.Add(1)
				}
				return nil
			})
		}
		err := g.Wait()
		cancel()
		if err != nil {
			return rep, err
		}

		expected := make(map[string]logroute.Level)
		for _, m := range states {
			for id, l := range m {
				expected[id] = l
			}
		}
		if err := VerifyRepository(repo, expected); err != nil {
			return rep, fmt.Errorf("checkpoint %d: %w", cp+1, err)
		}
		rep.Checkpoints++
	}

	rep.Produced = produced.Load()
	rep.Delivered = delivered.Load()
	rep.Reconfigs = reconfigs.Load()
	rep.Stats = repo.Stats()
	return rep, nil
}

// VerifyRepository checks repo against the expected id → minimum level map
// using only the public API.
func VerifyRepository(repo *logroute.Repository, expected map[string]logroute.Level) error {
	ids := repo.ObserverIDs()
	if len(ids) != len(expected) {
		return fmt.Errorf("repository holds %d observers, expected %d", len(ids), len(expected))
	}
	for _, id := range ids {
		want, ok := expected[id]
		if !ok {
			return fmt.Errorf("unexpected observer %q", id)
		}
		got, err := repo.ObservationLevel(id)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("observer %q observes at %s, expected %s", id, got, want)
		}
	}
	for _, l := range logroute.Levels() {
		want := false
		for _, lowest := range expected {
			if lowest != logroute.LevelNone && lowest <= l && l != logroute.LevelNone {
				want = true
				break
			}
		}
		if got := repo.IsObservedAt(l); got != want {
			return fmt.Errorf("IsObservedAt(%s) = %t, expected %t", l, got, want)
		}
	}
	return nil
}
