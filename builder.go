package logroute

import "github.com/trickstertwo/xclock"

// Config for constructing a Logger (Factory data structure).
type Config struct {
	Adapter  Adapter
	MinLevel Level
	// Repository the logger routes to. When nil, Build creates one from
	// Clock and RepositoryConfig.
	Repository       *Repository
	RepositoryConfig RepositoryConfig
	Clock            xclock.Clock // optional; only used when Build creates the repository
}

// Builder separates construction from representation (Builder pattern).
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder {
	return &Builder{cfg: Config{MinLevel: LevelInfo}}
}

func (b *Builder) WithAdapter(a Adapter) *Builder {
	b.cfg.Adapter = a
	return b
}

func (b *Builder) WithMinLevel(l Level) *Builder {
	b.cfg.MinLevel = l
	return b
}

func (b *Builder) WithClock(c xclock.Clock) *Builder {
	b.cfg.Clock = c
	return b
}

func (b *Builder) WithRepository(r *Repository) *Builder {
	b.cfg.Repository = r
	return b
}

func (b *Builder) WithRepositoryConfig(rc RepositoryConfig) *Builder {
	b.cfg.RepositoryConfig = rc
	return b
}

// Build constructs the Logger (Factory + Builder) and records it as the
// component logger of its repository.
func (b *Builder) Build() (*Logger, error) {
	if b.cfg.Adapter == nil {
		return nil, ErrNoAdapter
	}
	if !b.cfg.MinLevel.Valid() {
		return nil, ErrInvalidArgument
	}
	cfg := b.cfg
	if cfg.Repository == nil {
		rc := cfg.RepositoryConfig
		if rc.Clock == nil {
			rc.Clock = cfg.Clock
		}
		cfg.Repository = NewRepository(rc)
	}
	// Propagate settings into the adapter when supported.
	applyAdapterConfig(cfg.Adapter, cfg.MinLevel)
	l := newLogger(cfg)
	cfg.Repository.SetComponentLogger(l)
	return l, nil
}

// adapterLevelSetter is an optional interface adapters can implement
// to receive min-level configuration from Builder/Config.
type adapterLevelSetter interface {
	SetMinLevel(Level)
}

func applyAdapterConfig(a Adapter, minLevel Level) {
	if ls, ok := a.(adapterLevelSetter); ok {
		ls.SetMinLevel(minLevel)
	}
}
