package resolve

import (
	"io/fs"
	"time"

	"github.com/biginformatics/docsite/internal/config"
	"github.com/biginformatics/docsite/internal/metrics"
)

// Options configure a Resolver. The zero value is usable: it performs no file
// existence checks and uses the built-in registries.
type Options struct {
	// ProjectRoot is joined with relative paths to fill Asset.AbsPath.
	ProjectRoot string
	// FS is the project filesystem used for existence checks. When nil the
	// checks are left to the engine and assets are reported unverified.
	FS fs.FS
	// Year replaces "{year}" in the footer copyright when positive.
	Year int
	// ThemeDefaults is a house style the author's themeConfig is merged over.
	ThemeDefaults *config.ThemeConfig
	Presets       *PresetRegistry
	Plugins       *PluginRegistry
	Recorder      metrics.Recorder
}

// Resolver resolves site configurations with a fixed set of options. It holds
// no mutable state and is safe for concurrent use.
type Resolver struct {
	opts Options
}

// New returns a Resolver, filling unset options with defaults.
func New(opts Options) *Resolver {
	if opts.Presets == nil {
		opts.Presets = DefaultPresets()
	}
	if opts.Plugins == nil {
		opts.Plugins = DefaultPlugins()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Resolver{opts: opts}
}

// Resolve is shorthand for New(opts).Resolve(raw).
func Resolve(raw *config.SiteConfig, opts Options) (*ResolvedConfig, error) {
	return New(opts).Resolve(raw)
}

// Resolve validates raw and returns its resolved form. raw is never modified.
// Every error returned implements ConfigError.
func (r *Resolver) Resolve(raw *config.SiteConfig) (*ResolvedConfig, error) {
	start := time.Now()
	out, err := r.resolve(raw)
	rec := r.opts.Recorder
	rec.ObserveResolveDuration(time.Since(start))
	if err != nil {
		rec.IncResolveOutcome(metrics.OutcomeRejected)
		rec.IncResolveError(ErrorKind(err))
		return nil, err
	}
	rec.IncResolveOutcome(metrics.OutcomeSuccess)
	rec.SetLastSuccess(time.Now())
	return out, nil
}

// resolution carries the state of one Resolve call.
type resolution struct {
	opts   *Options
	raw    *config.SiteConfig
	out    *ResolvedConfig
	assets []*Asset
}

func (r *Resolver) resolve(raw *config.SiteConfig) (*ResolvedConfig, error) {
	if raw == nil {
		raw = &config.SiteConfig{}
	}
	s := &resolution{opts: &r.opts, raw: raw, out: &ResolvedConfig{}}
	steps := []func() error{
		s.checkLocales,
		s.checkRequired,
		s.resolveSite,
		s.resolvePresets,
		s.resolvePlugins,
		s.resolveTheme,
		s.resolvePaths,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	s.out.Assets = make([]Asset, 0, len(s.assets))
	for _, a := range s.assets {
		s.out.Assets = append(s.out.Assets, *a)
	}
	return s.out, nil
}

// newAsset registers a file reference for the paths step.
func (s *resolution) newAsset(field, ref string, kind assetKind) *Asset {
	a := &Asset{Field: field, Ref: ref, kind: kind}
	s.assets = append(s.assets, a)
	return a
}
