package entities

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/components"
	"github.com/decker502/emberfx/pkg/systems"
)

var (
	// ErrUnknownEffect is returned for effect names the library does not hold.
	ErrUnknownEffect = errors.New("unknown particle effect")
	// ErrDuplicateEffect is returned when registering an existing effect name.
	ErrDuplicateEffect = errors.New("particle effect already registered")
)

// Effect is a named particle effect: the particle definition as authored
// stops plus the emitter settings it is usually spawned with.
type Effect struct {
	Name  string
	Shape string // particle shape
	Stops []particle.Stop

	// Emitter is the emitter template. Particle is filled in from the
	// compiled stops; X and Y are replaced by the spawn position.
	Emitter particle.EmitterConfig
}

// EffectLibrary holds named effects and compiles each definition once, on
// first use. All particles of an effect share the compiled definition.
type EffectLibrary struct {
	registry *particle.Registry
	effects  map[string]Effect
	compiled map[string]*particle.Definition
}

// NewEffectLibrary creates a library with the built-in effects. A nil
// registry means particle.DefaultRegistry().
func NewEffectLibrary(reg *particle.Registry) *EffectLibrary {
	if reg == nil {
		reg = particle.DefaultRegistry()
	}
	lib := &EffectLibrary{
		registry: reg,
		effects:  make(map[string]Effect),
		compiled: make(map[string]*particle.Definition),
	}
	for _, e := range builtinEffects() {
		lib.effects[e.Name] = e
	}
	return lib
}

// Register adds an effect. The stops are compiled immediately so a bad
// definition is reported here rather than at spawn time.
func (l *EffectLibrary) Register(e Effect) error {
	if _, exists := l.effects[e.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEffect, e.Name)
	}
	def, err := particle.Compile(l.registry, e.Shape, e.Stops)
	if err != nil {
		return fmt.Errorf("failed to compile effect '%s': %w", e.Name, err)
	}
	l.effects[e.Name] = e
	l.compiled[e.Name] = def
	return nil
}

// Names returns the effect names in sorted order.
func (l *EffectLibrary) Names() []string {
	names := make([]string, 0, len(l.effects))
	for name := range l.effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Effect returns the named effect.
func (l *EffectLibrary) Effect(name string) (Effect, bool) {
	e, ok := l.effects[name]
	return e, ok
}

// Definition returns the compiled definition of the named effect, compiling
// it on first use.
func (l *EffectLibrary) Definition(name string) (*particle.Definition, error) {
	if def, ok := l.compiled[name]; ok {
		return def, nil
	}

	e, ok := l.effects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}

	def, err := particle.Compile(l.registry, e.Shape, e.Stops)
	if err != nil {
		return nil, fmt.Errorf("failed to compile effect '%s': %w", name, err)
	}
	l.compiled[name] = def

	log.Printf("[EffectLibrary] 编译粒子效果: %s (%d stops, %d intervals)", name, len(e.Stops), len(def.Program().Intervals))
	return def, nil
}

// Override sets attribute attr of the effect's first stop to v and drops the
// cached definition. The change is validated by compiling; on error the
// effect is left unchanged.
func (l *EffectLibrary) Override(name, attr string, v particle.Value) error {
	e, ok := l.effects[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}

	// 复制 stops，避免修改内置定义共享的 map
	stops := make([]particle.Stop, len(e.Stops))
	copy(stops, e.Stops)
	if len(stops) == 0 {
		stops = append(stops, particle.Stop{})
	}
	first := make(map[string]particle.Value, len(stops[0].Attrs)+1)
	for k, val := range stops[0].Attrs {
		first[k] = val
	}
	first[attr] = v
	stops[0].Attrs = first

	def, err := particle.Compile(l.registry, e.Shape, stops)
	if err != nil {
		return fmt.Errorf("failed to override %s.%s: %w", name, attr, err)
	}

	e.Stops = stops
	l.effects[name] = e
	l.compiled[name] = def
	return nil
}

// CreateParticleEffect starts an emitter of the named effect centered on
// (worldX, worldY).
//
// Parameters:
//   - ps: ParticleSystem that owns the emitter
//   - lib: EffectLibrary holding the effect definitions
//   - effectName: Name of the particle effect (e.g., "fire", "burst")
//   - worldX, worldY: World coordinates of the emitter footprint center
//
// Returns:
//   - *components.EmitterComponent: The created emitter
//   - error: Error if the effect is unknown or the emitter is rejected
//
// Example:
//
//	emitter, err := CreateParticleEffect(particleSystem, library, "fire", 400, 300)
//	if err != nil {
//	    log.Printf("Failed to create particle effect: %v", err)
//	}
func CreateParticleEffect(ps *systems.ParticleSystem, lib *EffectLibrary, effectName string, worldX, worldY float64) (*components.EmitterComponent, error) {
	def, err := lib.Definition(effectName)
	if err != nil {
		return nil, err
	}

	e := lib.effects[effectName]
	cfg := e.Emitter
	cfg.Particle = def
	cfg.X = worldX - cfg.Width/2
	cfg.Y = worldY - cfg.Height/2

	emitter, err := ps.CreateEmitter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create emitter for '%s': %w", effectName, err)
	}
	return emitter, nil
}
