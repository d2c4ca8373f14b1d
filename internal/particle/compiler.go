package particle

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// defaultMaxAge is the particle lifetime in frames when the first stop sets no duration.
const defaultMaxAge = 10

// Definition is a compiled stop list: the authored value buffer, the
// interpolation Program and the bound particle shape. It is immutable after
// Compile and shared by every particle spawned from it.
type Definition struct {
	shape   string
	render  ShapeFunc
	values  []Value
	program Program

	// first[a] is the buffer index of attribute a on the first stop, -1 when
	// the attribute does not live in the buffer (duration, composite).
	first [attributeCount]int

	duration    Value
	hasDuration bool
	composite   Value
}

// stop0Defaults are applied to the first stop for every numeric attribute it omits.
var stop0Defaults = [attributeCount]float64{
	AttrSize: 1,
	AttrA:    1,
}

type mark struct {
	set    bool
	offset float64
	index  int
}

type span struct {
	from, to float64
}

// Compile lowers stops into a Definition drawn with the named particle shape.
//
// Stops are walked in authored order. Every numeric value is appended to the
// value buffer; when a later stop redefines an attribute, an interval from
// the previous definition to this one is emitted. Intervals sharing the same
// offsets are merged, then sorted by their end offset (stable).
//
// A nil registry means DefaultRegistry().
func Compile(reg *Registry, shape string, stops []Stop) (*Definition, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	render, err := reg.ParticleShape(shape)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		shape:     shape,
		render:    render,
		composite: Str(CompositeSourceOver),
	}
	for i := range def.first {
		def.first[i] = -1
	}

	if len(stops) == 0 {
		stops = []Stop{{}}
	}

	var last [attributeCount]mark
	var intervals []Interval
	bySpan := make(map[span]int)

	for si, stop := range stops {
		offset := stop.Offset
		if si == 0 {
			offset = 0
		}

		var present [attributeCount]bool
		var vals [attributeCount]Value
		for name, v := range stop.Attrs {
			a, ok := LookupAttribute(name)
			if !ok {
				return nil, fmt.Errorf("stop %d: %w %q", si, ErrUnknownAttribute, name)
			}
			present[a] = true
			vals[a] = v
		}

		if si == 0 {
			for a := Attribute(0); a < attributeCount; a++ {
				if present[a] || a == AttrDuration || a == AttrComposite {
					continue
				}
				present[a] = true
				vals[a] = Const(stop0Defaults[a])
			}
		}

		for a := Attribute(0); a < attributeCount; a++ {
			if !present[a] {
				continue
			}
			v := vals[a]

			switch {
			case si > 0 && attributeSlots[a] == noSlot:
				return nil, fmt.Errorf("stop %d: %w: %s", si, ErrStopZeroOnly, a)
			case a == AttrComposite:
				if err := checkComposite(v); err != nil {
					return nil, fmt.Errorf("stop %d: %w", si, err)
				}
				def.composite = v
				continue
			case v.IsString():
				return nil, fmt.Errorf("stop %d: %w: %s=%s", si, ErrValueType, a, v)
			case a == AttrDuration:
				def.duration = v
				def.hasDuration = true
				continue
			}

			index := len(def.values)
			def.values = append(def.values, v)
			if si == 0 {
				def.first[a] = index
			}

			if prev := last[a]; prev.set {
				key := span{from: prev.offset, to: offset}
				assign := Assignment{Slot: attributeSlots[a], From: prev.index, To: index}
				if n, ok := bySpan[key]; ok {
					intervals[n].Assignments = append(intervals[n].Assignments, assign)
				} else {
					bySpan[key] = len(intervals)
					intervals = append(intervals, Interval{From: key.from, To: key.to, Assignments: []Assignment{assign}})
				}
			}
			last[a] = mark{set: true, offset: offset, index: index}
		}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].To < intervals[j].To
	})
	def.program = Program{Intervals: intervals}

	return def, nil
}

func checkComposite(v Value) error {
	if !v.IsString() {
		return fmt.Errorf("%w: composite=%s", ErrValueType, v)
	}
	for _, op := range v.options() {
		if !IsComposite(op) {
			return fmt.Errorf("%w %q", ErrUnknownComposite, op)
		}
	}
	return nil
}

// Init resets p to a freshly spawned particle: the value buffer is sampled
// once, age is zero, and velocity, gravity, size, color and composite come
// from the first stop. Position is left at zero for the emitter to place.
func (d *Definition) Init(p *Particle) {
	values := make([]float64, len(d.values))
	for i, v := range d.values {
		values[i] = v.Sample()
	}

	*p = Particle{def: d, values: values}

	p.MaxAge = defaultMaxAge
	if d.hasDuration {
		p.MaxAge = math.Round(d.duration.Sample())
	}

	speed := d.initial(values, AttrSpeed)
	direction := d.initial(values, AttrDirection) * math.Pi / 180
	// 屏幕坐标系 Y 轴向下，角度按逆时针计算
	p.VelocityX = math.Cos(direction) * speed
	p.VelocityY = -math.Sin(direction) * speed

	gravity := d.initial(values, AttrGravity)
	gravityDirection := d.initial(values, AttrGravityDirection) * math.Pi / 180
	p.GravityX = math.Cos(gravityDirection) * gravity
	p.GravityY = -math.Sin(gravityDirection) * gravity

	p.Size = d.initial(values, AttrSize)
	p.R = d.initial(values, AttrR)
	p.G = d.initial(values, AttrG)
	p.B = d.initial(values, AttrB)
	p.A = d.initial(values, AttrA)

	p.Composite = d.composite.SampleString()
}

func (d *Definition) initial(values []float64, a Attribute) float64 {
	if i := d.first[a]; i >= 0 {
		return values[i]
	}
	return stop0Defaults[a]
}

// Shape returns the particle shape name the definition draws with.
func (d *Definition) Shape() string {
	return d.shape
}

// Program returns the compiled interpolation program.
func (d *Definition) Program() *Program {
	return &d.program
}

// Render draws one particle with the bound shape function.
func (d *Definition) Render(c Canvas, x, y, size float64, col color.RGBA) {
	d.render(c, x, y, size, col)
}
