package particle

// Particle is the mutable state of one live particle.
//
// Records are stored by value in the particle pool; the compiled Definition
// and composite string are shared, the sampled value buffer is owned.
type Particle struct {
	Age    float64 // frames elapsed
	MaxAge float64 // frames

	Size float64

	VelocityX, VelocityY float64
	GravityX, GravityY   float64

	// Color channels in 0-255, alpha in 0-1.
	R, G, B float64
	A       float64

	X, Y float64

	Composite string

	def    *Definition
	values []float64
}

// Slot names a numeric field of Particle. The order follows the record layout.
type Slot uint8

const (
	SlotAge Slot = iota
	SlotMaxAge
	SlotSize
	SlotVelocityX
	SlotVelocityY
	SlotGravityX
	SlotGravityY
	SlotR
	SlotG
	SlotB
	SlotA
	SlotX
	SlotY

	slotCount
)

// noSlot marks attributes that are not interpolated.
const noSlot Slot = slotCount

// attributeSlots is the attribute → record slot table shared by the compiler
// and Program. Attributes mapped to noSlot only feed the initializer.
var attributeSlots = [attributeCount]Slot{
	AttrDuration:         noSlot,
	AttrSize:             SlotSize,
	AttrSpeed:            noSlot,
	AttrDirection:        noSlot,
	AttrGravity:          noSlot,
	AttrGravityDirection: noSlot,
	AttrR:                SlotR,
	AttrG:                SlotG,
	AttrB:                SlotB,
	AttrA:                SlotA,
	AttrComposite:        noSlot,
}

// Get returns the value stored in slot s.
func (p *Particle) Get(s Slot) float64 {
	return *p.field(s)
}

// Set stores v in slot s.
func (p *Particle) Set(s Slot, v float64) {
	*p.field(s) = v
}

func (p *Particle) field(s Slot) *float64 {
	switch s {
	case SlotAge:
		return &p.Age
	case SlotMaxAge:
		return &p.MaxAge
	case SlotSize:
		return &p.Size
	case SlotVelocityX:
		return &p.VelocityX
	case SlotVelocityY:
		return &p.VelocityY
	case SlotGravityX:
		return &p.GravityX
	case SlotGravityY:
		return &p.GravityY
	case SlotR:
		return &p.R
	case SlotG:
		return &p.G
	case SlotB:
		return &p.B
	case SlotA:
		return &p.A
	case SlotX:
		return &p.X
	case SlotY:
		return &p.Y
	}
	panic("particle: invalid slot")
}

// Definition returns the compiled definition the particle was initialised from.
func (p *Particle) Definition() *Definition {
	return p.def
}

// Advance runs the definition's program for the current age. It does not
// increment Age; the simulation step does that after Advance.
func (p *Particle) Advance() {
	if p.def == nil {
		p.integrate()
		return
	}
	p.def.program.Run(p)
}

// Expired reports whether the particle has reached its maximum age.
func (p *Particle) Expired() bool {
	return p.Age >= p.MaxAge
}

// Percent returns lifetime progress in [0, 100]-ish units: Age/MaxAge*100.
// Particles with no lifetime report 100.
func (p *Particle) Percent() float64 {
	if p.MaxAge <= 0 {
		return 100
	}
	return p.Age / p.MaxAge * 100
}

func (p *Particle) integrate() {
	p.VelocityX += p.GravityX
	p.VelocityY += p.GravityY
	p.X += p.VelocityX
	p.Y += p.VelocityY
}
