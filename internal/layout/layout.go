// Package layout plans the byte layout of an output file before any bytes
// are emitted.
package layout

import "fmt"

// Section is one reserved region of the planned file.
type Section struct {
	Offset uint32
	Size   uint32
	Tag    string // optional, for diagnostics
}

// Planner hands out consecutive file offsets for the sections of an output
// file. Offsets are final once reserved: the emitter must write sections in
// reservation order, so the whole file can be laid out before the first
// byte exists.
type Planner struct {
	base     uint32
	next     uint32
	sections []Section
}

// New creates a Planner whose first reservation starts at base
// (typically right after the fixed file header).
func New(base uint32) *Planner {
	return &Planner{base: base, next: base}
}

// Reserve reserves size bytes and returns their start offset.
func (p *Planner) Reserve(size uint32) uint32 {
	return p.ReserveTagged(size, "")
}

// ReserveTagged reserves size bytes with a diagnostic tag.
func (p *Planner) ReserveTagged(size uint32, tag string) uint32 {
	off := p.next
	p.next += size
	p.sections = append(p.sections, Section{Offset: off, Size: size, Tag: tag})
	return off
}

// Total returns the end offset of the plan, i.e. the final file size when
// the plan starts at offset 0 or follows a header of base bytes.
func (p *Planner) Total() uint32 {
	return p.next
}

// Sections returns a copy of all reservations made, in order.
func (p *Planner) Sections() []Section {
	out := make([]Section, len(p.sections))
	copy(out, p.sections)
	return out
}

// Validate checks that the reservations tile the planned range with no gaps
// or overlaps.
func (p *Planner) Validate() error {
	pos := p.base
	for _, s := range p.sections {
		if s.Offset != pos {
			return fmt.Errorf("section %q at 0x%x, expected 0x%x", s.Tag, s.Offset, pos)
		}
		pos += s.Size
	}
	if pos != p.next {
		return fmt.Errorf("plan ends at 0x%x, expected 0x%x", pos, p.next)
	}
	return nil
}
