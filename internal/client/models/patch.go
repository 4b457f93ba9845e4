package models

// Patch is a sparse set of field assignments produced by the record
// translator. A nil pointer means "leave the local value alone"; it is never
// a partial object masquerading as a complete one.
type Patch struct {
	Name      *string
	Species   *string
	Breed     *string
	BirthDate *string
	Notes     *string
}

// Apply copies the set fields onto rec. Timestamps and sync bookkeeping are
// the merge engine's business, not the patch's.
func (p Patch) Apply(rec *Record) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Species != nil {
		rec.Species = *p.Species
	}
	if p.Breed != nil {
		rec.Breed = *p.Breed
	}
	if p.BirthDate != nil {
		rec.BirthDate = *p.BirthDate
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
}

// IsEmpty reports whether the patch assigns nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Species == nil && p.Breed == nil &&
		p.BirthDate == nil && p.Notes == nil
}
