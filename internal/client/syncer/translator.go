// Package syncer contains the pull-side synchronization core: translating
// remote field bags into local records, merging change batches under
// last-writer-wins, resolving the set of zones to visit, and orchestrating
// incremental fetch passes with token-expiry recovery.
package syncer

import "github.com/akarpov88/petkeeper/internal/client/models"

// Remote field bag keys. All stringly-typed access to remote records lives
// here; the merge algorithm never touches raw field names.
const (
	fieldUUID      = "uuid"
	fieldName      = "name"
	fieldSpecies   = "species"
	fieldBreed     = "breed"
	fieldBirthDate = "birth_date"
	fieldNotes     = "notes"
)

// Translator maps a remote record's untyped field bag to and from the local
// record schema. Pure mapping, no I/O.
type Translator struct{}

// UUID extracts the record's process-independent identity from the field
// bag. Legacy records carry no uuid field; for those the backing-store
// record name and the UUID coincide.
func (Translator) UUID(rr models.RemoteRecord) string {
	if v, ok := rr.Fields[fieldUUID].(string); ok && v != "" {
		return v
	}
	return rr.RecordName
}

// ToPatch builds a sparse patch from the field bag. Keys missing from the
// bag produce nil assignments so existing local values survive; unknown keys
// are ignored.
func (Translator) ToPatch(rr models.RemoteRecord) models.Patch {
	return models.Patch{
		Name:      stringField(rr.Fields, fieldName),
		Species:   stringField(rr.Fields, fieldSpecies),
		Breed:     stringField(rr.Fields, fieldBreed),
		BirthDate: stringField(rr.Fields, fieldBirthDate),
		Notes:     stringField(rr.Fields, fieldNotes),
	}
}

// ToFields is the inverse mapping, kept symmetric with ToPatch so a record
// round-tripped through remote storage is loss-free for every schema field.
// The push direction itself lives outside this engine.
func (Translator) ToFields(rec models.Record) map[string]any {
	return map[string]any{
		fieldUUID:      rec.ID,
		fieldName:      rec.Name,
		fieldSpecies:   rec.Species,
		fieldBreed:     rec.Breed,
		fieldBirthDate: rec.BirthDate,
		fieldNotes:     rec.Notes,
	}
}

func stringField(bag map[string]any, key string) *string {
	v, ok := bag[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
