package invalidator

import (
	"fmt"
)

// Cache keys are structural, not hashed: every derived key names the exact
// owner-scoped read path it caches. The scheme is owned by this package alone;
// call sites hand over domain ids and never build keys themselves.
//
//	labels:{ownerID}                 label list of an owner
//	notes:{ownerID}:{noteID}         note detail
//	notes:{ownerID}:{labelID}        notes linked to a label
//	notes:{ownerID}:{arch}:{trash}   filtered note list, "null" for no filter

// LabelListKey returns the cache key of an owner's label list.
func LabelListKey(ownerID int32) string {
	return fmt.Sprintf("labels:%d", ownerID)
}

// NoteDetailKey returns the cache key of a single note read.
func NoteDetailKey(ownerID, noteID int32) string {
	return fmt.Sprintf("notes:%d:%d", ownerID, noteID)
}

// NotesByLabelKey returns the cache key of a notes-by-label list.
func NotesByLabelKey(ownerID, labelID int32) string {
	return fmt.Sprintf("notes:%d:%d", ownerID, labelID)
}

// NoteListKey returns the cache key of a filtered note list. A nil filter is
// rendered as "null" so the unfiltered list gets its own key.
func NoteListKey(ownerID int32, archived, trashed *bool) string {
	return fmt.Sprintf("notes:%d:%s:%s", ownerID, formatFilter(archived), formatFilter(trashed))
}

func formatFilter(v *bool) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%t", *v)
}

// noteListKeys returns the keys of every filtered list combination the API
// exposes for an owner: active, archived, trashed and the unfiltered list.
func noteListKeys(ownerID int32) []string {
	tr, fa := true, false
	return []string{
		NoteListKey(ownerID, &tr, &fa),
		NoteListKey(ownerID, &fa, &tr),
		NoteListKey(ownerID, &fa, &fa),
		NoteListKey(ownerID, nil, nil),
	}
}
