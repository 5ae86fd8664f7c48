package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/taxon"
)

// ParamEdit is a partial update to one parameter. Nil fields are left
// unchanged.
type ParamEdit struct {
	TargetValue  *float64 `json:"target_value,omitempty"`
	MinThreshold *float64 `json:"min_threshold,omitempty"`
	MaxThreshold *float64 `json:"max_threshold,omitempty"`
	Tolerance    *float64 `json:"tolerance,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
}

// ChangeSet lists the edits Modify applies to derive a candidate version.
type ChangeSet struct {
	Morphometric  map[string]ParamEdit `json:"morphometric,omitempty"`
	Technological map[string]ParamEdit `json:"technological,omitempty"`
	SetGates      map[string]bool      `json:"set_gates,omitempty"`
	RemoveGates   []string             `json:"remove_gates,omitempty"`
}

// Modify derives a new version of a registered class.
//
// The change set is applied to a copy of the existing definition and the
// content hash recomputed. When the candidate hash equals the existing one
// the call is a no-op and returns the original definition: editing a class
// back to its original values never creates spurious versions. Otherwise
// the candidate receives the next version suffix for the class's base id
// (first modification of "x" yields "x_v2"), is registered alongside the
// original — history is never deleted — and a change record links old to
// new.
//
// Justification and operator are mandatory.
func (r *Registry) Modify(classID string, changes ChangeSet, justification, operator string) (*taxon.ClassDefinition, error) {
	if justification == "" || operator == "" {
		return nil, errors.Newf("modifying class %q: justification and operator are mandatory", classID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.classes[classID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownClassID, "class %q", classID)
	}

	candidate, err := old.def.Derive(func(def *taxon.ClassDefinition) error {
		if err := applyEdits(classID, def.Morphometric, changes.Morphometric, "morphometric"); err != nil {
			return err
		}
		if err := applyEdits(classID, def.Technological, changes.Technological, "technological"); err != nil {
			return err
		}
		for gate, required := range changes.SetGates {
			def.OptionalFeatures[gate] = required
		}
		for _, gate := range changes.RemoveGates {
			delete(def.OptionalFeatures, gate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if candidate.ContentHash == old.def.ContentHash {
		r.log.Debugw("modify is a no-op, content hash unchanged",
			"class_id", classID, "content_hash", old.def.ContentHash)
		return old.def, nil
	}

	base := baseClassID(classID)
	candidate.ClassID = fmt.Sprintf("%s_v%d", base, r.nextVersionLocked(base))
	candidate.CreatedAt = time.Now().UTC()
	candidate.CreatedBy = operator

	if err := r.registerLocked(candidate, classID); err != nil {
		return nil, err
	}
	old.supersededBy = candidate.ClassID

	rec := ChangeRecord{
		ID:            uuid.NewString(),
		FromClassID:   classID,
		ToClassID:     candidate.ClassID,
		Justification: justification,
		Operator:      operator,
		Timestamp:     candidate.CreatedAt,
	}
	r.changes = append(r.changes, rec)

	r.log.Infow("class version created",
		"from", classID,
		"to", candidate.ClassID,
		"old_hash", old.def.ContentHash,
		"new_hash", candidate.ContentHash,
		"operator", operator)

	return candidate, nil
}

func applyEdits(classID string, params map[string]taxon.Parameter, edits map[string]ParamEdit, namespace string) error {
	for name, edit := range edits {
		p, ok := params[name]
		if !ok {
			return errors.Wrapf(ErrUnknownParameter,
				"class %q has no %s parameter %q", classID, namespace, name)
		}
		if edit.TargetValue != nil {
			p.TargetValue = *edit.TargetValue
		}
		if edit.MinThreshold != nil {
			p.MinThreshold = *edit.MinThreshold
		}
		if edit.MaxThreshold != nil {
			p.MaxThreshold = *edit.MaxThreshold
		}
		if edit.Tolerance != nil {
			p.Tolerance = *edit.Tolerance
		}
		if edit.Weight != nil {
			p.Weight = *edit.Weight
		}
		params[name] = p
	}
	return nil
}

// baseClassID strips a trailing version suffix (_v2, _v3, ...) so that
// repeated modification chains share one version counter.
func baseClassID(classID string) string {
	i := strings.LastIndex(classID, "_v")
	if i <= 0 {
		return classID
	}
	if _, err := strconv.Atoi(classID[i+2:]); err != nil {
		return classID
	}
	return classID[:i]
}

// versionOrdinal returns the ordinal a class id holds within its base
// lineage: the base itself is ordinal 1, base_vN is N.
func versionOrdinal(classID, base string) (int, bool) {
	if classID == base {
		return 1, true
	}
	if !strings.HasPrefix(classID, base+"_v") {
		return 0, false
	}
	n, err := strconv.Atoi(classID[len(base)+2:])
	if err != nil || n < 2 {
		return 0, false
	}
	return n, true
}

// nextVersionLocked allocates the next version ordinal for a base id.
// Callers hold the write lock, so two concurrent modifications can never
// be assigned the same suffix.
func (r *Registry) nextVersionLocked(base string) int {
	highest := 1
	for id := range r.classes {
		if n, ok := versionOrdinal(id, base); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}
