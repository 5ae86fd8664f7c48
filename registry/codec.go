package registry

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/taxon"
)

// FormatVersion is the version of the export document format. The format
// is the only externally observable artifact of the engine; imports accept
// any document whose major version matches.
const FormatVersion = "1.0.0"

// ClassRecord is one exported class: every classification-relevant
// ClassDefinition field plus the registry's supersession links.
type ClassRecord struct {
	taxon.ClassDefinition
	Supersedes   string `json:"supersedes,omitempty"`
	SupersededBy string `json:"superseded_by,omitempty"`
}

// Document is the portable serialized form of a registry. Classes appear
// in registration order. Round-tripping a document reproduces identical
// content hashes and classification outcomes.
type Document struct {
	FormatVersion string         `json:"format_version"`
	ExportedAt    time.Time      `json:"exported_at"`
	Classes       []ClassRecord  `json:"classes"`
	Changes       []ChangeRecord `json:"changes"`
}

// Export snapshots the registry into a portable document.
func (r *Registry) Export() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := &Document{
		FormatVersion: FormatVersion,
		ExportedAt:    time.Now().UTC(),
		Classes:       make([]ClassRecord, 0, len(r.order)),
		Changes:       make([]ChangeRecord, len(r.changes)),
	}
	for _, id := range r.order {
		e := r.classes[id]
		doc.Classes = append(doc.Classes, ClassRecord{
			ClassDefinition: *e.def,
			Supersedes:      e.supersedes,
			SupersededBy:    e.supersededBy,
		})
	}
	copy(doc.Changes, r.changes)
	return doc
}

// Import loads a document into the registry. The whole document is
// validated first — format version compatibility, parameter invariants,
// duplicate ids, and content-hash consistency — and rejected wholesale on
// any failure, leaving the in-memory state untouched. A tampered or
// corrupted taxonomy file is never partially trusted.
func (r *Registry) Import(doc *Document) error {
	if err := checkFormatVersion(doc.FormatVersion); err != nil {
		return err
	}

	// Rebuild every class through the validating constructor before
	// touching registry state.
	rebuilt := make([]*taxon.ClassDefinition, 0, len(doc.Classes))
	seen := make(map[string]bool, len(doc.Classes))
	for i, rec := range doc.Classes {
		if rec.ClassID == "" {
			return errors.Wrapf(ErrMalformedImport, "class record %d has no class_id", i)
		}
		if seen[rec.ClassID] {
			return errors.Wrapf(ErrMalformedImport, "class %q appears twice", rec.ClassID)
		}
		seen[rec.ClassID] = true

		if rec.ConfidenceThreshold <= 0 || rec.ConfidenceThreshold > 1 {
			return errors.Wrapf(ErrMalformedImport,
				"class %q: confidence threshold %v outside (0,1]", rec.ClassID, rec.ConfidenceThreshold)
		}

		def, err := taxon.New(taxon.Spec{
			ClassID:             rec.ClassID,
			Name:                rec.Name,
			Description:         rec.Description,
			Morphometric:        rec.Morphometric,
			Technological:       rec.Technological,
			OptionalFeatures:    rec.OptionalFeatures,
			ConfidenceThreshold: rec.ConfidenceThreshold,
			CreatedAt:           rec.CreatedAt,
			CreatedBy:           rec.CreatedBy,
			ValidatedSamples:    rec.ValidatedSamples,
		})
		if err != nil {
			return errors.Wrapf(errors.CombineErrors(ErrMalformedImport, err),
				"class %q", rec.ClassID)
		}
		if def.ContentHash != rec.ContentHash {
			return errors.Wrapf(ErrMalformedImport,
				"class %q: stored content hash %s does not match recomputed %s",
				rec.ClassID, rec.ContentHash, def.ContentHash)
		}
		rebuilt = append(rebuilt, def)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, def := range rebuilt {
		if _, exists := r.classes[def.ClassID]; exists {
			return errors.Wrapf(ErrDuplicateClassID, "imported class %q", def.ClassID)
		}
	}

	for i, def := range rebuilt {
		rec := doc.Classes[i]
		r.classes[def.ClassID] = &entry{
			def:          def,
			supersedes:   rec.Supersedes,
			supersededBy: rec.SupersededBy,
		}
		r.order = append(r.order, def.ClassID)
	}
	r.changes = append(r.changes, doc.Changes...)

	r.log.Infow("taxonomy imported",
		"classes", len(rebuilt),
		"changes", len(doc.Changes),
		"format_version", doc.FormatVersion)

	return nil
}

// ExportToFile writes the registry's export document as indented JSON.
func (r *Registry) ExportToFile(path string) error {
	data, err := json.MarshalIndent(r.Export(), "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding taxonomy export")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing taxonomy export to %s", path)
	}
	return nil
}

// ImportFromFile reads and imports an export document. Parse and
// validation failures leave the registry untouched.
func (r *Registry) ImportFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading taxonomy file %s", path)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(errors.CombineErrors(ErrMalformedImport, err),
			"parsing taxonomy file %s", path)
	}
	return r.Import(&doc)
}

func checkFormatVersion(v string) error {
	if v == "" {
		return errors.Wrap(ErrMalformedImport, "document has no format_version")
	}
	got, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(errors.CombineErrors(ErrMalformedImport, err),
			"invalid format_version %q", v)
	}
	want := semver.MustParse(FormatVersion)
	if got.Major() != want.Major() {
		return errors.Wrapf(ErrMalformedImport,
			"format_version %s is incompatible with supported %s", v, FormatVersion)
	}
	return nil
}
