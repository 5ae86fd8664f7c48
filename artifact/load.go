package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/montelab/taxon/errors"
)

// Feature documents are flat maps produced by the mesh feature extractor:
//
//	{"id": "axe974", "length": 165.3, "incavo_presente": true, ...}
//
// The "id" key names the artifact; every other key must be a number or a
// boolean. String-valued keys (free-text annotations from older extractor
// versions) are dropped rather than coerced.

// Decode converts a raw document map into an Artifact. fallbackID is used
// when the document carries no "id" key.
func Decode(doc map[string]any, fallbackID string) (Artifact, error) {
	a := Artifact{ID: fallbackID, Features: make(Features, len(doc))}

	for key, raw := range doc {
		if key == "id" {
			if s, ok := raw.(string); ok {
				a.ID = s
				continue
			}
			return Artifact{}, errors.Newf("artifact id must be a string, got %T", raw)
		}

		switch v := raw.(type) {
		case float64:
			a.Features[key] = Number(v)
		case float32:
			a.Features[key] = Number(float64(v))
		case int:
			a.Features[key] = Number(float64(v))
		case int64:
			a.Features[key] = Number(float64(v))
		case uint64:
			a.Features[key] = Number(float64(v))
		case bool:
			a.Features[key] = Bool(v)
		case string, nil:
			// free-text annotation or explicit null: not a measurement
		default:
			return Artifact{}, errors.Newf("feature %q has unsupported type %T", key, raw)
		}
	}

	return a, nil
}

// LoadFile reads a single artifact feature document from a JSON or YAML
// file. The format is chosen by extension (.yaml/.yml vs anything else).
func LoadFile(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "reading artifact file %s", path)
	}

	var doc map[string]any
	if err := unmarshal(path, data, &doc); err != nil {
		return Artifact{}, err
	}

	a, err := Decode(doc, baseID(path))
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "decoding artifact file %s", path)
	}
	return a, nil
}

// LoadGroupFile reads a reference group: a JSON array or YAML list of
// artifact feature documents. Artifacts without an "id" key receive
// positional ref_<i> identifiers.
func LoadGroupFile(path string) ([]Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading reference group file %s", path)
	}

	var docs []map[string]any
	if err := unmarshal(path, data, &docs); err != nil {
		return nil, err
	}

	group := make([]Artifact, 0, len(docs))
	for i, doc := range docs {
		a, err := Decode(doc, fmt.Sprintf("ref_%d", i))
		if err != nil {
			return nil, errors.Wrapf(err, "decoding reference object %d in %s", i, path)
		}
		group = append(group, a)
	}
	return group, nil
}

func unmarshal(path string, data []byte, out any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "parsing YAML in %s", path)
		}
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "parsing JSON in %s", path)
		}
	}
	return nil
}

func baseID(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
