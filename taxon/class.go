package taxon

import (
	"sort"
	"time"

	"github.com/montelab/taxon/errors"
)

// DefaultConfidenceThreshold is the minimum aggregate confidence for
// membership when the caller does not override it.
const DefaultConfidenceThreshold = 0.75

// ClassDefinition is an immutable, content-hashed taxonomic class.
//
// Morphometric and technological parameters are scored identically; the
// two namespaces exist for reporting only. OptionalFeatures are boolean
// hard gates: an artifact whose corresponding feature does not equal the
// required value is rejected regardless of dimensional fit.
//
// ContentHash is a pure function of the parameter content (both parameter
// namespaces plus the gates) — never of ClassID, timestamps, provenance,
// or validated samples. It is the identity used to detect whether an edit
// actually changed anything.
type ClassDefinition struct {
	ClassID             string               `json:"class_id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Morphometric        map[string]Parameter `json:"morphometric_params"`
	Technological       map[string]Parameter `json:"technological_params"`
	OptionalFeatures    map[string]bool      `json:"optional_features"`
	ConfidenceThreshold float64              `json:"confidence_threshold"`
	CreatedAt           time.Time            `json:"created_at"`
	CreatedBy           string               `json:"created_by"`
	ValidatedSamples    []string             `json:"validated_samples"`
	ContentHash         string               `json:"content_hash"`
}

// Spec carries the caller-supplied fields of a class definition. New
// validates it, copies the maps, and stamps the content hash.
type Spec struct {
	ClassID             string
	Name                string
	Description         string
	Morphometric        map[string]Parameter
	Technological       map[string]Parameter
	OptionalFeatures    map[string]bool
	ConfidenceThreshold float64 // 0 means DefaultConfidenceThreshold
	CreatedAt           time.Time
	CreatedBy           string
	ValidatedSamples    []string
}

// New builds an immutable ClassDefinition from a Spec. The input maps are
// copied, so later mutation of the Spec cannot leak into the definition.
func New(spec Spec) (*ClassDefinition, error) {
	if spec.ClassID == "" {
		return nil, errors.New("class id must not be empty")
	}
	if spec.Name == "" {
		return nil, errors.New("class name must not be empty")
	}

	threshold := spec.ConfidenceThreshold
	if threshold == 0 {
		threshold = DefaultConfidenceThreshold
	}
	if threshold <= 0 || threshold > 1 {
		return nil, errors.Newf("class %q: confidence threshold %v outside (0,1]", spec.ClassID, threshold)
	}

	morpho, err := copyParams(spec.ClassID, spec.Morphometric)
	if err != nil {
		return nil, err
	}
	techno, err := copyParams(spec.ClassID, spec.Technological)
	if err != nil {
		return nil, err
	}

	gates := make(map[string]bool, len(spec.OptionalFeatures))
	for k, v := range spec.OptionalFeatures {
		gates[k] = v
	}

	createdAt := spec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	samples := make([]string, len(spec.ValidatedSamples))
	copy(samples, spec.ValidatedSamples)

	def := &ClassDefinition{
		ClassID:             spec.ClassID,
		Name:                spec.Name,
		Description:         spec.Description,
		Morphometric:        morpho,
		Technological:       techno,
		OptionalFeatures:    gates,
		ConfidenceThreshold: threshold,
		CreatedAt:           createdAt,
		CreatedBy:           spec.CreatedBy,
		ValidatedSamples:    samples,
	}
	def.ContentHash = ContentHash(def)
	return def, nil
}

// Parameters returns every parameter from both namespaces in sorted name
// order.
func (c *ClassDefinition) Parameters() []Parameter {
	params := make([]Parameter, 0, len(c.Morphometric)+len(c.Technological))
	for _, p := range c.Morphometric {
		params = append(params, p)
	}
	for _, p := range c.Technological {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	return params
}

// Parameter looks up a parameter by name across both namespaces.
// Morphometric wins if both namespaces carry the name.
func (c *ClassDefinition) Parameter(name string) (Parameter, bool) {
	if p, ok := c.Morphometric[name]; ok {
		return p, true
	}
	p, ok := c.Technological[name]
	return p, ok
}

// clone produces a deep copy used by the registry when deriving versions.
func (c *ClassDefinition) clone() *ClassDefinition {
	out := *c
	out.Morphometric = make(map[string]Parameter, len(c.Morphometric))
	for k, v := range c.Morphometric {
		out.Morphometric[k] = v
	}
	out.Technological = make(map[string]Parameter, len(c.Technological))
	for k, v := range c.Technological {
		out.Technological[k] = v
	}
	out.OptionalFeatures = make(map[string]bool, len(c.OptionalFeatures))
	for k, v := range c.OptionalFeatures {
		out.OptionalFeatures[k] = v
	}
	out.ValidatedSamples = make([]string, len(c.ValidatedSamples))
	copy(out.ValidatedSamples, c.ValidatedSamples)
	return &out
}

// Derive returns a deep copy of the definition with caller edits applied
// by fn, revalidated and rehashed. The receiver is left untouched.
func (c *ClassDefinition) Derive(fn func(*ClassDefinition) error) (*ClassDefinition, error) {
	out := c.clone()
	if err := fn(out); err != nil {
		return nil, err
	}
	for name, p := range out.Morphometric {
		p.Name = name
		out.Morphometric[name] = p
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "class %q", c.ClassID)
		}
	}
	for name, p := range out.Technological {
		p.Name = name
		out.Technological[name] = p
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "class %q", c.ClassID)
		}
	}
	out.ContentHash = ContentHash(out)
	return out, nil
}

func copyParams(classID string, in map[string]Parameter) (map[string]Parameter, error) {
	out := make(map[string]Parameter, len(in))
	for name, p := range in {
		if p.Name == "" {
			p.Name = name
		} else if p.Name != name {
			return nil, errors.Newf("class %q: parameter keyed %q but named %q", classID, name, p.Name)
		}
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "class %q", classID)
		}
		out[name] = p
	}
	return out, nil
}
