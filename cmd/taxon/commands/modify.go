package commands

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/registry"
	"github.com/montelab/taxon/taxon"
)

var (
	modifySets          []string
	modifyGates         []string
	modifyRemoveGates   []string
	modifyJustification string
	modifyOperator      string
)

// ModifyCmd derives a new version of a registered class.
var ModifyCmd = &cobra.Command{
	Use:   "modify CLASS_ID",
	Short: "Derive a new version of a registered class",
	Long: `modify — Derive a new, versioned class from a registered one.

Classes are immutable; modify never edits in place. It applies the given
edits to a copy, recomputes the content hash, and registers the result
under the next version id (savignano-type becomes savignano-type_v2). The
old class stays registered and queryable. A justification and operator are
mandatory; both go into the audit trail.

Edits name a parameter field as parameter.field=value, where field is one
of target, min, max, tolerance, weight.

Examples:
  taxon modify savignano-type --set incavo_larghezza.tolerance=12 \
      --justification "new finds widen the socket range" --operator mr
  taxon modify savignano-type --gate tagliente_espanso=false \
      --justification "gate too strict for fragments" --operator mr`,
	Args: cobra.ExactArgs(1),
	RunE: runModify,
}

func init() {
	ModifyCmd.Flags().StringArrayVar(&modifySets, "set", nil, "parameter edit, parameter.field=value (repeatable)")
	ModifyCmd.Flags().StringArrayVar(&modifyGates, "gate", nil, "set a boolean gate, name=true|false (repeatable)")
	ModifyCmd.Flags().StringArrayVar(&modifyRemoveGates, "remove-gate", nil, "remove a boolean gate (repeatable)")
	ModifyCmd.Flags().StringVar(&modifyJustification, "justification", "", "why the class is changing (required)")
	ModifyCmd.Flags().StringVar(&modifyOperator, "operator", "", "who is changing it (default from config)")
	ModifyCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
	ModifyCmd.MarkFlagRequired("justification")
}

func runModify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	operator := modifyOperator
	if operator == "" {
		operator = cfg.Builder.Operator
	}

	reg, path, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	classID := args[0]
	def, err := reg.Get(classID)
	if err != nil {
		return err
	}

	changes, err := buildChangeSet(def.Morphometric, modifySets, modifyGates, modifyRemoveGates)
	if err != nil {
		return err
	}

	next, err := reg.Modify(classID, *changes, modifyJustification, operator)
	if err != nil {
		return err
	}
	if next.ClassID == classID {
		pterm.Info.Printf("No effective change; %s keeps hash %s\n", classID, next.ContentHash)
		return nil
	}
	if err := saveRegistry(reg, path); err != nil {
		return err
	}

	pterm.Success.Printf("Derived %s (hash %s) superseding %s\n",
		next.ClassID, next.ContentHash, classID)
	return nil
}

// buildChangeSet parses the flag syntax into a registry change set. Edits
// for names present in the morphometric namespace go there; everything
// else is routed to the technological namespace and left for Modify to
// reject if unknown.
func buildChangeSet(morphometric map[string]taxon.Parameter, sets, gates, removeGates []string) (*registry.ChangeSet, error) {
	changes := &registry.ChangeSet{}

	for _, raw := range sets {
		spec, val, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, errors.Newf("invalid --set %q, expected parameter.field=value", raw)
		}
		name, field, ok := strings.Cut(spec, ".")
		if !ok {
			return nil, errors.Newf("invalid --set %q, expected parameter.field=value", raw)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value in --set %q", raw)
		}

		target := &changes.Technological
		if _, ok := morphometric[name]; ok {
			target = &changes.Morphometric
		}
		if *target == nil {
			*target = map[string]registry.ParamEdit{}
		}
		edit := (*target)[name]
		switch field {
		case "target":
			edit.TargetValue = &v
		case "min":
			edit.MinThreshold = &v
		case "max":
			edit.MaxThreshold = &v
		case "tolerance":
			edit.Tolerance = &v
		case "weight":
			edit.Weight = &v
		default:
			return nil, errors.Newf("unknown field %q in --set %q (want target, min, max, tolerance or weight)", field, raw)
		}
		(*target)[name] = edit
	}

	for _, raw := range gates {
		name, val, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, errors.Newf("invalid --gate %q, expected name=true|false", raw)
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value in --gate %q", raw)
		}
		if changes.SetGates == nil {
			changes.SetGates = map[string]bool{}
		}
		changes.SetGates[name] = b
	}

	changes.RemoveGates = append(changes.RemoveGates, removeGates...)
	return changes, nil
}
