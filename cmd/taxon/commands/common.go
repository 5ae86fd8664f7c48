// Package commands implements the taxon CLI subcommands.
package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"

	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/logger"
	"github.com/montelab/taxon/registry"
	"github.com/montelab/taxon/savignano"
	"github.com/montelab/taxon/taxon"
)

// taxonomyPath is the --taxonomy override shared by most commands; empty
// means the configured working taxonomy.
var taxonomyPath string

func resolveTaxonomyPath(cfg *config.Config) string {
	if taxonomyPath != "" {
		return taxonomyPath
	}
	return cfg.Taxonomy.Path
}

// openRegistry loads the working taxonomy document into a fresh registry.
// A missing file yields an empty registry, so commands work before the
// first save.
func openRegistry(cfg *config.Config) (*registry.Registry, string, error) {
	path := resolveTaxonomyPath(cfg)
	reg := registry.NewRegistry(logger.Logger.Named("registry"))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return reg, path, nil
	}
	if err := reg.ImportFromFile(path); err != nil {
		return nil, "", fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return reg, path, nil
}

func saveRegistry(reg *registry.Registry, path string) error {
	if err := reg.ExportToFile(path); err != nil {
		return fmt.Errorf("saving taxonomy %s: %w", path, err)
	}
	return nil
}

// seedPresets registers the built-in Savignano classes, skipping any id
// already present.
func seedPresets(reg *registry.Registry) int {
	seeded := 0
	for _, def := range savignano.Classes() {
		if _, err := reg.Get(def.ClassID); err == nil {
			continue
		}
		if err := reg.Register(def); err == nil {
			seeded++
		}
	}
	return seeded
}

// renderResults prints classification results as a pterm table.
func renderResults(results []taxon.Result) {
	data := pterm.TableData{{"Class", "Name", "Member", "Confidence", "Failed gate"}}
	for _, res := range results {
		member := "no"
		if res.IsMember {
			member = "yes"
		}
		data = append(data, []string{
			res.ClassID,
			res.ClassName,
			member,
			fmt.Sprintf("%.2f%%", res.Confidence*100),
			res.FailedGate,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderDiagnostic prints the per-parameter breakdown of one result.
func renderDiagnostic(res taxon.Result) {
	data := pterm.TableData{{"Parameter", "Status", "Observed", "Expected range", "Score"}}
	for _, name := range sortedDiagnosticKeys(res) {
		diag := res.Diagnostic[name]
		observed := "-"
		if diag.Observed != nil {
			observed = fmt.Sprintf("%.2f", *diag.Observed)
		}
		data = append(data, []string{
			name,
			string(diag.Status),
			observed,
			fmt.Sprintf("[%.2f, %.2f]", diag.ExpectedMin, diag.ExpectedMax),
			fmt.Sprintf("%.3f", diag.Score),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func sortedParamNames(params map[string]taxon.Parameter) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedGateNames(gates map[string]bool) []string {
	names := make([]string, 0, len(gates))
	for name := range gates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedDiagnosticKeys(res taxon.Result) []string {
	keys := make([]string, 0, len(res.Diagnostic))
	for k := range res.Diagnostic {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
