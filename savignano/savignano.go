// Package savignano provides the built-in preset taxonomy for
// Savignano-type Bronze Age axes: the base type plus the Matrix A
// production-matrix subclass.
//
// The Savignano type is characterized by a socket (incavo), raised flanges
// (margini rialzati) along the body, a typically lunate blade, and
// specific proportions. Axes cast from the same production matrix share
// very tight dimensional consistency, which Matrix A encodes with
// narrower bounds and a higher confidence threshold.
package savignano

import (
	"time"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/taxon"
)

// Class identifiers for the preset classes.
const (
	BaseTypeID = "savignano-type"
	MatrixAID  = "savignano-matrix-a"
)

const createdBy = "savignano preset v1"

// presetEpoch pins CreatedAt so preset classes are byte-stable across runs.
var presetEpoch = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// BaseType returns the Savignano base type class.
//
// Socket and raised flanges are hard gates: no dimensional similarity
// compensates for their absence. Blade shape is deliberately not gated —
// the lunate blade is typical but recorded as a soft diagnostic only (see
// MissingFeatures).
func BaseType() *taxon.ClassDefinition {
	def, err := taxon.New(taxon.Spec{
		ClassID: BaseTypeID,
		Name:    "Savignano Type Bronze Axe",
		Description: "Bronze Age socketed axe characterized by socket (incavo), " +
			"raised flanges (margini rialzati), and typically lunate blade. " +
			"Associated with Italian Bronze Age cultures.",
		Morphometric: map[string]taxon.Parameter{
			"tallone_larghezza": {
				TargetValue: 42.0, MinThreshold: 35.0, MaxThreshold: 55.0,
				Tolerance: 8.0, Weight: 1.0, Unit: "mm",
			},
			"tallone_spessore": {
				TargetValue: 15.0, MinThreshold: 10.0, MaxThreshold: 22.0,
				Tolerance: 5.0, Weight: 1.0, Unit: "mm",
			},
			// Socket measurements carry higher weight: critical feature.
			"incavo_larghezza": {
				TargetValue: 45.0, MinThreshold: 30.0, MaxThreshold: 60.0,
				Tolerance: 10.0, Weight: 1.5, Unit: "mm",
			},
			"incavo_profondita": {
				TargetValue: 12.0, MinThreshold: 5.0, MaxThreshold: 25.0,
				Tolerance: 7.0, Weight: 1.5, Unit: "mm",
			},
			"margini_rialzati_lunghezza": {
				TargetValue: 85.0, MinThreshold: 60.0, MaxThreshold: 120.0,
				Tolerance: 20.0, Weight: 1.2, Unit: "mm",
			},
			"margini_rialzati_spessore_max": {
				TargetValue: 8.0, MinThreshold: 4.0, MaxThreshold: 15.0,
				Tolerance: 4.0, Weight: 0.8, Unit: "mm",
			},
			"tagliente_larghezza": {
				TargetValue: 95.0, MinThreshold: 75.0, MaxThreshold: 130.0,
				Tolerance: 15.0, Weight: 1.0, Unit: "mm",
			},
			"length": {
				TargetValue: 165.0, MinThreshold: 140.0, MaxThreshold: 200.0,
				Tolerance: 20.0, Weight: 0.8, Unit: "mm",
			},
		},
		OptionalFeatures: map[string]bool{
			"incavo_presente":           true,
			"margini_rialzati_presenti": true,
			"tagliente_espanso":         true,
		},
		ConfidenceThreshold: 0.65,
		CreatedAt:           presetEpoch,
		CreatedBy:           createdBy,
		ValidatedSamples: []string{
			"axe936", "axe940", "axe942", "axe957", "axe965",
			"axe971", "axe974", "axe978", "axe979", "axe992",
		},
	})
	if err != nil {
		// Preset tables are compile-time constants; a failure here is a bug.
		panic(err)
	}
	return def
}

// MatrixA returns the Matrix A production-matrix subclass, with bounds
// narrow enough to separate axes cast from the same mold.
func MatrixA() *taxon.ClassDefinition {
	def, err := taxon.New(taxon.Spec{
		ClassID: MatrixAID,
		Name:    "Savignano Type - Matrix A",
		Description: "Savignano axes from Matrix A production mold. " +
			"Characterized by specific dimensional consistency.",
		Morphometric: map[string]taxon.Parameter{
			"tallone_larghezza": {
				TargetValue: 42.1, MinThreshold: 40.0, MaxThreshold: 44.0,
				Tolerance: 1.5, Weight: 1.5, Unit: "mm",
			},
			"incavo_larghezza": {
				TargetValue: 45.2, MinThreshold: 43.0, MaxThreshold: 47.5,
				Tolerance: 2.0, Weight: 2.0, Unit: "mm",
			},
			"tagliente_larghezza": {
				TargetValue: 98.6, MinThreshold: 95.0, MaxThreshold: 102.0,
				Tolerance: 3.0, Weight: 1.5, Unit: "mm",
			},
			"length": {
				TargetValue: 165.3, MinThreshold: 160.0, MaxThreshold: 170.0,
				Tolerance: 4.0, Weight: 1.2, Unit: "mm",
			},
		},
		OptionalFeatures: map[string]bool{
			"incavo_presente":           true,
			"margini_rialzati_presenti": true,
			"tagliente_espanso":         true,
		},
		ConfidenceThreshold: 0.80,
		CreatedAt:           presetEpoch,
		CreatedBy:           createdBy,
		ValidatedSamples:    []string{"axe974", "axe942"},
	})
	if err != nil {
		panic(err)
	}
	return def
}

// Classes returns all preset classes, most specific last.
func Classes() []*taxon.ClassDefinition {
	return []*taxon.ClassDefinition{BaseType(), MatrixA()}
}

// MissingFeatures lists the critical Savignano features an artifact lacks.
// Socket and raised flanges are the hard criteria; the lunate blade is a
// soft diagnostic — reported here but never used as a gate.
func MissingFeatures(features artifact.Features) []string {
	var missing []string
	if present, _ := features.Bool("incavo_presente"); !present {
		missing = append(missing, "socket (incavo)")
	}
	if present, _ := features.Bool("margini_rialzati_presenti"); !present {
		missing = append(missing, "raised flanges (margini rialzati)")
	}
	if lunate, _ := features.Bool("tagliente_lunato"); !lunate {
		missing = append(missing, "lunate blade (tagliente lunato)")
	}
	return missing
}
