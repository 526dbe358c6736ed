// Package steps provides step definitions and dependency validation for the
// weekly menu pipeline. A step's dependencies are satisfied when the artifacts
// they produce exist on disk.
package steps

import (
	"fmt"
	"os"
)

// Step names.
const (
	StepScan     = "scan"
	StepDownload = "download"
	StepRender   = "render"
	StepExtract  = "extract"
	StepPublish  = "publish"
)

// Step categories.
const (
	CategoryListing   = "listing"
	CategoryDocument  = "document"
	CategoryArtifacts = "artifacts"
	CategoryPublish   = "publish"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Description  string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepScan: {
		Name:         StepScan,
		Category:     CategoryListing,
		Description:  "Find the latest weekly menu post on the listing board",
		Dependencies: []string{},
	},
	StepDownload: {
		Name:         StepDownload,
		Category:     CategoryDocument,
		Description:  "Download the menu PDF",
		Dependencies: []string{StepScan},
	},
	StepRender: {
		Name:         StepRender,
		Category:     CategoryArtifacts,
		Description:  "Render page one of the menu PDF to JPEG",
		Dependencies: []string{StepDownload},
	},
	StepExtract: {
		Name:         StepExtract,
		Category:     CategoryArtifacts,
		Description:  "Extract the menu table to JSON",
		Dependencies: []string{StepDownload},
	},
	StepPublish: {
		Name:         StepPublish,
		Category:     CategoryPublish,
		Description:  "Upload the rendered menu to the repository",
		Dependencies: []string{StepRender},
	},
}

// Order lists the steps in execution order.
var Order = []string{StepScan, StepDownload, StepRender, StepExtract, StepPublish}

// Artifacts maps a step name to the local file it produces.
type Artifacts map[string]string

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName that produces
// an artifact has left it on disk. Dependencies without an artifact are
// assumed satisfied.
func ValidateDependencies(stepName string, artifacts Artifacts) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		path, ok := artifacts[dep]
		if !ok || path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() == 0 {
			missing = append(missing, fmt.Sprintf("%s (%s)", dep, path))
		}
	}

	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}
