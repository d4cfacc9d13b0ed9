// Package sbom validates CycloneDX documents and extracts the component
// inventory consumed by the rest of the pipeline.
package sbom

import (
	"encoding/json"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/ortelius/vexmgt-backend/model"
	"github.com/ortelius/vexmgt-backend/util"
)

// Component is one inventory entry extracted from an SBOM
type Component struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Purl        string `json:"purl,omitempty"`
	BasePurl    string `json:"base_purl,omitempty"`
	Description string `json:"description,omitempty"`
}

// Document is the validated, typed form of an ingested SBOM
type Document struct {
	SpecVersion string
	Components  []Component
	// Dependencies maps a component name to the names of the components
	// it declares as dependencies
	Dependencies map[string][]string
	// Signed reports whether the document carried a top-level signature
	Signed bool
}

// documentProbe checks the structural markers before any typed decode
type documentProbe struct {
	BomFormat    string          `json:"bomFormat"`
	SpecVersion  string          `json:"specVersion"`
	Metadata     json.RawMessage `json:"metadata"`
	Components   json.RawMessage `json:"components"`
	Dependencies json.RawMessage `json:"dependencies"`
	Signature    json.RawMessage `json:"signature"`
}

// Validate checks that raw is a structurally valid CycloneDX JSON document
// and extracts its component inventory and dependency graph. It rejects
// with a ValidationError when the document is not JSON, is missing the
// CycloneDX markers, or carries neither components nor metadata. Validate
// has no side effects.
func Validate(raw []byte) (*Document, error) {
	var probe documentProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, model.NewValidationError("sbom", "document is not valid JSON")
	}

	if probe.BomFormat != "CycloneDX" {
		return nil, model.NewValidationError("sbom", "bomFormat must be CycloneDX")
	}
	if util.IsEmpty(probe.SpecVersion) {
		return nil, model.NewValidationError("sbom", "specVersion is required")
	}
	if emptyJSON(probe.Components) && emptyJSON(probe.Metadata) {
		return nil, model.NewValidationError("sbom", "document has neither components nor metadata")
	}

	doc := &Document{
		SpecVersion:  probe.SpecVersion,
		Dependencies: map[string][]string{},
		Signed:       !emptyJSON(probe.Signature),
	}

	// Decode components and dependencies through the CycloneDX types.
	// The probe already established the document shape, so a decode
	// failure here means a malformed section rather than a missing one.
	var components []cdx.Component
	if !emptyJSON(probe.Components) {
		if err := json.Unmarshal(probe.Components, &components); err != nil {
			return nil, model.NewValidationError("sbom", "components section is malformed")
		}
	}

	refToName := map[string]string{}
	for _, c := range components {
		comp := Component{
			Name:        c.Name,
			Version:     c.Version,
			Purl:        c.PackageURL,
			Description: c.Description,
		}
		if comp.Purl != "" {
			if cleaned, err := util.CleanPURL(comp.Purl); err == nil {
				comp.Purl = cleaned
			}
			if base, err := util.GetBasePURL(comp.Purl); err == nil {
				comp.BasePurl = base
			}
		}
		doc.Components = append(doc.Components, comp)

		if c.BOMRef != "" {
			refToName[c.BOMRef] = c.Name
		}
		if c.PackageURL != "" {
			refToName[c.PackageURL] = c.Name
		}
	}

	if !emptyJSON(probe.Dependencies) {
		var deps []cdx.Dependency
		if err := json.Unmarshal(probe.Dependencies, &deps); err != nil {
			return nil, model.NewValidationError("sbom", "dependencies section is malformed")
		}
		for _, d := range deps {
			from := resolveRef(refToName, d.Ref)
			if from == "" || d.Dependencies == nil {
				continue
			}
			for _, ref := range *d.Dependencies {
				if to := resolveRef(refToName, ref); to != "" {
					doc.Dependencies[from] = append(doc.Dependencies[from], to)
				}
			}
		}
	}

	return doc, nil
}

// resolveRef maps a bom-ref to a component name, falling back to the ref
// itself when it does not point at a known component
func resolveRef(refToName map[string]string, ref string) string {
	if name, ok := refToName[ref]; ok {
		return name
	}
	return strings.TrimSpace(ref)
}

func emptyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null" || trimmed == "[]" || trimmed == "{}"
}
