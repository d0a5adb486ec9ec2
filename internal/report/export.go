// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Export is the derived view written alongside a chart. It is never read
// back; the log remains the source of truth.
type Export struct {
	Log             string                  `json:"log" yaml:"log"`
	Keywords        []string                `json:"keywords" yaml:"keywords"`
	ComparisonLabel string                  `json:"comparison_label,omitempty" yaml:"comparison_label,omitempty"`
	Years           []types.YearlyAggregate `json:"years" yaml:"years"`
	Comparison      []types.ComparisonPoint `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// ExportPath returns the export file for a chart path, e.g.
// "cholera-log-report.yaml" next to "cholera-log-report.html".
func ExportPath(chartPath string, format types.ExportFormat) string {
	base := strings.TrimSuffix(chartPath, ".html")
	return base + "." + string(format)
}

// WriteExport writes e to path in the given format.
func WriteExport(path string, format types.ExportFormat, e Export) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case types.ExportYAML:
		data, err = yaml.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case types.ExportJSON:
		data, err = json.MarshalIndent(e, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported export format %q (want yaml or json)", format)
	}
	return os.WriteFile(path, data, 0o644)
}
