// Package reference holds the static disease and supplement lookup
// tables used to enrich detection results.
package reference

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// DiseaseInfo is one row of the disease reference table.
type DiseaseInfo struct {
	DiseaseName   string
	Description   string
	PossibleSteps string
}

// SupplementInfo is one row of the supplement reference table.
type SupplementInfo struct {
	DiseaseName    string
	SupplementName string
	ImageURL       string
	BuyURL         string
}

// Tables joins detection labels against the two reference tables.
// Lookups are case-insensitive and best-effort: a missing row yields nil
// fields, never an error.
type Tables struct {
	diseases    map[string]DiseaseInfo
	supplements map[string]SupplementInfo
}

// Load reads both CSV files. Column order follows the exported tables:
// disease_info(disease_name, description, possible_steps),
// supplement_info(disease_name, supplement_name, supplement_image, buy_link).
// A header row is expected and skipped.
func Load(diseaseInfoPath, supplementInfoPath string) (*Tables, error) {
	t := &Tables{
		diseases:    make(map[string]DiseaseInfo),
		supplements: make(map[string]SupplementInfo),
	}

	diseaseRows, err := readCSV(diseaseInfoPath, 3)
	if err != nil {
		return nil, fmt.Errorf("disease info: %w", err)
	}
	for _, row := range diseaseRows {
		info := DiseaseInfo{
			DiseaseName:   row[0],
			Description:   row[1],
			PossibleSteps: row[2],
		}
		t.diseases[normalize(info.DiseaseName)] = info
	}

	supplementRows, err := readCSV(supplementInfoPath, 4)
	if err != nil {
		return nil, fmt.Errorf("supplement info: %w", err)
	}
	for _, row := range supplementRows {
		info := SupplementInfo{
			DiseaseName:    row[0],
			SupplementName: row[1],
			ImageURL:       row[2],
			BuyURL:         row[3],
		}
		t.supplements[normalize(info.DiseaseName)] = info
	}

	return t, nil
}

func readCSV(path string, minColumns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%q is empty", path)
	}

	var out [][]string
	for i, row := range rows[1:] {
		if len(row) < minColumns {
			return nil, fmt.Errorf("%q row %d has %d columns, want at least %d", path, i+2, len(row), minColumns)
		}
		out = append(out, row)
	}
	return out, nil
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Enrich joins a detection result against both tables by its readable
// label. Absent rows leave the corresponding fields nil.
func (t *Tables) Enrich(result models.DetectionResult) models.EnrichedDetection {
	enriched := models.EnrichedDetection{DetectionResult: result}
	key := normalize(result.ReadableLabel)

	if d, ok := t.diseases[key]; ok {
		enriched.Description = &d.Description
		enriched.PossibleSteps = &d.PossibleSteps
	}
	if s, ok := t.supplements[key]; ok {
		enriched.SupplementName = &s.SupplementName
		enriched.SupplementImageURL = &s.ImageURL
		enriched.SupplementBuyURL = &s.BuyURL
	}

	return enriched
}
