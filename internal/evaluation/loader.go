package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenDocuments reads and parses a golden document set from a JSON file.
func LoadGoldenDocuments(path string) ([]GoldenDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden documents file: %w", err)
	}

	var docs []GoldenDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse golden documents: %w", err)
	}

	return docs, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenDocuments checks that all golden documents have required
// fields and valid values.
func ValidateGoldenDocuments(docs []GoldenDocument) error {
	seen := make(map[string]struct{}, len(docs))

	for i, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("document at index %d: missing id", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("document at index %d: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = struct{}{}

		if !d.Category.IsValid() {
			return fmt.Errorf("document %q: invalid category %q", d.ID, d.Category)
		}
		if !validDifficulties[d.Difficulty] {
			return fmt.Errorf("document %q: invalid difficulty %q (must be easy/medium/hard)", d.ID, d.Difficulty)
		}
		if len(d.Referral) == 0 {
			return fmt.Errorf("document %q: missing referral (use null for an unparseable document)", d.ID)
		}
		if d.Category == CategoryComplete && len(d.ExpectedMissing) > 0 {
			return fmt.Errorf("document %q: complete documents must not expect missing fields", d.ID)
		}
	}

	return nil
}
