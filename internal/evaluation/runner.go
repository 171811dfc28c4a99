package evaluation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// Validator scores a structured referral against the required-field contract.
type Validator interface {
	Validate(referral *entities.StructuredReferral) services.ValidationResult
}

// Runner replays golden documents through the validation engine.
type Runner struct {
	validator Validator
}

func NewRunner(v Validator) *Runner {
	return &Runner{validator: v}
}

func (r *Runner) Run(docs []GoldenDocument) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalDocuments: len(docs),
		ByCategory:     make(map[Category]*CategorySummary),
	}

	for _, doc := range docs {
		var referral *entities.StructuredReferral
		if err := json.Unmarshal(doc.Referral, &referral); err != nil {
			return nil, fmt.Errorf("document %q: %w", doc.ID, err)
		}

		start := time.Now()
		verdict := r.validator.Validate(referral)
		latency := time.Since(start)

		result := EvalResult{
			DocumentID:     doc.ID,
			Category:       doc.Category,
			Precision:      FieldPrecision(doc.ExpectedMissing, verdict.MissingFields),
			Recall:         FieldRecall(doc.ExpectedMissing, verdict.MissingFields),
			ExactMatch:     SetExactMatch(doc.ExpectedMissing, verdict.MissingFields),
			ReportedFields: verdict.MissingFields,
			Latency:        latency,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgPrecision += res.Precision
	s.AvgRecall += res.Recall
	s.AvgLatency += res.Latency
	if res.ExactMatch {
		s.ExactMatches++
	}

	if _, ok := s.ByCategory[res.Category]; !ok {
		s.ByCategory[res.Category] = &CategorySummary{}
	}
	cs := s.ByCategory[res.Category]
	cs.Count++
	cs.AvgPrecision += res.Precision
	cs.AvgRecall += res.Recall
	if res.ExactMatch {
		cs.ExactMatches++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalDocuments > 0 {
		n := float64(s.TotalDocuments)
		s.AvgPrecision /= n
		s.AvgRecall /= n
		s.AvgLatency /= time.Duration(s.TotalDocuments)
	}

	for _, cs := range s.ByCategory {
		if cs.Count > 0 {
			n := float64(cs.Count)
			cs.AvgPrecision /= n
			cs.AvgRecall /= n
		}
	}
}
