package evaluation

// FieldPrecision computes the fraction of reported missing fields that were
// expected. An empty report scores 1.0 against an empty expectation and 0.0
// otherwise.
func FieldPrecision(expected, reported []string) float64 {
	if len(reported) == 0 {
		if len(expected) == 0 {
			return 1.0
		}
		return 0.0
	}

	expectedSet := make(map[string]struct{}, len(expected))
	for _, f := range expected {
		expectedSet[f] = struct{}{}
	}

	found := 0
	for _, f := range reported {
		if _, ok := expectedSet[f]; ok {
			found++
		}
	}

	return float64(found) / float64(len(reported))
}

// FieldRecall computes the fraction of expected missing fields that were
// reported. An empty expectation scores 1.0 against an empty report and 0.0
// otherwise.
func FieldRecall(expected, reported []string) float64 {
	if len(expected) == 0 {
		if len(reported) == 0 {
			return 1.0
		}
		return 0.0
	}

	reportedSet := make(map[string]struct{}, len(reported))
	for _, f := range reported {
		reportedSet[f] = struct{}{}
	}

	found := 0
	for _, f := range expected {
		if _, ok := reportedSet[f]; ok {
			found++
		}
	}

	return float64(found) / float64(len(expected))
}

// SetExactMatch reports whether expected and reported contain exactly the
// same fields, ignoring order.
func SetExactMatch(expected, reported []string) bool {
	if len(expected) != len(reported) {
		return false
	}

	expectedSet := make(map[string]struct{}, len(expected))
	for _, f := range expected {
		expectedSet[f] = struct{}{}
	}

	for _, f := range reported {
		if _, ok := expectedSet[f]; !ok {
			return false
		}
	}

	return true
}
