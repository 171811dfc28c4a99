package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanFieldLabel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"patient.name", "Patient Name"},
		{"patient.date_of_birth", "Patient Date of Birth"},
		{"referring_provider.name", "Referring Provider Name"},
		{"reason_for_referral", "Reason for Referral"},
		{"requested_action", "Requested Action"},
		{
			"receiving_provider.contact (phone, email, or address)",
			"Receiving Provider Contact (phone, email, or address)",
		},
		{"All fields - invalid JSON response", "All fields - invalid JSON response"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, HumanFieldLabel(tc.input))
		})
	}
}

func TestHumanFieldLabels(t *testing.T) {
	labels := HumanFieldLabels([]string{"patient.name", "requested_action"})
	assert.Equal(t, []string{"Patient Name", "Requested Action"}, labels)
}
