package domain

import (
	"testing"
	"time"
)

func TestSearchFilters_IsZero(t *testing.T) {
	t.Run("empty filters", func(t *testing.T) {
		var f SearchFilters
		if !f.IsZero() {
			t.Error("expected zero filters to report IsZero")
		}
	})

	t.Run("doc type set", func(t *testing.T) {
		f := SearchFilters{DocType: "contrat"}
		if f.IsZero() {
			t.Error("expected non-zero filters")
		}
	})

	t.Run("tags set", func(t *testing.T) {
		f := SearchFilters{Tags: []string{"immobilier"}}
		if f.IsZero() {
			t.Error("expected non-zero filters")
		}
	})

	t.Run("date range set", func(t *testing.T) {
		from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		f := SearchFilters{DateFrom: &from}
		if f.IsZero() {
			t.Error("expected non-zero filters")
		}
	})
}
