package sqlite

import (
	"strings"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// filterClause renders search filters into SQL conditions against the
// documents table aliased as d. Filters are conjunctive: every set
// filter becomes an AND clause.
func filterClause(filters domain.SearchFilters) (string, []any) {
	if filters.IsZero() {
		return "", nil
	}

	var clauses []string
	var args []any

	if filters.DocType != "" {
		clauses = append(clauses, "d.doc_type = ?")
		args = append(args, filters.DocType)
	}
	if filters.Category != "" {
		clauses = append(clauses, "d.category = ?")
		args = append(args, filters.Category)
	}
	if filters.Commune != "" {
		clauses = append(clauses, "d.commune = ?")
		args = append(args, filters.Commune)
	}
	if filters.Canton != "" {
		clauses = append(clauses, "d.canton = ?")
		args = append(args, filters.Canton)
	}
	if len(filters.Tags) > 0 {
		placeholders := strings.Repeat("?, ", len(filters.Tags)-1) + "?"
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM document_tags dt
			WHERE dt.document_id = d.id AND dt.tag_name IN (`+placeholders+`)
		)`)
		for _, tag := range filters.Tags {
			args = append(args, tag)
		}
	}
	if filters.DateFrom != nil {
		clauses = append(clauses, "d.principal_date >= ?")
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		clauses = append(clauses, "d.principal_date <= ?")
		args = append(args, *filters.DateTo)
	}

	return " AND " + strings.Join(clauses, " AND "), args
}
