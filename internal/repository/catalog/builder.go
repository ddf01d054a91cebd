package catalog

import (
	"strings"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// buildPredicate translates a domain.Filter into a parameterized WHERE
// clause. search and count both call this with the same Filter value, so
// their predicates can never diverge.
//
// Composition: keyword terms are OR'd within the textual relevance group,
// the reference restriction is a set membership check, and price, size and
// brand constraints are AND'd on top of both.
func buildPredicate(f domain.Filter) (string, []any) {
	var conds []string
	var args []any

	if len(f.Keywords) > 0 {
		blocks := make([]string, 0, len(f.Keywords))
		for _, kw := range f.Keywords {
			blocks = append(blocks,
				`(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\' OR styles LIKE ? ESCAPE '\')`)
			pattern := "%" + escapeLike(kw) + "%"
			args = append(args, pattern, pattern, pattern, pattern)
		}
		conds = append(conds, "("+strings.Join(blocks, " OR ")+")")
	}

	if len(f.References) > 0 {
		conds = append(conds, "reference IN ("+placeholders(len(f.References))+")")
		for _, ref := range f.References {
			args = append(args, ref)
		}
	}

	if f.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *f.MaxPrice)
	}

	if len(f.Sizes) > 0 {
		blocks := make([]string, 0, len(f.Sizes))
		for _, size := range f.Sizes {
			// sizes column is comma-joined; wrap both sides for exact token match
			blocks = append(blocks, "(',' || sizes || ',') LIKE ?")
			args = append(args, "%,"+size+",%")
		}
		conds = append(conds, "("+strings.Join(blocks, " OR ")+")")
	}

	if len(f.Brands) > 0 {
		conds = append(conds, "brand IN ("+placeholders(len(f.Brands))+")")
		for _, b := range f.Brands {
			args = append(args, b)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// escapeLike neutralizes LIKE wildcards in user-supplied terms.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
