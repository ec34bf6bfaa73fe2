package upload

import (
	"regexp"
	"strings"

	"protrack.GO/config"
)

// HeaderIndex maps normalized header names to their column position in the
// parsed sheet. Built once per upload from the header row.
type HeaderIndex map[string]int

// BuildHeaderIndex normalizes header cells (trim, lower-case, collapse inner
// whitespace) and records the first column carrying each name.
func BuildHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for col, name := range header {
		key := normalizeHeader(name)
		if key == "" {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = col
		}
	}
	return idx
}

var reSpaces = regexp.MustCompile(`\s+`)

func normalizeHeader(name string) string {
	return reSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

// LookupField resolves a canonical field against the header index using its
// configured alias list. First matching alias wins; nil when no alias is
// present or the row is short.
func LookupField(row []string, idx HeaderIndex, aliases config.FieldAliases, canonical string) *string {
	for _, alias := range aliases[canonical] {
		col, ok := idx[normalizeHeader(alias)]
		if !ok || col >= len(row) {
			continue
		}
		return strPtr(row[col])
	}
	return nil
}

var (
	reQuoted         = regexp.MustCompile(`"([^"]*)"`)
	reTrailingQuoted = regexp.MustCompile(`^(.*?)\s*"([^"]+)"\s*$`)
	reBatchLabel     = regexp.MustCompile(`(?i)\b(?:Batch|Lot|B/L)\b\.?\s*(?:No\.?|Number)?\s*:?\s*([^;,"\n]+)`)
	reExpLabel       = regexp.MustCompile(`(?i)\b(?:Expiration|Expiry|Exp)\b\.?\s*(?:Date)?\s*:?\s*([^;,"\n]+)`)
	reInlineMonth    = regexp.MustCompile(`\b\d{1,2}/\d{4}\b`)
	reInlineISO      = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)
	reBatchLine      = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	reDigit          = regexp.MustCompile(`\d`)
)

// SplitGenericAndBrand separates a generic (non-proprietary) name from a brand
// name. An explicit brand column wins; a trailing quoted substring in the
// generic text is treated as an implied brand.
func SplitGenericAndBrand(genericRaw, brandRaw interface{}) (generic, brand *string) {
	generic = CleanText(genericRaw)
	brand = CleanText(brandRaw)

	if generic == nil {
		return nil, brand
	}

	if brand != nil {
		// Drop any quoted brand mention duplicated inside the generic text.
		g := reQuoted.ReplaceAllString(*generic, "")
		g = strings.TrimRight(g, ", \t")
		return CleanText(g), brand
	}

	if m := reTrailingQuoted.FindStringSubmatch(*generic); m != nil {
		g := strings.TrimRight(m[1], ",;: \t")
		return CleanText(g), CleanText(m[2])
	}

	return generic, nil
}

// Particulars holds the fields parsed out of a free-text particulars cell.
type Particulars struct {
	Brand          *string
	BatchLotNumber *string
	ExpirationDate *string
}

// ParseParticulars parses a free-text particulars cell. Brand is the first
// quoted substring; batch/lot and expiration are labeled spans up to the next
// `;`, `,` or newline, with heuristic fallbacks when no label is present.
func ParseParticulars(raw interface{}) Particulars {
	var p Particulars
	text := CleanText(raw)
	if text == nil {
		return p
	}
	s := *text

	if m := reQuoted.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		p.Brand = strPtr(strings.TrimSpace(m[1]))
	}

	if m := reBatchLabel.FindStringSubmatch(s); m != nil {
		p.BatchLotNumber = CleanText(m[1])
	} else {
		p.BatchLotNumber = fallbackBatchLine(s)
	}

	if m := reExpLabel.FindStringSubmatch(s); m != nil {
		p.ExpirationDate = NormalizeMonthYearOrDate(strings.TrimSpace(m[1]))
	} else if tok := reInlineMonth.FindString(s); tok != "" {
		p.ExpirationDate = NormalizeMonthYearOrDate(tok)
	} else if tok := reInlineISO.FindString(s); tok != "" {
		p.ExpirationDate = NormalizeMonthYearOrDate(tok)
	}

	return p
}

// fallbackBatchLine finds the first line that plausibly is a bare batch/lot
// code: alphanumeric with hyphens, at least 5 chars, contains a digit, and is
// not itself a date or month/year token.
func fallbackBatchLine(s string) *string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 || !reBatchLine.MatchString(line) || !reDigit.MatchString(line) {
			continue
		}
		if reISODate.MatchString(line) || reSlashDate.MatchString(line) || reMonthYear.MatchString(line) {
			continue
		}
		return strPtr(line)
	}
	return nil
}
