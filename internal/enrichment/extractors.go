package enrichment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// SignalType identifies one family of extractable signals.
type SignalType string

// Signal types recognised by the extractor registry.
const (
	SignalAmount   SignalType = "amount"
	SignalDate     SignalType = "date"
	SignalLocation SignalType = "location"
	SignalParty    SignalType = "party"
	SignalSurface  SignalType = "surface"
	SignalRoom     SignalType = "room"
)

// Match is a single occurrence of a signal in a text. Only the fields
// relevant to the signal type are populated: Number for amounts,
// surfaces and rooms, Time for dates, Region for locations.
type Match struct {
	Raw        string
	Normalized string
	Number     float64
	Currency   string
	Time       time.Time
	Region     string
	Role       string
}

// extractorFunc scans a text and returns every occurrence of one signal
// type. Extractors are total: malformed text yields no matches, never an
// error.
type extractorFunc func(text string) []Match

// extractors is the signal registry. Adding a signal type means adding
// one pure function here.
var extractors = map[SignalType]extractorFunc{
	SignalAmount:   extractAmounts,
	SignalDate:     extractDates,
	SignalLocation: extractLocations,
	SignalParty:    extractParties,
	SignalSurface:  extractSurfaces,
	SignalRoom:     extractRooms,
}

// ExtractAll runs every registered extractor over the text and returns
// the matches grouped by signal type. Types with no matches are absent
// from the result.
func ExtractAll(text string) map[SignalType][]Match {
	found := make(map[SignalType][]Match)
	for sig, fn := range extractors {
		if matches := fn(text); len(matches) > 0 {
			found[sig] = matches
		}
	}
	return found
}

var (
	amountPrefixRe = regexp.MustCompile(`(CHF|EUR|USD|GBP|Fr\.)\s*([0-9][0-9']*(?:\.[0-9]{1,2})?)`)
	amountSuffixRe = regexp.MustCompile(`([0-9][0-9']*(?:\.[0-9]{1,2})?)\s*(CHF|EUR|USD|GBP)`)

	numericDateRe = regexp.MustCompile(`\b([0-9]{1,2})[./]([0-9]{1,2})[./]([0-9]{2,4})\b`)
	isoDateRe     = regexp.MustCompile(`\b([0-9]{4})-([0-9]{2})-([0-9]{2})\b`)
	frenchDateRe  = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:er)?\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+([0-9]{4})\b`)

	postalCodeRe = regexp.MustCompile(`\b([1-9][0-9]{3})\b`)

	companyRe = regexp.MustCompile(`([A-ZÀ-Ü][\pL'-]*(?:\s+[A-ZÀ-Ü][\pL'-]*)*\s+(?:SA|Sàrl|SARL|AG|GmbH|SNC|Fondation))\b`)
	roleRe    = regexp.MustCompile(`(?i)\b(` + strings.Join(contractRoles, "|") + `)\s*:\s*([^\n.;]+)`)

	surfaceRe = regexp.MustCompile(`([0-9]+(?:[',.][0-9]+)?)\s*(?:m²|m2\b)`)
	roomsRe   = regexp.MustCompile(`(?i)\b([0-9]+(?:\.[05])?)\s*(?:pièces?|chambres?)\b`)
)

// extractAmounts finds monetary amounts in both prefix ("CHF 2'500") and
// suffix ("14'850'000 CHF") notation. Apostrophe thousand separators are
// stripped during normalisation; "Fr." is treated as CHF.
func extractAmounts(text string) []Match {
	var matches []Match
	seen := make(map[int]bool)

	for _, m := range amountPrefixRe.FindAllStringSubmatchIndex(text, -1) {
		currency := text[m[2]:m[3]]
		if currency == "Fr." {
			currency = "CHF"
		}
		if match, ok := amountMatch(text[m[0]:m[1]], text[m[4]:m[5]], currency); ok {
			matches = append(matches, match)
			for i := m[0]; i < m[1]; i++ {
				seen[i] = true
			}
		}
	}

	for _, m := range amountSuffixRe.FindAllStringSubmatchIndex(text, -1) {
		if seen[m[0]] {
			continue
		}
		if match, ok := amountMatch(text[m[0]:m[1]], text[m[2]:m[3]], text[m[4]:m[5]]); ok {
			matches = append(matches, match)
		}
	}

	return matches
}

func amountMatch(raw, digits, currency string) (Match, bool) {
	cleaned := strings.ReplaceAll(digits, "'", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Match{}, false
	}
	return Match{
		Raw:        raw,
		Normalized: cleaned,
		Number:     value,
		Currency:   currency,
	}, true
}

// extractDates recognises DD.MM.YYYY, DD/MM/YYYY, ISO YYYY-MM-DD and
// written French dates ("15 juin 2023"). Two-digit years below 50 are
// placed in the 2000s.
func extractDates(text string) []Match {
	var matches []Match

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if match, ok := dateMatch(m[0], year, month, day); ok {
			matches = append(matches, match)
		}
	}

	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if match, ok := dateMatch(m[0], year, month, day); ok {
			matches = append(matches, match)
		}
	}

	for _, m := range frenchDateRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month := frenchMonths[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if match, ok := dateMatch(m[0], year, month, day); ok {
			matches = append(matches, match)
		}
	}

	return matches
}

func dateMatch(raw string, year, month, day int) (Match, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Match{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// Normalisation moved the date, e.g. 31.02: reject.
		return Match{}, false
	}
	return Match{
		Raw:        raw,
		Normalized: t.Format("2006-01-02"),
		Time:       t,
	}, true
}

// extractLocations finds commune names, canton names or abbreviations,
// and Swiss postal codes.
func extractLocations(text string) []Match {
	var matches []Match
	lower := strings.ToLower(text)

	for _, commune := range vaudCommunes {
		if containsWord(lower, strings.ToLower(commune)) {
			matches = append(matches, Match{
				Raw:        commune,
				Normalized: commune,
				Region:     "Vaud",
			})
		}
	}

	for abbr, name := range swissCantons {
		if containsWord(lower, strings.ToLower(name)) ||
			strings.Contains(text, " "+abbr+" ") ||
			strings.Contains(text, "("+abbr+")") {
			matches = append(matches, Match{
				Raw:        name,
				Normalized: name,
				Region:     name,
			})
		}
	}

	for _, m := range postalCodeRe.FindAllStringIndex(text, -1) {
		raw := text[m[0]:m[1]]
		code, _ := strconv.Atoi(raw)
		if code >= 1900 && code <= 2099 && !followedByLocality(text, m[1]) {
			continue
		}
		matches = append(matches, Match{Raw: raw, Normalized: raw})
	}

	return matches
}

// followedByLocality reports whether the text after a four-digit number
// looks like the "NPA Locality" convention, i.e. whitespace then an
// uppercase letter. Codes in the 19xx/20xx range are accepted as postal
// codes only in that position, otherwise they are years.
func followedByLocality(text string, end int) bool {
	rest := strings.TrimLeft(text[end:], " \t")
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}

// extractParties finds company names by their Swiss legal form suffix
// and contractual parties introduced by a role label.
func extractParties(text string) []Match {
	var matches []Match

	for _, m := range companyRe.FindAllString(text, -1) {
		matches = append(matches, Match{
			Raw:        m,
			Normalized: strings.TrimSpace(m),
		})
	}

	for _, m := range roleRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		matches = append(matches, Match{
			Raw:        m[0],
			Normalized: name,
			Role:       strings.ToLower(m[1]),
		})
	}

	return matches
}

func extractSurfaces(text string) []Match {
	var matches []Match
	for _, m := range surfaceRe.FindAllStringSubmatch(text, -1) {
		cleaned := strings.ReplaceAll(m[1], "'", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Raw: m[0], Normalized: cleaned, Number: value})
	}
	return matches
}

func extractRooms(text string) []Match {
	var matches []Match
	for _, m := range roomsRe.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Raw: m[0], Normalized: m[1], Number: value})
	}
	return matches
}

// containsWord reports whether needle occurs in haystack bounded by
// non-letter characters on both sides. Both arguments must already be
// lowercased.
func containsWord(haystack, needle string) bool {
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		before := i == 0 || !isWordRune(rune(haystack[i-1]))
		end := i + len(needle)
		after := end == len(haystack) || !isWordRune(rune(haystack[end]))
		if before && after {
			return true
		}
		from = i + len(needle)
	}
}

func isWordRune(r rune) bool {
	return r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r >= 0x80
}
