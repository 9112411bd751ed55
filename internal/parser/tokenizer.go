// internal/parser/tokenizer.go
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tgmarket/market-backend/internal/models"
)

const (
	goldSymbol   = "💰"
	cookieSymbol = "🍪"
)

// Price extraction passes, tried in order. Go's regexp has no lookaround, so
// boundaries are expressed as captured groups and re-attached on strip.
var (
	// "5 500💰", "19.999🍪" — digits (with space/dot separators) before a
	// currency symbol.
	rePriceSymbol = regexp.MustCompile(`(\d[\d\s.]{0,12})\s*(💰|🍪)`)

	// "8к", "6.5к", "150к💰" — thousands shorthand. The trailing group keeps
	// "3 книги" from reading as 3000.
	rePriceThousands = regexp.MustCompile(`(\d{1,6}(?:[.,]\d{1,3})?)\s*[кК](💰|🍪|[^\p{L}\d]|$)`)

	// "90 печенек", "12 печ." — textual cookie currency.
	rePriceTextCookie = regexp.MustCompile(`(?i)(\d[\d\s.]{0,12})\s*печ(?:еньк[аиу]?|енье|енек)?\.?([^\p{L}]|$)`)

	// "5000 злато", "1350з" — textual gold currency.
	rePriceTextGold = regexp.MustCompile(`(?i)(\d[\d\s.]{0,12})\s*з(?:лато|ол)?\.?([^\p{L}]|$)`)

	// Bare amount at the end of a line: "Корка хлеба [II] 650", "шлем = 350".
	// Requires two leading digits so enhancements and counts stay out.
	rePriceBare = regexp.MustCompile(`(^|[\s:=])(\d{2}[\d\s.]{0,11})$`)
)

var (
	// Lowercase latin L runs inside brackets posing as Roman numerals.
	reFakeRoman = regexp.MustCompile(`\[\s*([lL]{1,3}\+?)\s*\]`)
	reGrade     = regexp.MustCompile(`(?i)\[\s*(III\+|III|II|IV|V|I)\s*\]`)

	// "+7" with guards on both sides: not part of "5%+5" or "100+200".
	reEnhancement = regexp.MustCompile(`(^|[^%\d])\+(10|[1-9])($|[^\d%])`)

	reDurability = regexp.MustCompile(`\(?\s*(\d{1,5})\s*/\s*(\d{1,5})\s*\)?`)

	reRecipe = regexp.MustCompile(`(?i)^(рецепт)\s*(?:\[[^\]]+\])?\s*:`)

	reQuantity      = regexp.MustCompile(`(?i)(\d+)\s*шт`)
	reQuantityStrip = regexp.MustCompile(`(?i)\s*\d+\s*шт\.?\s*|[/\\]\s*шт\.?\s*`)
	reTrailingPrep  = regexp.MustCompile(`(?i)\s+(по|от|за)(\s+.*)?$`)
	reTrailingJunk  = regexp.MustCompile(`[\s+\-=/:–—\\|,.]+$`)
	reLeadingJunk   = regexp.MustCompile(`^[\s\-–—:.,]+`)
	reSpaceRuns     = regexp.MustCompile(`\s{2,}`)
)

var fakeRomanGrades = map[string]string{
	"l":    "I",
	"ll":   "II",
	"lll":  "III",
	"lll+": "III+",
}

// Lines reduced to a filler word carry no product. Covers bulk-offer tails
// ("по", "за") and barter chatter leaking into sell blocks.
var noiseLeadWords = map[string]struct{}{
	"по":      {},
	"от":      {},
	"за":      {},
	"обмен":   {},
	"обмены":  {},
	"обменяю": {},
	"меняю":   {},
}

// Tokenize parses a single product line into its parts. Returns nil when no
// plausible product name survives extraction.
func (p *Parser) Tokenize(line string) *LineItem {
	price, currency, rest := ExtractPrice(line)

	rest = normalizeFakeRomanGrade(rest)
	grade, rest := extractGrade(rest)
	enhancement, rest := extractEnhancement(rest)
	durCur, durMax, rest := extractDurability(rest)
	icon, rest := splitIcon(strings.TrimSpace(rest))
	rest = reRecipe.ReplaceAllString(rest, "$1:")

	var quantity *int
	if m := reQuantity.FindStringSubmatch(rest); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			quantity = &n
		}
	}

	name := cleanName(rest)
	if utf8.RuneCountInString(name) < 2 {
		return nil
	}
	if _, noise := noiseLeadWords[firstWordLower(name)]; noise {
		return nil
	}

	return &LineItem{
		Icon:              icon,
		Name:              name,
		Grade:             grade,
		Enhancement:       enhancement,
		DurabilityCurrent: durCur,
		DurabilityMax:     durMax,
		Price:             price,
		Currency:          currency,
		Quantity:          quantity,
	}
}

// ExtractPrice pulls the first price mention out of a line and returns the
// amount, its currency and the line with the mention removed. Currency
// defaults to gold; a nil price means no mention was found.
func ExtractPrice(line string) (*int64, models.Currency, string) {
	line = strings.TrimSpace(line)

	if m := rePriceSymbol.FindStringSubmatchIndex(line); m != nil {
		amount := parseAmount(line[m[2]:m[3]])
		currency := models.CurrencyGold
		if line[m[4]:m[5]] == cookieSymbol {
			currency = models.CurrencyCookie
		}
		return &amount, currency, cutMatch(line, m[0], m[1], "")
	}

	if m := rePriceThousands.FindStringSubmatchIndex(line); m != nil {
		amount := parseThousands(line[m[2]:m[3]])
		currency := models.CurrencyGold
		tail := ""
		if m[4] >= 0 {
			switch b := line[m[4]:m[5]]; b {
			case goldSymbol:
			case cookieSymbol:
				currency = models.CurrencyCookie
			default:
				tail = b
			}
		}
		return &amount, currency, cutMatch(line, m[0], m[1], tail)
	}

	if m := rePriceTextCookie.FindStringSubmatchIndex(line); m != nil {
		amount := parseAmount(line[m[2]:m[3]])
		tail := ""
		if m[4] >= 0 {
			tail = line[m[4]:m[5]]
		}
		return &amount, models.CurrencyCookie, cutMatch(line, m[0], m[1], tail)
	}

	if m := rePriceTextGold.FindStringSubmatchIndex(line); m != nil {
		amount := parseAmount(line[m[2]:m[3]])
		tail := ""
		if m[4] >= 0 {
			tail = line[m[4]:m[5]]
		}
		return &amount, models.CurrencyGold, cutMatch(line, m[0], m[1], tail)
	}

	if m := rePriceBare.FindStringSubmatchIndex(line); m != nil {
		amount := parseAmount(line[m[4]:m[5]])
		return &amount, models.CurrencyGold, strings.TrimSpace(line[:m[2]])
	}

	return nil, models.CurrencyGold, line
}

// HasPriceMarker reports whether a line carries an explicit currency-marked
// price. Bare trailing numbers do not count; they are too ambiguous to drive
// classification on their own.
func HasPriceMarker(line string) bool {
	return rePriceSymbol.MatchString(line) ||
		rePriceThousands.MatchString(line) ||
		rePriceTextCookie.MatchString(line) ||
		rePriceTextGold.MatchString(line)
}

func cutMatch(line string, start, end int, tail string) string {
	return strings.TrimSpace(line[:start] + tail + line[end:])
}

// parseAmount reads a digit run with space and dot thousand separators.
func parseAmount(raw string) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	n, _ := strconv.ParseInt(cleaned, 10, 64)
	return n
}

// parseThousands reads a "к" shorthand amount: "6.5" and "4,5" both mean 4500.
func parseThousands(raw string) int64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 1000))
}

// normalizeFakeRomanGrade rewrites bracket grades typed with lowercase latin
// L ("[lll+]") into proper Roman numerals. Idempotent on real grades.
func normalizeFakeRomanGrade(line string) string {
	return reFakeRoman.ReplaceAllStringFunc(line, func(tok string) string {
		inner := strings.ToLower(strings.Trim(tok, "[] \t"))
		if g, ok := fakeRomanGrades[inner]; ok {
			return "[" + g + "]"
		}
		return "[" + strings.ToUpper(inner) + "]"
	})
}

func extractGrade(line string) (string, string) {
	m := reGrade.FindStringSubmatchIndex(line)
	if m == nil {
		return "", line
	}
	grade := strings.ToUpper(line[m[2]:m[3]])
	return grade, line[:m[0]] + line[m[1]:]
}

func extractEnhancement(line string) (*int, string) {
	m := reEnhancement.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, line
	}
	n, err := strconv.Atoi(line[m[4]:m[5]])
	if err != nil {
		return nil, line
	}
	stripped := line[:m[0]] + line[m[2]:m[3]] + line[m[6]:m[7]] + line[m[1]:]
	return &n, stripped
}

func extractDurability(line string) (*int, *int, string) {
	m := reDurability.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, nil, line
	}
	cur, err1 := strconv.Atoi(line[m[2]:m[3]])
	max, err2 := strconv.Atoi(line[m[4]:m[5]])
	if err1 != nil || err2 != nil {
		return nil, nil, line
	}
	return &cur, &max, line[:m[0]] + line[m[1]:]
}

// splitIcon peels the leading pictographic run off a line. Stops at the
// first space, so "🎨 🧟" yields only the palette.
func splitIcon(line string) (string, string) {
	end := 0
	for _, r := range line {
		if !isPictographic(r) {
			break
		}
		end += utf8.RuneLen(r)
	}
	return line[:end], strings.TrimLeft(line[end:], " \t")
}

// isPictographic covers emoji and dingbat ranges plus the variation selector
// and joiner so composed emoji are consumed whole.
func isPictographic(r rune) bool {
	if unicode.In(r, unicode.So, unicode.Sk, unicode.Sm) {
		return true
	}
	switch {
	case r >= 0x1F000 && r <= 0x1FFFF:
		return true
	case r >= 0x2600 && r <= 0x27FF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	}
	return r == 0xFE0F || r == 0x200D
}

// cleanName strips quantity markers, trailing bulk-offer prepositions and
// edge punctuation, then collapses whitespace.
func cleanName(name string) string {
	name = reQuantityStrip.ReplaceAllString(name, "")
	name = reTrailingPrep.ReplaceAllString(name, "")
	name = reTrailingJunk.ReplaceAllString(name, "")
	name = reLeadingJunk.ReplaceAllString(name, "")
	name = reSpaceRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func firstWordLower(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
