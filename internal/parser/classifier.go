// internal/parser/classifier.go
package parser

import (
	"sort"
	"strings"
	"unicode"
)

// DetectTypes returns the section types present in a message, in the fixed
// sell/buy/trade/service order. Hashtags anywhere in the text win; when the
// post carries no tags, a line-leading keyword decides; when there is not
// even a keyword, a line with a currency-marked price reads as a sale.
func (p *Parser) DetectTypes(text string) []SectionType {
	lower := lowerRunesString(text)

	var types []SectionType
	for _, st := range sectionOrder {
		for _, tag := range p.cfg.Tags[st] {
			if strings.Contains(lower, strings.ToLower(tag)) {
				types = append(types, st)
				break
			}
		}
	}
	if len(types) > 0 {
		return types
	}

	byKeyword := make(map[SectionType]bool)
	for _, line := range strings.Split(lower, "\n") {
		line = strings.TrimSpace(line)
		for _, st := range sectionOrder {
			if byKeyword[st] {
				continue
			}
			for _, kw := range p.cfg.Keywords[st] {
				if strings.HasPrefix(line, strings.ToLower(kw)) {
					byKeyword[st] = true
					break
				}
			}
		}
	}
	if len(byKeyword) > 0 {
		for _, st := range sectionOrder {
			if byKeyword[st] {
				types = append(types, st)
			}
		}
		return types
	}

	for _, line := range strings.Split(text, "\n") {
		if HasPriceMarker(line) {
			return []SectionType{SectionSell}
		}
	}

	return nil
}

// Split breaks a message into typed sections at hashtag positions. Text
// before the first tag is dropped; greetings must not turn into items.
// Multiple spans of one type are concatenated with newlines, keeping
// appearance order.
func (p *Parser) Split(text string) []Section {
	textRunes := []rune(text)
	lowerRunes := []rune(lowerRunesString(text))

	type tagPos struct {
		pos int
		st  SectionType
	}
	var positions []tagPos
	for _, st := range sectionOrder {
		for _, tag := range p.cfg.Tags[st] {
			if i := indexRunes(lowerRunes, []rune(strings.ToLower(tag))); i >= 0 {
				positions = append(positions, tagPos{pos: i, st: st})
			}
		}
	}

	if len(positions) == 0 {
		types := p.DetectTypes(text)
		if len(types) == 0 {
			return nil
		}
		return []Section{{Type: types[0], Text: text}}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].pos < positions[j].pos })

	merged := make(map[SectionType][]string)
	var order []SectionType
	for i, tp := range positions {
		start := tp.pos
		end := len(textRunes)
		if i+1 < len(positions) {
			end = positions[i+1].pos
		}
		span := strings.TrimSpace(string(textRunes[start:end]))
		if span == "" {
			continue
		}
		if _, seen := merged[tp.st]; !seen {
			order = append(order, tp.st)
		}
		merged[tp.st] = append(merged[tp.st], span)
	}

	sections := make([]Section, 0, len(order))
	for _, st := range order {
		sections = append(sections, Section{Type: st, Text: strings.Join(merged[st], "\n")})
	}
	return sections
}

// ParseProductLines tokenizes every product line of a sell/buy section.
// Hashtag lines contribute their remainder after the tag token; lines
// holding several comma-separated iconed items are split apart first.
func (p *Parser) ParseProductLines(text string) []LineItem {
	var items []LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			line = strings.TrimSpace(stripLeadingTag(line))
			if line == "" {
				continue
			}
		}
		for _, sub := range splitBeforeIcons(line) {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			if item := p.Tokenize(sub); item != nil {
				items = append(items, *item)
			}
		}
	}
	return items
}

// ParseServices tokenizes a service section. The whole section is "wanted"
// when a hire tag is present, otherwise an offer. Description keeps the raw
// line for moderators.
func (p *Parser) ParseServices(text string) []ServiceItem {
	wanted := false
	lower := strings.ToLower(text)
	for _, tag := range p.cfg.HireTags {
		if strings.Contains(lower, strings.ToLower(tag)) {
			wanted = true
			break
		}
	}

	var out []ServiceItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			line = strings.TrimSpace(stripLeadingTag(line))
			if line == "" {
				continue
			}
		}
		item := p.Tokenize(line)
		if item == nil {
			continue
		}
		out = append(out, ServiceItem{
			Wanted:      wanted,
			Icon:        item.Icon,
			Name:        item.Name,
			Price:       item.Price,
			Currency:    item.Currency,
			Description: line,
		})
	}
	return out
}

// stripLeadingTag drops the first whitespace-delimited token of a hashtag
// line, leaving whatever item text follows the tag.
func stripLeadingTag(line string) string {
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		return line[i:]
	}
	return ""
}

// splitBeforeIcons cuts a line at every comma directly followed by an icon,
// so "🗡 Меч, 🛡 Щит - 100💰" parses as two items.
func splitBeforeIcons(line string) []string {
	runes := []rune(line)
	var parts []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && isPictographic(runes[j]) {
			parts = append(parts, string(runes[start:i]))
			start = j
			i = j - 1
		}
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// lowerRunesString lowercases rune-by-rune so rune offsets stay aligned with
// the original text.
func lowerRunesString(s string) string {
	return strings.Map(unicode.ToLower, s)
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
