// internal/parser/exchange.go
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tgmarket/market-backend/internal/models"
)

var (
	// "Мой X" / "Мои X" openers. Deliberately excludes "Моё" so prose like
	// "моё почтение" never opens a pair.
	reGiveLine = regexp.MustCompile(`(?i)^мо[йияе]\s+(.+)`)
	reWantLine = regexp.MustCompile(`(?i)^на\s+(.+)`)

	reQtyStrip        = regexp.MustCompile(`(?i)[-–—]?\s*\d+\s*шт\.?`)
	reTheirSurcharge  = regexp.MustCompile(`(?i)с\s+вашей|вашей\s+доплат`)
	reSurchargeWords  = regexp.MustCompile(`(?i)\s*с?\s*(?:вашей|моей)?\s*доплат[а-яё]*`)
)

// ParseExchanges scans a trade section for two-line barter statements: a
// "мой X" line immediately followed by a "на Y" line. A give line with no
// closing want line is discarded, not carried forward.
func (p *Parser) ParseExchanges(text string) []ExchangeItem {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var out []ExchangeItem
	for i := 0; i < len(lines); i++ {
		mGive := reGiveLine.FindStringSubmatch(lines[i])
		if mGive == nil {
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		mWant := reWantLine.FindStringSubmatch(lines[i+1])
		if mWant == nil {
			continue
		}

		give, _, _ := p.parseExchangeSide(mGive[1], false)
		want, amount, currency := p.parseExchangeSide(mWant[1], true)
		if give.Name == "" || want.Name == "" {
			i++
			continue
		}

		item := ExchangeItem{Give: give, Want: want}
		if amount != nil {
			item.SurchargeAmount = amount
			item.SurchargeCurrency = currency
			item.SurchargeDirection = models.SurchargeMe
			if reTheirSurcharge.MatchString(lines[i+1]) {
				item.SurchargeDirection = models.SurchargeThem
			}
		}
		out = append(out, item)
		i++
	}
	return out
}

// parseExchangeSide extracts quantity, grade, icon and name from one half of
// a barter line. Price extraction only runs on the want side, where an
// amount means a cash surcharge.
func (p *Parser) parseExchangeSide(s string, withPrice bool) (ExchangeSide, *int64, models.Currency) {
	side := ExchangeSide{Quantity: 1}

	if m := reQuantity.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			side.Quantity = n
		}
	}
	s = reQtyStrip.ReplaceAllString(s, " ")

	var amount *int64
	currency := models.CurrencyGold
	if withPrice {
		amount, currency, s = ExtractPrice(s)
		s = reSurchargeWords.ReplaceAllString(s, " ")
	}

	s = normalizeFakeRomanGrade(s)
	side.Grade, s = extractGrade(s)

	side.Icon, s = splitIcon(strings.TrimSpace(s))
	side.Name = cleanName(s)
	if _, noise := noiseLeadWords[firstWordLower(side.Name)]; noise {
		side.Name = ""
	}
	return side, amount, currency
}
