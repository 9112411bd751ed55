package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgmarket/market-backend/internal/models"
)

func i64(n int64) *int64 { return &n }
func iptr(n int) *int    { return &n }

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		price    *int64
		currency models.Currency
		rest     string
	}{
		{"gold symbol", "Чекан Маржаны - 5500💰", i64(5500), models.CurrencyGold, "Чекан Маржаны -"},
		{"cookie symbol", "Кольцо Ареса = 180🍪", i64(180), models.CurrencyCookie, "Кольцо Ареса ="},
		{"dot separated", "Ледяная кольчуга 30.000💰", i64(30000), models.CurrencyGold, "Ледяная кольчуга"},
		{"space separated", "Сапоги 5 500💰", i64(5500), models.CurrencyGold, "Сапоги"},
		{"thousands shorthand", "T.Rex Crusher Armor 8к", i64(8000), models.CurrencyGold, "T.Rex Crusher Armor"},
		{"thousands decimal dot", "Амулет 6.5к", i64(6500), models.CurrencyGold, "Амулет"},
		{"thousands decimal comma", "Ремкомплект 4,5к💰", i64(4500), models.CurrencyGold, "Ремкомплект"},
		{"thousands with symbol", "Зелье маны 10к💰", i64(10000), models.CurrencyGold, "Зелье маны"},
		{"thousands large", "Доспех света 150к💰", i64(150000), models.CurrencyGold, "Доспех света"},
		{"thousands cookie symbol", "Браслет 3к🍪", i64(3000), models.CurrencyCookie, "Браслет"},
		{"word not thousands", "Свиток 3 книги", nil, models.CurrencyGold, "Свиток 3 книги"},
		{"textual gold", "Последний шанс III - 3000з", i64(3000), models.CurrencyGold, "Последний шанс III -"},
		{"textual gold full", "Сфера 5000 злато", i64(5000), models.CurrencyGold, "Сфера"},
		{"textual cookie", "Пирог 90 печенек", i64(90), models.CurrencyCookie, "Пирог"},
		{"textual cookie short", "Пирог 12 печ.", i64(12), models.CurrencyCookie, "Пирог"},
		{"bare trailing", "Корка хлеба [II] 650", i64(650), models.CurrencyGold, "Корка хлеба [II]"},
		{"bare after colon", "Перчатки: 4000", i64(4000), models.CurrencyGold, "Перчатки:"},
		{"bare after dash", "Удача торговца - 200", i64(200), models.CurrencyGold, "Удача торговца -"},
		{"bare after equals", "Шлем [IV] = 350", i64(350), models.CurrencyGold, "Шлем [IV] ="},
		{"enhancement is not a price", "Перчатки силы +10", nil, models.CurrencyGold, "Перчатки силы +10"},
		{"durability is not a price", "Меч героя (22/60)", nil, models.CurrencyGold, "Меч героя (22/60)"},
		{"no price", "Философский камень", nil, models.CurrencyGold, "Философский камень"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, currency, rest := ExtractPrice(tt.line)
			if tt.price == nil {
				assert.Nil(t, price)
			} else {
				require.NotNil(t, price)
				assert.Equal(t, *tt.price, *price)
			}
			assert.Equal(t, tt.currency, currency)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestNormalizeFakeRomanGrade(t *testing.T) {
	assert.Equal(t, "Меч [III+]", normalizeFakeRomanGrade("Меч [lll+]"))
	assert.Equal(t, "Меч [III]", normalizeFakeRomanGrade("Меч [lll]"))
	assert.Equal(t, "Меч [II]", normalizeFakeRomanGrade("Меч [ll]"))
	assert.Equal(t, "Меч [I]", normalizeFakeRomanGrade("Меч [ l ]"))
	// already-normalized grades pass through untouched
	assert.Equal(t, "Меч [III+]", normalizeFakeRomanGrade("Меч [III+]"))
	assert.Equal(t, "Меч [IV]", normalizeFakeRomanGrade("Меч [IV]"))
}

func TestTokenize(t *testing.T) {
	p := New(Config{})

	tests := []struct {
		name string
		line string
		want *LineItem
	}{
		{
			name: "icon grade and symbol price",
			line: "🔪 Чекан Маржаны [III+] - 5500💰",
			want: &LineItem{Icon: "🔪", Name: "Чекан Маржаны", Grade: "III+", Price: i64(5500), Currency: models.CurrencyGold},
		},
		{
			name: "thousands shorthand price",
			line: "🎽 T.Rex Crusher Armor [III] 8к",
			want: &LineItem{Icon: "🎽", Name: "T.Rex Crusher Armor", Grade: "III", Price: i64(8000), Currency: models.CurrencyGold},
		},
		{
			name: "fake roman grade",
			line: "🗡 Клинок зари [lll+] 12к",
			want: &LineItem{Icon: "🗡", Name: "Клинок зари", Grade: "III+", Price: i64(12000), Currency: models.CurrencyGold},
		},
		{
			name: "bare trailing price",
			line: "🍞 Корка хлеба [II] 650",
			want: &LineItem{Icon: "🍞", Name: "Корка хлеба", Grade: "II", Price: i64(650), Currency: models.CurrencyGold},
		},
		{
			name: "enhancement and durability",
			line: "⚔️ Меч героя +8 (22/60) 1500💰",
			want: &LineItem{Icon: "⚔️", Name: "Меч героя", Enhancement: iptr(8), DurabilityCurrent: iptr(22), DurabilityMax: iptr(60), Price: i64(1500), Currency: models.CurrencyGold},
		},
		{
			name: "enhancement not read as price",
			line: "🧤 Перчатки силы +10",
			want: &LineItem{Icon: "🧤", Name: "Перчатки силы", Enhancement: iptr(10), Currency: models.CurrencyGold},
		},
		{
			name: "enhancement next to bare price",
			line: "🗡 Кинжал ночи +1 5500",
			want: &LineItem{Icon: "🗡", Name: "Кинжал ночи", Enhancement: iptr(1), Price: i64(5500), Currency: models.CurrencyGold},
		},
		{
			name: "recipe keeps item after colon",
			line: "📄Рецепт [III]: Ледяные перчатки стража - 250з",
			want: &LineItem{Icon: "📄", Name: "Рецепт: Ледяные перчатки стража", Grade: "III", Price: i64(250), Currency: models.CurrencyGold},
		},
		{
			name: "quantity captured and stripped",
			line: "🌾 Пшеница 20 шт - 300💰",
			want: &LineItem{Icon: "🌾", Name: "Пшеница", Quantity: iptr(20), Price: i64(300), Currency: models.CurrencyGold},
		},
		{
			name: "bulk offer tail stripped",
			line: "🔧 Ремкомплект - по 4,5к💰",
			want: &LineItem{Icon: "🔧", Name: "Ремкомплект", Price: i64(4500), Currency: models.CurrencyGold},
		},
		{
			name: "cookie currency",
			line: "💍 Кольцо Ареса [IV] = 180🍪",
			want: &LineItem{Icon: "💍", Name: "Кольцо Ареса", Grade: "IV", Price: i64(180), Currency: models.CurrencyCookie},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Tokenize(tt.line)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeRejectsNoise(t *testing.T) {
	p := New(Config{})

	lines := []string{
		"по 150💰",
		"по 400💰 за, только набором, только оптом",
		"обмены на то, что ниже, кселы/талы",
		"⚡️",
		"-",
		"",
	}
	for _, line := range lines {
		assert.Nil(t, p.Tokenize(line), "line %q should not produce an item", line)
	}
}

func TestSplitIcon(t *testing.T) {
	icon, rest := splitIcon("🔪 Чекан Маржаны")
	assert.Equal(t, "🔪", icon)
	assert.Equal(t, "Чекан Маржаны", rest)

	// composed emoji with variation selector consumed whole
	icon, rest = splitIcon("⚔️Меч героя")
	assert.Equal(t, "⚔️", icon)
	assert.Equal(t, "Меч героя", rest)

	// only the leading run counts
	icon, rest = splitIcon("🎨 🧟 два значка")
	assert.Equal(t, "🎨", icon)
	assert.Equal(t, "🧟 два значка", rest)

	icon, rest = splitIcon("Без значка")
	assert.Equal(t, "", icon)
	assert.Equal(t, "Без значка", rest)
}
