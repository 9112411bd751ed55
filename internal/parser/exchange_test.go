package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgmarket/market-backend/internal/models"
)

func TestParseExchanges(t *testing.T) {
	p := New(Config{})

	t.Run("basic pair", func(t *testing.T) {
		text := "#обмен\nМой 🔖 Свиток заточки [III]\nНа 🧿 Камень душ"
		items := p.ParseExchanges(text)
		require.Len(t, items, 1)
		assert.Equal(t, "Свиток заточки", items[0].Give.Name)
		assert.Equal(t, "🔖", items[0].Give.Icon)
		assert.Equal(t, "III", items[0].Give.Grade)
		assert.Equal(t, 1, items[0].Give.Quantity)
		assert.Equal(t, "Камень душ", items[0].Want.Name)
		assert.Nil(t, items[0].SurchargeAmount)
	})

	t.Run("quantities on both sides", func(t *testing.T) {
		text := "Мои 🧪 Зелья маны - 3 шт\nНа 🧪 Зелья силы 2шт"
		items := p.ParseExchanges(text)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Give.Quantity)
		assert.Equal(t, "Зелья маны", items[0].Give.Name)
		assert.Equal(t, 2, items[0].Want.Quantity)
		assert.Equal(t, "Зелья силы", items[0].Want.Name)
	})

	t.Run("my surcharge", func(t *testing.T) {
		text := "Мой ⚔️ Меч зари\nНа 🗡 Клинок ночи + 2000💰"
		items := p.ParseExchanges(text)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].SurchargeAmount)
		assert.Equal(t, int64(2000), *items[0].SurchargeAmount)
		assert.Equal(t, models.CurrencyGold, items[0].SurchargeCurrency)
		assert.Equal(t, models.SurchargeMe, items[0].SurchargeDirection)
		assert.Equal(t, "Клинок ночи", items[0].Want.Name)
	})

	t.Run("their surcharge", func(t *testing.T) {
		text := "Мой ⚔️ Меч зари\nНа 🗡 Клинок ночи с вашей доплатой 2000💰"
		items := p.ParseExchanges(text)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].SurchargeAmount)
		assert.Equal(t, models.SurchargeThem, items[0].SurchargeDirection)
		assert.Equal(t, "Клинок ночи", items[0].Want.Name)
	})

	t.Run("give without want is discarded", func(t *testing.T) {
		text := "Мой ⚔️ Меч зари\nпишите в лс"
		assert.Empty(t, p.ParseExchanges(text))
	})

	t.Run("multiple pairs", func(t *testing.T) {
		text := "Мой ⚔️ Меч зари\nНа 🗡 Клинок ночи\nМои 🧪 Зелья маны\nНа 🧿 Камень душ"
		items := p.ParseExchanges(text)
		require.Len(t, items, 2)
		assert.Equal(t, "Меч зари", items[0].Give.Name)
		assert.Equal(t, "Камень душ", items[1].Want.Name)
	})

	t.Run("prose opener does not match", func(t *testing.T) {
		text := "Моё почтение торговцам\nНа рынке пусто"
		assert.Empty(t, p.ParseExchanges(text))
	})
}
