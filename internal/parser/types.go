// internal/parser/types.go
package parser

import "github.com/tgmarket/market-backend/internal/models"

// SectionType classifies a block of a trade message.
type SectionType string

const (
	SectionSell    SectionType = "sell"
	SectionBuy     SectionType = "buy"
	SectionTrade   SectionType = "trade"
	SectionService SectionType = "service"
)

// sectionOrder fixes the detection order; tag matches win over keyword
// fallback, which wins over the price-line fallback.
var sectionOrder = []SectionType{SectionSell, SectionBuy, SectionTrade, SectionService}

// Section is one contiguous typed span of a message. Spans of the same type
// occurring multiple times are concatenated in order of appearance.
type Section struct {
	Type SectionType
	Text string
}

// LineItem is one typed line extracted from a sell/buy/service block.
// Built once by Tokenize and never mutated downstream.
type LineItem struct {
	Icon              string
	Name              string
	Grade             string
	Enhancement       *int
	DurabilityCurrent *int
	DurabilityMax     *int
	Price             *int64
	Currency          models.Currency
	Quantity          *int
}

// ExchangeSide is one half of a barter statement.
type ExchangeSide struct {
	Icon     string
	Name     string
	Grade    string
	Quantity int
}

// ExchangeItem is a parsed two-line "give X / want Y" barter statement.
// Surcharge fields are meaningful only when SurchargeAmount is set.
type ExchangeItem struct {
	Give               ExchangeSide
	Want               ExchangeSide
	SurchargeAmount    *int64
	SurchargeCurrency  models.Currency
	SurchargeDirection models.SurchargeDirection
}

// ServiceItem is a parsed service offer or request line.
type ServiceItem struct {
	Wanted      bool
	Icon        string
	Name        string
	Price       *int64
	Currency    models.Currency
	Description string
}

// Config carries the hashtag and keyword maps per section type. Zero values
// fall back to the chat's conventions via DefaultConfig.
type Config struct {
	Tags     map[SectionType][]string
	Keywords map[SectionType][]string
	// HireTags is the subset of service tags that flips a service section
	// from "offer" to "wanted".
	HireTags []string
}

// DefaultConfig returns the tag and keyword conventions of the source chat.
func DefaultConfig() Config {
	return Config{
		Tags: map[SectionType][]string{
			SectionSell:    {"#продам", "#продаю", "#продажа", "#sell"},
			SectionBuy:     {"#куплю", "#скупка", "#скуплю", "#скупаю", "#buy", "#ищу"},
			SectionTrade:   {"#обмен", "#обменяю", "#меняю", "#мен"},
			SectionService: {"#услуги", "#услуга", "#крафтер", "#алхимик", "#заточки", "#свитки", "#найму", "#найм"},
		},
		Keywords: map[SectionType][]string{
			SectionSell:    {"продам", "продаю", "продается", "продаётся"},
			SectionBuy:     {"куплю", "покупаю", "скупаю"},
			SectionTrade:   {"обменяю", "меняю"},
			SectionService: {"предлагаю услуги", "выполню", "найму"},
		},
		HireTags: []string{"#найму", "#найм"},
	}
}

// Parser splits free-text trade posts into typed line items.
type Parser struct {
	cfg Config
}

func New(cfg Config) *Parser {
	def := DefaultConfig()
	if cfg.Tags == nil {
		cfg.Tags = def.Tags
	}
	if cfg.Keywords == nil {
		cfg.Keywords = def.Keywords
	}
	if cfg.HireTags == nil {
		cfg.HireTags = def.HireTags
	}
	return &Parser{cfg: cfg}
}
