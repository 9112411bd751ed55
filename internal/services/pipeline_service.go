// internal/services/pipeline_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/parser"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/utils"
)

// PipelineService runs one message through the full pipeline: clean the
// text, split it into typed sections, parse each section and persist the
// rows. One bad line never aborts the message; failures are logged and the
// rest of the message still lands.
type PipelineService struct {
	parser    *parser.Parser
	resolver  *ResolverService
	anomaly   *AnomalyService
	messages  repository.MessageRepository
	listings  repository.ListingRepository
	exchanges repository.ExchangeRepository
	services  repository.ServiceRepository
	retryCfg  utils.RetryConfig
	log       *logrus.Logger
}

func NewPipelineService(
	p *parser.Parser,
	resolver *ResolverService,
	anomaly *AnomalyService,
	messages repository.MessageRepository,
	listings repository.ListingRepository,
	exchanges repository.ExchangeRepository,
	services repository.ServiceRepository,
	retryCfg utils.RetryConfig,
	log *logrus.Logger,
) *PipelineService {
	return &PipelineService{
		parser:    p,
		resolver:  resolver,
		anomaly:   anomaly,
		messages:  messages,
		listings:  listings,
		exchanges: exchanges,
		services:  services,
		retryCfg:  retryCfg,
		log:       log,
	}
}

// Process parses and persists one stored message, then marks it parsed.
// Safe to call twice for the same message: all writes are upserts.
func (s *PipelineService) Process(ctx context.Context, msg *models.Message) error {
	text := utils.CleanUTF8(msg.RawText)
	if text == "" {
		return s.finish(ctx, msg)
	}

	sections := s.parser.Split(text)
	if len(sections) == 0 {
		return s.finish(ctx, msg)
	}

	for _, section := range sections {
		switch section.Type {
		case parser.SectionSell:
			s.saveListings(ctx, msg, section.Text, models.ListingTypeSell)
		case parser.SectionBuy:
			s.saveListings(ctx, msg, section.Text, models.ListingTypeBuy)
		case parser.SectionTrade:
			s.saveExchanges(ctx, msg, section.Text)
		case parser.SectionService:
			s.saveServices(ctx, msg, section.Text)
		}
	}

	return s.finish(ctx, msg)
}

func (s *PipelineService) finish(ctx context.Context, msg *models.Message) error {
	if err := s.messages.MarkParsed(ctx, msg.ID); err != nil {
		return fmt.Errorf("mark parsed: %w", err)
	}
	return nil
}

func (s *PipelineService) saveListings(ctx context.Context, msg *models.Message, text string, listingType models.ListingType) {
	for _, item := range s.parser.ParseProductLines(text) {
		result, err := s.resolver.Resolve(ctx, item.Name, item.Grade, item.Icon)
		if err != nil {
			s.logLineError(msg, item.Name, err)
			continue
		}
		if result == nil {
			continue // queued for moderation
		}

		listing := &models.Listing{
			MessageID:         msg.ID,
			ChatUserID:        msg.ChatUserID,
			ProductID:         result.Product.ID,
			Type:              listingType,
			Price:             item.Price,
			Currency:          item.Currency,
			Quantity:          item.Quantity,
			Enhancement:       item.Enhancement,
			DurabilityCurrent: item.DurabilityCurrent,
			DurabilityMax:     item.DurabilityMax,
			PostedAt:          postedAt(msg),
			Status:            models.ListingStatusOK,
		}

		if item.Price != nil {
			status, reason, err := s.anomaly.Check(ctx, result.Product.EffectiveID(), listingType, item.Currency, *item.Price)
			if err != nil {
				s.log.WithError(err).Warn("anomaly check failed, keeping listing unflagged")
			} else {
				listing.Status = status
				listing.AnomalyReason = reason
			}
		}

		if err := s.persist(ctx, func() error { return s.listings.Upsert(ctx, listing) }); err != nil {
			s.logLineError(msg, item.Name, err)
		}
	}
}

func (s *PipelineService) saveExchanges(ctx context.Context, msg *models.Message, text string) {
	for _, item := range s.parser.ParseExchanges(text) {
		give, err := s.resolver.Resolve(ctx, item.Give.Name, item.Give.Grade, item.Give.Icon)
		if err != nil {
			s.logLineError(msg, item.Give.Name, err)
			continue
		}
		want, err := s.resolver.Resolve(ctx, item.Want.Name, item.Want.Grade, item.Want.Icon)
		if err != nil {
			s.logLineError(msg, item.Want.Name, err)
			continue
		}
		// Both sides must resolve; queued sides will come back on reparse.
		if give == nil || want == nil {
			continue
		}

		exchange := &models.Exchange{
			MessageID:     msg.ID,
			ChatUserID:    msg.ChatUserID,
			GiveProductID: give.Product.ID,
			GiveQuantity:  item.Give.Quantity,
			WantProductID: want.Product.ID,
			WantQuantity:  item.Want.Quantity,
			PostedAt:      postedAt(msg),
			Status:        models.ListingStatusOK,
		}
		if item.SurchargeAmount != nil {
			currency := item.SurchargeCurrency
			direction := item.SurchargeDirection
			exchange.SurchargeAmount = item.SurchargeAmount
			exchange.SurchargeCurrency = &currency
			exchange.SurchargeDirection = &direction
		}

		if err := s.persist(ctx, func() error { return s.exchanges.Upsert(ctx, exchange) }); err != nil {
			s.logLineError(msg, item.Give.Name, err)
		}
	}
}

func (s *PipelineService) saveServices(ctx context.Context, msg *models.Message, text string) {
	for _, item := range s.parser.ParseServices(text) {
		normalized := NormalizeTitle(item.Name)
		if normalized == "" {
			continue
		}

		service, err := s.services.FindOrCreate(ctx, item.Icon, item.Name, normalized)
		if err != nil {
			s.logLineError(msg, item.Name, err)
			continue
		}

		listingType := models.ServiceListingOffer
		if item.Wanted {
			listingType = models.ServiceListingWanted
		}
		listing := &models.ServiceListing{
			MessageID:   msg.ID,
			ChatUserID:  msg.ChatUserID,
			ServiceID:   service.ID,
			Type:        listingType,
			Price:       item.Price,
			Currency:    item.Currency,
			Description: item.Description,
			PostedAt:    postedAt(msg),
			Status:      models.ListingStatusOK,
		}

		if err := s.persist(ctx, func() error { return s.services.UpsertListing(ctx, listing) }); err != nil {
			s.logLineError(msg, item.Name, err)
		}
	}
}

func (s *PipelineService) persist(ctx context.Context, fn func() error) error {
	return utils.Retry(ctx, s.retryCfg, nil, utils.IsTransientDBError, fn)
}

func (s *PipelineService) logLineError(msg *models.Message, name string, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"message_id": msg.ID,
		"item":       name,
	}).Error("pipeline line failed")
}

func postedAt(msg *models.Message) time.Time {
	if !msg.SentAt.IsZero() {
		return msg.SentAt
	}
	return msg.CreatedAt
}
