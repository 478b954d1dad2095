package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"jetset/models"
	"jetset/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrPriceNotFound means neither the static table, the cache nor the packages
// collection carries the combination.
var ErrPriceNotFound = errors.New("price not found for this combination")

const kbPricePrefix = "kb:price:"

func priceKey(activity models.Activity, vehicleModel string, durationMin int) string {
	return fmt.Sprintf("%s%s:%s:%d", kbPricePrefix, activity, vehicleModel, durationMin)
}

// LookupPrice resolves a per-unit base price: static table, then Redis cache,
// then the packages collection. Collection hits are cached for CacheTTL.
func (s *DefaultKnowledgeBase) LookupPrice(ctx context.Context, activity models.Activity, vehicleModel string, durationMin int) (models.Money, error) {
	if p, ok := s.Static.Lookup(activity, vehicleModel, durationMin); ok {
		return p, nil
	}

	logger := utils.GetLogger()
	client := utils.GetCacheClient()
	key := priceKey(activity, vehicleModel, durationMin)

	val, err := client.Get(ctx, key).Result()
	if err == nil {
		n, perr := strconv.ParseInt(val, 10, 64)
		if perr == nil {
			return models.Money(n), nil
		}
		logger.Warn("unreadable cached price, refetching", zap.String("key", key), zap.Error(perr))
	} else if err != redis.Nil {
		logger.Warn("price cache read failed", zap.String("key", key), zap.Error(err))
	}

	pkg, err := s.Repo.FindByFields(ctx, activity, vehicleModel, durationMin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrPriceNotFound
		}
		return 0, fmt.Errorf("knowledge base lookup failed: %w", err)
	}

	if err := client.Set(ctx, key, int64(pkg.Price), s.CacheTTL).Err(); err != nil {
		logger.Warn("price cache write failed", zap.String("key", key), zap.Error(err))
	}
	return pkg.Price, nil
}

// Packages lists every offering: the static tariff table merged with the
// packages collection. A collection failure degrades to the static table.
func (s *DefaultKnowledgeBase) Packages(ctx context.Context) ([]models.TourPackage, error) {
	out := s.Static.Entries()

	stored, err := s.Repo.GetAll(ctx)
	if err != nil {
		utils.GetLogger().Warn("packages collection unavailable, serving static tariffs only", zap.Error(err))
	} else {
		out = append(out, stored...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Activity != out[j].Activity {
			return out[i].Activity < out[j].Activity
		}
		if out[i].VehicleModel != out[j].VehicleModel {
			return out[i].VehicleModel < out[j].VehicleModel
		}
		return out[i].DurationMin < out[j].DurationMin
	})
	return out, nil
}

// FAQ returns the fixed venue question/answer set.
func (s *DefaultKnowledgeBase) FAQ() []models.FAQEntry {
	out := make([]models.FAQEntry, len(staticFAQ))
	copy(out, staticFAQ)
	return out
}

// About returns the operator profile.
func (s *DefaultKnowledgeBase) About() models.AboutInfo {
	return models.AboutInfo{
		Name:          "Jetset Dubai",
		Description:   "Desert adventure tours on the edge of Dubai: dune buggies, quad bikes and desert safaris, all departing from Jetset Desert Camp.",
		OpeningHours:  "Daily, 9:00 AM to 7:00 PM Dubai time",
		PaymentNotes:  "Pay at the venue by cash, card or crypto (BTC/ETH). Card payments carry 5% VAT.",
		PickupFeeNote: "Hotel pickup and drop-off adds a flat 350 AED.",
		Currencies:    []string{"AED", "USD", "EUR", "GBP"},
	}
}

// Location returns the fixed meeting point.
func (s *DefaultKnowledgeBase) Location() models.Location {
	return s.Static.Location()
}

var staticFAQ = []models.FAQEntry{
	{
		ID:       "location",
		Question: "Where do tours start?",
		Answer:   "All tours depart from Jetset Desert Camp. Your confirmation includes a map link, and hotel pickup is available for a flat 350 AED.",
	},
	{
		ID:       "hours",
		Question: "What are your operating hours?",
		Answer:   "We run daily from 9:00 AM to 7:00 PM Dubai time. Every tour has to finish by 7:00 PM.",
	},
	{
		ID:       "payment",
		Question: "How do I pay?",
		Answer:   "Nothing is charged online. Pay at the venue by cash (AED, USD, EUR or GBP), card or crypto (BTC/ETH). Card payments carry 5% VAT.",
	},
	{
		ID:       "license",
		Question: "Do I need a driving licence?",
		Answer:   "No licence is needed. Drivers must be 16 or older for quads and buggies; younger guests can join as passengers on a safari.",
	},
	{
		ID:       "gear",
		Question: "What should I bring?",
		Answer:   "Closed shoes, sunglasses and sunscreen. Helmets and goggles are provided, and water is included on every tour.",
	},
}
