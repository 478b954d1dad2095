package catalog

import (
	"context"
	"fmt"
	"time"

	packagesRepo "jetset/database/repository/packages"
	"jetset/models"
)

// KnowledgeBaseService answers pricing and venue questions the static catalog
// cannot. Price lookups go Redis cache first, then the packages collection.
type KnowledgeBaseService interface {
	LookupPrice(ctx context.Context, activity models.Activity, vehicleModel string, durationMin int) (models.Money, error)
	Packages(ctx context.Context) ([]models.TourPackage, error)
	FAQ() []models.FAQEntry
	About() models.AboutInfo
	Location() models.Location
}

// DefaultKnowledgeBase is the production implementation.
type DefaultKnowledgeBase struct {
	Static   *StaticCatalog
	Repo     packagesRepo.TourPackageRepository
	CacheTTL time.Duration
}

func NewDefaultKnowledgeBase(
	static *StaticCatalog,
	repo packagesRepo.TourPackageRepository,
	cacheTTL time.Duration,
) (*DefaultKnowledgeBase, error) {
	if static == nil || repo == nil {
		return nil, fmt.Errorf("knowledge base initialization error: one or more dependencies are nil")
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &DefaultKnowledgeBase{
		Static:   static,
		Repo:     repo,
		CacheTTL: cacheTTL,
	}, nil
}
