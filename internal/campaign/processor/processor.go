package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"errors"

	"github.com/google/uuid"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// Store is the slice of the data layer the campaign processor needs.
type Store interface {
	CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	GetCampaignsByBrandID(ctx context.Context, brandID uuid.UUID) ([]store.Campaign, error)
	GetTasksByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]store.Task, error)
}

type CampaignProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) CampaignProcessor {
	return CampaignProcessor{store: store, logger: logger}
}

// CreateCampaign creates a campaign owned by the given brand.
func (p *CampaignProcessor) CreateCampaign(ctx context.Context, brandID uuid.UUID, name string, description *string) (store.Campaign, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "brand_id", Value: brandID.String()})

	campaign, err := p.store.CreateCampaign(ctx, store.CreateCampaignParams{
		BrandID:     brandID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create campaign", err)
		return store.Campaign{}, err
	}
	return campaign, nil
}

// GetCampaign returns one campaign.
func (p *CampaignProcessor) GetCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	return campaign, nil
}

// ListCampaigns returns the brand's campaigns, newest first.
func (p *CampaignProcessor) ListCampaigns(ctx context.Context, brandID uuid.UUID) ([]store.Campaign, error) {
	campaigns, err := p.store.GetCampaignsByBrandID(ctx, brandID)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaigns", err)
		return nil, err
	}
	return campaigns, nil
}

// GetCampaignTasks returns the campaign's tasks.
func (p *CampaignProcessor) GetCampaignTasks(ctx context.Context, campaignID uuid.UUID) ([]store.Task, error) {
	if _, err := p.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	tasks, err := p.store.GetTasksByCampaignID(ctx, campaignID)
	if err != nil {
		p.logger.Error(ctx, "failed to get campaign tasks", err)
		return nil, err
	}
	return tasks, nil
}
