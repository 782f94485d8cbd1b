package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	BrandID     uuid.UUID
	Name        string
	Description *string
}

const sqlCreateCampaign = `
INSERT INTO campaigns (brand_id, name, description)
VALUES ($1, $2, $3)
RETURNING id, brand_id, name, description, status, created_at, updated_at
`

// CreateCampaign creates a new campaign
func (s *Store) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlCreateCampaign,
		params.BrandID,
		params.Name,
		params.Description)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignByID = `
SELECT id, brand_id, name, description, status, created_at, updated_at
FROM campaigns
WHERE id = $1
`

// GetCampaignByID retrieves a campaign by ID
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignsByBrandID = `
SELECT id, brand_id, name, description, status, created_at, updated_at
FROM campaigns
WHERE brand_id = $1
ORDER BY created_at DESC
`

// GetCampaignsByBrandID retrieves all campaigns owned by a brand
func (s *Store) GetCampaignsByBrandID(ctx context.Context, brandID uuid.UUID) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlGetCampaignsByBrandID, brandID)
	if err != nil {
		s.logger.Error(ctx, "failed to get campaigns by brand id", err)
		return nil, fmt.Errorf("failed to get campaigns by brand id: %w", err)
	}
	return campaigns, nil
}
