package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const campaignGroupsTable = "campaign_groups cg"

type CampaignGroupRepository interface {
	GetByIDAndClient(ctx context.Context, campaignGroupID int64, clientID string) (*domain.CampaignGroup, error)
}

type campaignGroupRepository struct {
	conn *postgres.Connection
}

func NewCampaignGroupRepository(conn *postgres.Connection) CampaignGroupRepository {
	return &campaignGroupRepository{
		conn: conn,
	}
}

// GetByIDAndClient só devolve o grupo quando ele pertence ao cliente
func (r *campaignGroupRepository) GetByIDAndClient(ctx context.Context, campaignGroupID int64, clientID string) (*domain.CampaignGroup, error) {
	query, args, err := squirrel.
		Select("cg.id, cg.client_id, cg.name, cg.flight_start, cg.flight_end, cg.enabled_channels, cg.profile_id, cg.created_at").
		From(campaignGroupsTable).
		Where(squirrel.Eq{
			"cg.id":        campaignGroupID,
			"cg.client_id": clientID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	group := &domain.CampaignGroup{}
	var profileID sql.NullString

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&group.ID,
		&group.ClientID,
		&group.Name,
		&group.FlightStart,
		&group.FlightEnd,
		pq.Array(&group.EnabledChannels),
		&profileID,
		&group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar grupo de campanhas: %w", err)
	}

	group.ProfileID = profileID.String

	return group, nil
}
