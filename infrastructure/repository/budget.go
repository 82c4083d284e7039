package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	budgetsTable   = "budgets b"
	budgetsColumns = "b.id, b.campaign_group_id, b.client_id, b.periods, b.allocations, b.campaigns, b.created_at"
)

// BudgetRepository grava snapshots de orçamento. Não existe update: cada alteração é um novo registro.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) (int64, error)
	GetLatest(ctx context.Context, campaignGroupID int64, clientID string) (*domain.Budget, error)
}

type budgetRepository struct {
	conn *postgres.Connection
}

func NewBudgetRepository(conn *postgres.Connection) BudgetRepository {
	return &budgetRepository{
		conn: conn,
	}
}

func (r *budgetRepository) Create(ctx context.Context, budget *domain.Budget) (int64, error) {
	periodsJSON, err := json.Marshal(budget.Periods)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar periods: %w", err)
	}

	allocationsJSON, err := json.Marshal(budget.Allocations)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar allocations: %w", err)
	}

	campaigns := budget.Campaigns
	if campaigns == nil {
		campaigns = domain.ChannelCampaigns{}
	}
	campaignsJSON, err := json.Marshal(campaigns)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar campaigns: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("budgets").
		Columns("campaign_group_id", "client_id", "periods", "allocations", "campaigns").
		Values(budget.CampaignGroupID, budget.ClientID, periodsJSON, allocationsJSON, campaignsJSON).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&budget.ID, &budget.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return budget.ID, nil
}

// GetLatest devolve o snapshot mais recente do grupo, ou nil quando não há nenhum
func (r *budgetRepository) GetLatest(ctx context.Context, campaignGroupID int64, clientID string) (*domain.Budget, error) {
	query, args, err := squirrel.
		Select(budgetsColumns).
		From(budgetsTable).
		Where(squirrel.Eq{
			"b.campaign_group_id": campaignGroupID,
			"b.client_id":         clientID,
		}).
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.getBudget(ctx, query, args)
}

func (r *budgetRepository) getBudget(ctx context.Context, query string, args []any) (*domain.Budget, error) {
	budget := &domain.Budget{}
	var periodsJSON, allocationsJSON, campaignsJSON []byte

	err := r.conn.QueryRowContext(ctx, query, args...).Scan(
		&budget.ID,
		&budget.CampaignGroupID,
		&budget.ClientID,
		&periodsJSON,
		&allocationsJSON,
		&campaignsJSON,
		&budget.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar orçamento: %w", err)
	}

	if err := json.Unmarshal(periodsJSON, &budget.Periods); err != nil {
		return nil, fmt.Errorf("erro ao deserializar JSON de periods: %w", err)
	}
	if err := json.Unmarshal(allocationsJSON, &budget.Allocations); err != nil {
		return nil, fmt.Errorf("erro ao deserializar JSON de allocations: %w", err)
	}
	if len(campaignsJSON) > 0 {
		if err := json.Unmarshal(campaignsJSON, &budget.Campaigns); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de campaigns: %w", err)
		}
	}

	return budget, nil
}
