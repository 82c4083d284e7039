package reconciling

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/allocating"
	"github.com/vfg2006/campaign-manager-api/pkg/metrics"
)

// AdsetCreator é a plataforma que materializa o adset
type AdsetCreator interface {
	Credentials(ctx context.Context) (domain.PlatformCredentials, error)
	CreateAdset(ctx context.Context, req domain.AdsetCreationRequest) (*domain.AdsetCreationResponse, error)
}

type Reconciler struct {
	platform   AdsetCreator
	groupRepo  repository.CampaignGroupRepository
	budgetRepo repository.BudgetRepository
}

func NewReconciler(
	platform AdsetCreator,
	groupRepo repository.CampaignGroupRepository,
	budgetRepo repository.BudgetRepository,
) *Reconciler {
	return &Reconciler{
		platform:   platform,
		groupRepo:  groupRepo,
		budgetRepo: budgetRepo,
	}
}

// Reconcile cria o adset do job na plataforma e grava um novo snapshot de orçamento com o resultado.
//
// O snapshot carregado nunca é alterado. Qualquer erro antes da gravação deixa o histórico intacto.
func (r *Reconciler) Reconcile(ctx context.Context, job *domain.Job) error {
	data := job.Data

	logger := logrus.WithFields(logrus.Fields{
		"job_id":            job.ID,
		"campaign_id":       data.CampaignID,
		"campaign_group_id": data.CampaignGroupID,
		"adset_id":          data.Adset.ID,
	})

	creds, err := r.platform.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("erro ao obter credenciais da plataforma: %w", err)
	}

	resp, err := r.platform.CreateAdset(ctx, domain.AdsetCreationRequest{
		Adset:       data.Adset,
		OrderID:     data.OrderID,
		Type:        data.Type,
		ProfileID:   data.ProfileID,
		Credentials: creds,
	})
	if err != nil {
		return err
	}
	if resp == nil || len(resp.Data) == 0 {
		return ErrEmptyAdsetResult
	}

	group, err := r.groupRepo.GetByIDAndClient(ctx, data.CampaignGroupID, data.ClientID)
	if err != nil {
		return fmt.Errorf("erro ao buscar grupo de campanhas: %w", err)
	}
	if group == nil {
		return fmt.Errorf("%w: grupo %d", ErrNotFound, data.CampaignGroupID)
	}

	latest, err := r.budgetRepo.GetLatest(ctx, group.ID, group.ClientID)
	if err != nil {
		return fmt.Errorf("erro ao buscar orçamento atual: %w", err)
	}
	if latest == nil {
		return fmt.Errorf("%w: nenhum orçamento para o grupo %d", ErrNotFound, group.ID)
	}

	adset := domain.AdsetResult{
		"id":   data.Adset.ID,
		"data": resp.Data[0],
	}

	campaigns, err := attachAdset(latest.Campaigns, data.CampaignID, job.ID, adset)
	if err != nil {
		return err
	}

	snapshot := &domain.Budget{
		CampaignGroupID: latest.CampaignGroupID,
		ClientID:        latest.ClientID,
		Periods:         latest.Periods,
		Allocations:     latest.Allocations,
		Campaigns:       campaigns,
	}

	budgetID, err := r.budgetRepo.Create(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("erro ao gravar novo snapshot de orçamento: %w", err)
	}
	metrics.BudgetSnapshotsCreated.WithLabelValues("reconcile").Inc()

	logger.WithFields(logrus.Fields{
		"previous_budget_id": latest.ID,
		"budget_id":          budgetID,
	}).Info("Adset reconciliado no orçamento")

	return nil
}

// attachAdset devolve uma cópia das campanhas com o adset no lugar do marcador pendente
// do job ou, sem marcador, anexado ao final da lista da campanha.
func attachAdset(current domain.ChannelCampaigns, campaignID string, jobID int64, adset domain.AdsetResult) (domain.ChannelCampaigns, error) {
	campaigns := current.Clone()

	channel, campaignType, index, ok := campaigns.Find(campaignID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCampaignNotFound, campaignID)
	}

	bucket := campaigns[channel][campaignType]
	if allocating.HasPendingAdset(bucket[index:index+1], jobID) {
		bucket = allocating.MergeAdsetResultIntoCampaign(bucket, jobID, adset)
	} else {
		bucket[index].Adsets = append(bucket[index].Adsets, domain.ResolvedAdset(adset))
	}
	campaigns[channel][campaignType] = bucket

	return campaigns, nil
}
