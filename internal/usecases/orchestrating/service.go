package orchestrating

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/allocating"
	"github.com/vfg2006/campaign-manager-api/pkg/metrics"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

// OrderCreator cria na plataforma a order que agrupa os adsets de uma campanha
type OrderCreator interface {
	Credentials(ctx context.Context) (domain.PlatformCredentials, error)
	CreateOrder(ctx context.Context, req domain.OrderCreationRequest) (*domain.OrderCreationResponse, error)
}

// Enqueuer grava os jobs de adset. WithSnapshotLock impede o drain de reconciliar
// enquanto o snapshot com os marcadores ainda não foi gravado.
type Enqueuer interface {
	Enqueue(ctx context.Context, data domain.AdsetJobData, batchID string) (int64, error)
	WithSnapshotLock(fn func() error) error
}

type Launcher interface {
	Launch(ctx context.Context, campaignGroupID int64, clientID string) (*domain.LaunchResult, error)
}

type Service struct {
	platform   OrderCreator
	queue      Enqueuer
	groupRepo  repository.CampaignGroupRepository
	budgetRepo repository.BudgetRepository
	newBatchID func() (string, error)
}

func NewService(
	platform OrderCreator,
	queue Enqueuer,
	groupRepo repository.CampaignGroupRepository,
	budgetRepo repository.BudgetRepository,
) *Service {
	return &Service{
		platform:   platform,
		queue:      queue,
		groupRepo:  groupRepo,
		budgetRepo: budgetRepo,
		newBatchID: utils.NewBatchID,
	}
}

// Launch cria as orders das campanhas Amazon DSP ainda não lançadas e enfileira um job por adset,
// todos no mesmo lote. O snapshot gravado no final leva os marcadores pendentes dos jobs.
//
// Campanhas que já têm adsets (pendentes ou resolvidos) são ignoradas. Se algo falhar no meio,
// o que já foi criado é gravado mesmo assim para não duplicar orders numa nova tentativa.
//
// A leitura do snapshot, o enfileiramento e a gravação acontecem sem nenhum job do drain
// rodando; um adset reconciliado no meio seria perdido pela gravação do lançamento.
func (s *Service) Launch(ctx context.Context, campaignGroupID int64, clientID string) (*domain.LaunchResult, error) {
	var result *domain.LaunchResult
	err := s.queue.WithSnapshotLock(func() error {
		var launchErr error
		result, launchErr = s.launch(ctx, campaignGroupID, clientID)
		return launchErr
	})
	return result, err
}

func (s *Service) launch(ctx context.Context, campaignGroupID int64, clientID string) (*domain.LaunchResult, error) {
	group, err := s.groupRepo.GetByIDAndClient(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar grupo de campanhas: %w", err)
	}
	if group == nil {
		return nil, ErrCampaignGroupNotFound
	}

	latest, err := s.budgetRepo.GetLatest(ctx, group.ID, clientID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar orçamento atual: %w", err)
	}
	if latest == nil {
		return nil, ErrBudgetNotFound
	}

	campaigns := latest.Campaigns.Clone()
	byType := campaigns[domain.ChannelAmazonDSP]
	if !hasLaunchable(byType) {
		return nil, ErrNothingToLaunch
	}
	if group.ProfileID == "" {
		return nil, ErrMissingProfile
	}

	batchID, err := s.newBatchID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id do lote: %w", err)
	}

	creds, err := s.platform.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter credenciais da plataforma: %w", err)
	}

	specs := allocating.AdsetSpecs(latest.Allocations, group.EnabledChannels, group.FlightStart, group.FlightEnd)
	result := &domain.LaunchResult{BatchID: batchID}

	logger := logrus.WithFields(logrus.Fields{
		"campaign_group_id": group.ID,
		"client_id":         clientID,
		"batch_id":          batchID,
	})

	var launchErr error

loop:
	for _, campaignType := range sortedKeys(byType) {
		list := byType[campaignType]
		for i := range list {
			campaign := &list[i]
			if len(campaign.Adsets) > 0 || len(specs[campaign.ID]) == 0 {
				continue
			}

			if campaign.OrderID == "" {
				order, err := s.platform.CreateOrder(ctx, domain.OrderCreationRequest{
					Campaign:    *campaign,
					ProfileID:   group.ProfileID,
					Credentials: creds,
				})
				metrics.PlatformRequestsTotal.WithLabelValues("create_order", metrics.Result(err)).Inc()
				if err != nil {
					launchErr = fmt.Errorf("erro ao criar order da campanha %s: %w", campaign.ID, err)
					break loop
				}
				campaign.OrderID = order.OrderID
				result.OrdersCreated++
			}

			for _, spec := range specs[campaign.ID] {
				jobID, err := s.queue.Enqueue(ctx, domain.AdsetJobData{
					Adset:           spec,
					OrderID:         campaign.OrderID,
					Type:            campaignType,
					ProfileID:       group.ProfileID,
					CampaignID:      campaign.ID,
					CampaignGroupID: group.ID,
					ClientID:        clientID,
				}, batchID)
				if err != nil {
					launchErr = err
					break loop
				}
				campaign.Adsets = append(campaign.Adsets, domain.PendingAdset(jobID))
				result.JobsEnqueued++
			}
		}
	}

	if result.OrdersCreated == 0 && result.JobsEnqueued == 0 {
		if launchErr != nil {
			return nil, launchErr
		}
		return nil, ErrNothingToLaunch
	}

	snapshot := &domain.Budget{
		CampaignGroupID: latest.CampaignGroupID,
		ClientID:        latest.ClientID,
		Periods:         latest.Periods,
		Allocations:     latest.Allocations,
		Campaigns:       campaigns,
	}
	if _, err := s.budgetRepo.Create(ctx, snapshot); err != nil {
		return nil, errors.Join(launchErr, fmt.Errorf("erro ao gravar snapshot do lançamento: %w", err))
	}
	metrics.BudgetSnapshotsCreated.WithLabelValues("launch").Inc()

	logger.WithFields(logrus.Fields{
		"orders_created": result.OrdersCreated,
		"jobs_enqueued":  result.JobsEnqueued,
	}).Info("Lançamento de campanhas registrado")

	if launchErr != nil {
		logger.WithError(launchErr).Error("Lançamento interrompido, estado parcial gravado")
		return result, launchErr
	}

	return result, nil
}

func hasLaunchable(byType map[string][]domain.Campaign) bool {
	for _, list := range byType {
		for _, campaign := range list {
			if len(campaign.Adsets) == 0 {
				return true
			}
		}
	}
	return false
}

func sortedKeys(byType map[string][]domain.Campaign) []string {
	keys := make([]string, 0, len(byType))
	for k := range byType {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
