package budgeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/allocating"
	"github.com/vfg2006/campaign-manager-api/pkg/metrics"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type BudgetService interface {
	SaveBudget(ctx context.Context, campaignGroupID int64, clientID string, req domain.SaveBudgetRequest) (*domain.Budget, error)
	CurrentBudget(ctx context.Context, campaignGroupID int64, clientID string) (*domain.Budget, error)
	Report(ctx context.Context, campaignGroupID int64, clientID string) ([]domain.ChannelReport, error)
	ChannelCampaigns(ctx context.Context, campaignGroupID int64, clientID string) (domain.ChannelCampaigns, error)
}

// SnapshotLocker impede o drain de reconciliar adsets durante uma leitura-e-gravação de snapshot
type SnapshotLocker interface {
	WithSnapshotLock(fn func() error) error
}

type Service struct {
	groupRepo  repository.CampaignGroupRepository
	budgetRepo repository.BudgetRepository
	locker     SnapshotLocker
}

func NewService(
	groupRepo repository.CampaignGroupRepository,
	budgetRepo repository.BudgetRepository,
	locker SnapshotLocker,
) BudgetService {
	return &Service{
		groupRepo:  groupRepo,
		budgetRepo: budgetRepo,
		locker:     locker,
	}
}

// SaveBudget grava um novo snapshot a partir da árvore editada.
//
// Campanhas que continuam existindo herdam a order e os adsets do snapshot anterior,
// inclusive marcadores de jobs ainda pendentes.
func (s *Service) SaveBudget(ctx context.Context, campaignGroupID int64, clientID string, req domain.SaveBudgetRequest) (*domain.Budget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, validationMessage(err))
	}
	if err := allocating.Validate(req.Allocations); err != nil {
		return nil, err
	}

	group, err := s.loadGroup(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, err
	}

	var budget *domain.Budget
	err = s.locker.WithSnapshotLock(func() error {
		var saveErr error
		budget, saveErr = s.save(ctx, group, clientID, req)
		return saveErr
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_group_id": group.ID,
		"client_id":         clientID,
		"budget_id":         budget.ID,
		"periods":           len(req.Periods),
	}).Info("Orçamento salvo")

	return budget, nil
}

// save lê o snapshot atual e grava o novo; precisa rodar com o snapshot travado
func (s *Service) save(ctx context.Context, group *domain.CampaignGroup, clientID string, req domain.SaveBudgetRequest) (*domain.Budget, error) {
	previous, err := s.budgetRepo.GetLatest(ctx, group.ID, clientID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar orçamento atual: %w", err)
	}

	campaigns := allocating.ToChannelGroupedCampaigns(req.Allocations, group.EnabledChannels, group.FlightStart, group.FlightEnd)
	if previous != nil {
		carryForward(campaigns, previous.Campaigns)
	}

	budget := &domain.Budget{
		CampaignGroupID: group.ID,
		ClientID:        clientID,
		Periods:         req.Periods,
		Allocations:     req.Allocations,
		Campaigns:       campaigns,
	}

	id, err := s.budgetRepo.Create(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("erro ao gravar orçamento: %w", err)
	}
	budget.ID = id
	metrics.BudgetSnapshotsCreated.WithLabelValues("edit").Inc()

	return budget, nil
}

func carryForward(campaigns, previous domain.ChannelCampaigns) {
	for _, byType := range campaigns {
		for _, list := range byType {
			for i := range list {
				channel, campaignType, index, ok := previous.Find(list[i].ID)
				if !ok {
					continue
				}
				old := previous[channel][campaignType][index]
				list[i].OrderID = old.OrderID
				list[i].Adsets = append([]domain.AdsetEntry{}, old.Adsets...)
			}
		}
	}
}

func (s *Service) CurrentBudget(ctx context.Context, campaignGroupID int64, clientID string) (*domain.Budget, error) {
	if _, err := s.loadGroup(ctx, campaignGroupID, clientID); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.GetLatest(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar orçamento atual: %w", err)
	}
	if budget == nil {
		return nil, ErrBudgetNotFound
	}

	return budget, nil
}

// Report monta a visão canal -> campanha -> período do orçamento atual
func (s *Service) Report(ctx context.Context, campaignGroupID int64, clientID string) ([]domain.ChannelReport, error) {
	budget, err := s.CurrentBudget(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, err
	}

	return allocating.ToTimePeriodHierarchy(budget.Allocations, budget.Periods), nil
}

func (s *Service) ChannelCampaigns(ctx context.Context, campaignGroupID int64, clientID string) (domain.ChannelCampaigns, error) {
	budget, err := s.CurrentBudget(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, err
	}

	if budget.Campaigns == nil {
		return domain.ChannelCampaigns{}, nil
	}
	return budget.Campaigns, nil
}

func (s *Service) loadGroup(ctx context.Context, campaignGroupID int64, clientID string) (*domain.CampaignGroup, error) {
	group, err := s.groupRepo.GetByIDAndClient(ctx, campaignGroupID, clientID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar grupo de campanhas: %w", err)
	}
	if group == nil {
		return nil, ErrCampaignGroupNotFound
	}
	return group, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("campo '%s' falhou na regra '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
