package orchestrating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/allocating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"go.uber.org/mock/gomock"
)

const (
	clientID = "cli-01"
	groupID  = int64(3)
)

type fakePlatform struct {
	orders []domain.OrderCreationRequest
	err    error
}

func (f *fakePlatform) Credentials(context.Context) (domain.PlatformCredentials, error) {
	return domain.PlatformCredentials{ClientID: "amz", AccessToken: "tok"}, nil
}

func (f *fakePlatform) CreateOrder(_ context.Context, req domain.OrderCreationRequest) (*domain.OrderCreationResponse, error) {
	f.orders = append(f.orders, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OrderCreationResponse{OrderID: "ord-" + req.Campaign.Name}, nil
}

type fakeQueue struct {
	jobs          []domain.AdsetJobData
	batches       []string
	failAt        int
	locked        bool
	unlockedWrite bool
}

func (f *fakeQueue) WithSnapshotLock(fn func() error) error {
	f.locked = true
	defer func() { f.locked = false }()
	return fn()
}

func (f *fakeQueue) Enqueue(_ context.Context, data domain.AdsetJobData, batchID string) (int64, error) {
	if !f.locked {
		f.unlockedWrite = true
	}
	if f.failAt > 0 && len(f.jobs)+1 == f.failAt {
		return 0, queueing.ErrQueueWrite
	}
	f.jobs = append(f.jobs, data)
	f.batches = append(f.batches, batchID)
	return int64(100 + len(f.jobs)), nil
}

func group() *domain.CampaignGroup {
	return &domain.CampaignGroup{
		ID:              groupID,
		ClientID:        clientID,
		FlightStart:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FlightEnd:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		EnabledChannels: []string{domain.ChannelAmazonDSP, domain.ChannelFacebook},
		ProfileID:       "prof-1",
	}
}

func campaignNode(name string, adsets ...string) domain.Allocation {
	node := domain.Allocation{Name: name, Budget: 100, Percentage: 50, Goal: "AWARENESS"}
	for _, a := range adsets {
		node.Allocations = append(node.Allocations, domain.Allocation{Name: a, Budget: 50, Percentage: 50})
	}
	return node
}

func latestBudget() *domain.Budget {
	allocations := domain.AllocationsByPeriod{
		"2024-01": {Allocations: []domain.Allocation{
			{Name: domain.ChannelAmazonDSP, Allocations: []domain.Allocation{
				{Name: "Display", Allocations: []domain.Allocation{
					campaignNode("Lançamento", "Retargeting", "Prospecção"),
					campaignNode("Sustentação", "Remarketing"),
				}},
			}},
			{Name: domain.ChannelFacebook, Allocations: []domain.Allocation{
				{Name: "Feed", Allocations: []domain.Allocation{campaignNode("Verão", "Lookalike")}},
			}},
		}},
	}
	g := group()
	return &domain.Budget{
		ID:              1,
		CampaignGroupID: groupID,
		ClientID:        clientID,
		Periods:         []domain.Period{{ID: "2024-01", Label: "Janeiro", Days: 31}},
		Allocations:     allocations,
		Campaigns:       allocating.ToChannelGroupedCampaigns(allocations, g.EnabledChannels, g.FlightStart, g.FlightEnd),
	}
}

type fixture struct {
	platform   *fakePlatform
	queue      *fakeQueue
	groupRepo  *mocks.MockCampaignGroupRepository
	budgetRepo *mocks.MockBudgetRepository
	service    *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		platform:   &fakePlatform{},
		queue:      &fakeQueue{},
		groupRepo:  mocks.NewMockCampaignGroupRepository(ctrl),
		budgetRepo: mocks.NewMockBudgetRepository(ctrl),
	}
	f.service = NewService(f.platform, f.queue, f.groupRepo, f.budgetRepo)
	f.service.newBatchID = func() (string, error) { return "batch-1", nil }
	return f
}

func TestLaunch_CreatesOrdersAndEnqueuesAdsets(t *testing.T) {
	f := newFixture(t)
	latest := latestBudget()

	f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
	f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latest, nil)

	var saved *domain.Budget
	f.budgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *domain.Budget) (int64, error) {
		assert.True(t, f.queue.locked, "snapshot gravado fora da trava")
		saved = b
		return 2, nil
	})

	result, err := f.service.Launch(context.Background(), groupID, clientID)

	require.NoError(t, err)
	assert.Equal(t, &domain.LaunchResult{BatchID: "batch-1", OrdersCreated: 2, JobsEnqueued: 3}, result)
	assert.False(t, f.queue.unlockedWrite, "job enfileirado fora da trava")

	require.Len(t, f.platform.orders, 2)
	assert.Equal(t, "prof-1", f.platform.orders[0].ProfileID)

	require.Len(t, f.queue.jobs, 3)
	assert.Equal(t, []string{"batch-1", "batch-1", "batch-1"}, f.queue.batches)
	first := f.queue.jobs[0]
	assert.Equal(t, "ord-Lançamento", first.OrderID)
	assert.Equal(t, "Display", first.Type)
	assert.Equal(t, "Amazon DSP-Display-Lançamento", first.CampaignID)
	assert.Equal(t, "Amazon DSP-Display-Lançamento-Retargeting", first.Adset.ID)
	assert.Equal(t, groupID, first.CampaignGroupID)
	assert.Equal(t, clientID, first.ClientID)

	launched := saved.Campaigns[domain.ChannelAmazonDSP]["Display"][0]
	assert.Equal(t, "ord-Lançamento", launched.OrderID)
	require.Len(t, launched.Adsets, 2)
	assert.True(t, launched.Adsets[0].IsPendingFor(101))
	assert.True(t, launched.Adsets[1].IsPendingFor(102))

	// Facebook não tem API de criação
	assert.Empty(t, saved.Campaigns[domain.ChannelFacebook]["Feed"][0].Adsets)
	// o snapshot anterior segue sem marcadores
	assert.Empty(t, latest.Campaigns[domain.ChannelAmazonDSP]["Display"][0].Adsets)
}

func TestLaunch_SkipsAlreadyLaunchedCampaigns(t *testing.T) {
	f := newFixture(t)
	latest := latestBudget()
	display := latest.Campaigns[domain.ChannelAmazonDSP]["Display"]
	display[0].OrderID = "ord-antiga"
	display[0].Adsets = []domain.AdsetEntry{domain.ResolvedAdset(domain.AdsetResult{"id": "x"})}

	f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
	f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latest, nil)
	f.budgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(2), nil)

	result, err := f.service.Launch(context.Background(), groupID, clientID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdersCreated)
	assert.Equal(t, 1, result.JobsEnqueued)
	assert.Equal(t, "Amazon DSP-Display-Sustentação", f.queue.jobs[0].CampaignID)
}

func TestLaunch_ReusesExistingOrder(t *testing.T) {
	f := newFixture(t)
	latest := latestBudget()
	latest.Campaigns[domain.ChannelAmazonDSP]["Display"][0].OrderID = "ord-existente"

	f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
	f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latest, nil)
	f.budgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(2), nil)

	result, err := f.service.Launch(context.Background(), groupID, clientID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdersCreated)
	assert.Equal(t, "ord-existente", f.queue.jobs[0].OrderID)
}

func TestLaunch_PersistsPartialStateOnEnqueueFailure(t *testing.T) {
	f := newFixture(t)
	f.queue.failAt = 2

	f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
	f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latestBudget(), nil)

	var saved *domain.Budget
	f.budgetRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *domain.Budget) (int64, error) {
		saved = b
		return 2, nil
	})

	result, err := f.service.Launch(context.Background(), groupID, clientID)

	require.ErrorIs(t, err, queueing.ErrQueueWrite)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.JobsEnqueued)

	launched := saved.Campaigns[domain.ChannelAmazonDSP]["Display"][0]
	assert.Equal(t, "ord-Lançamento", launched.OrderID)
	assert.Len(t, launched.Adsets, 1)
}

func TestLaunch_Errors(t *testing.T) {
	t.Run("group not found", func(t *testing.T) {
		f := newFixture(t)
		f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(nil, nil)

		_, err := f.service.Launch(context.Background(), groupID, clientID)

		assert.ErrorIs(t, err, ErrCampaignGroupNotFound)
	})

	t.Run("no budget", func(t *testing.T) {
		f := newFixture(t)
		f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
		f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(nil, nil)

		_, err := f.service.Launch(context.Background(), groupID, clientID)

		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})

	t.Run("nothing to launch", func(t *testing.T) {
		f := newFixture(t)
		latest := latestBudget()
		delete(latest.Campaigns, domain.ChannelAmazonDSP)
		f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
		f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latest, nil)

		_, err := f.service.Launch(context.Background(), groupID, clientID)

		assert.ErrorIs(t, err, ErrNothingToLaunch)
	})

	t.Run("missing profile", func(t *testing.T) {
		f := newFixture(t)
		g := group()
		g.ProfileID = ""
		f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(g, nil)
		f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latestBudget(), nil)

		_, err := f.service.Launch(context.Background(), groupID, clientID)

		assert.ErrorIs(t, err, ErrMissingProfile)
	})

	t.Run("order rejected before anything was created", func(t *testing.T) {
		f := newFixture(t)
		f.platform.err = errors.New("perfil sem permissão")
		f.groupRepo.EXPECT().GetByIDAndClient(gomock.Any(), groupID, clientID).Return(group(), nil)
		f.budgetRepo.EXPECT().GetLatest(gomock.Any(), groupID, clientID).Return(latestBudget(), nil)

		result, err := f.service.Launch(context.Background(), groupID, clientID)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "perfil sem permissão")
		assert.Empty(t, f.queue.jobs)
	})
}
