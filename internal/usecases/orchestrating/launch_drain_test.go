package orchestrating

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/reconciling"
)

// memoryJobs é uma tabela de jobs em memória; onCreate roda após cada insert
type memoryJobs struct {
	mu       sync.Mutex
	jobs     map[int64]*domain.Job
	nextID   int64
	onCreate func()
}

func (r *memoryJobs) Create(_ context.Context, job *domain.Job) (int64, error) {
	r.mu.Lock()
	r.nextID++
	stored := *job
	stored.ID = 100 + r.nextID
	r.jobs[stored.ID] = &stored
	r.mu.Unlock()

	if r.onCreate != nil {
		r.onCreate()
	}
	return stored.ID, nil
}

func (r *memoryJobs) NextPending(context.Context) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.jobs))
	for id, j := range r.jobs {
		if j.Status == domain.JobStatusPending {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Slice(ids, func(i, k int) bool { return ids[i] < ids[k] })

	found := *r.jobs[ids[0]]
	return &found, nil
}

func (r *memoryJobs) MarkProcessing(_ context.Context, jobID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.jobs[jobID].Status != domain.JobStatusPending {
		return repository.ErrJobStateConflict
	}
	r.jobs[jobID].Status = domain.JobStatusProcessing
	return nil
}

func (r *memoryJobs) MarkFinished(_ context.Context, jobID int64, status domain.JobStatus, processedAt time.Time, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[jobID].Status = status
	r.jobs[jobID].ProcessedAt = &processedAt
	r.jobs[jobID].Error = errMsg
	return nil
}

func (r *memoryJobs) ListCompleted(context.Context) ([]domain.CompletedJob, error) {
	return []domain.CompletedJob{}, nil
}

func (r *memoryJobs) SummarizeBatch(_ context.Context, batchID string) (*domain.BatchSummary, error) {
	return &domain.BatchSummary{BatchID: batchID}, nil
}

func (r *memoryJobs) statuses() map[int64]domain.JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]domain.JobStatus, len(r.jobs))
	for id, j := range r.jobs {
		out[id] = j.Status
	}
	return out
}

// memoryBudgets guarda os snapshots em ordem de gravação
type memoryBudgets struct {
	mu        sync.Mutex
	snapshots []*domain.Budget
}

func (r *memoryBudgets) Create(_ context.Context, budget *domain.Budget) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *budget
	stored.ID = int64(len(r.snapshots) + 1)
	r.snapshots = append(r.snapshots, &stored)
	return stored.ID, nil
}

func (r *memoryBudgets) GetLatest(context.Context, int64, string) (*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil, nil
	}
	return r.snapshots[len(r.snapshots)-1], nil
}

type groupStub struct{}

func (groupStub) GetByIDAndClient(context.Context, int64, string) (*domain.CampaignGroup, error) {
	return group(), nil
}

type platformStub struct{}

func (platformStub) Credentials(context.Context) (domain.PlatformCredentials, error) {
	return domain.PlatformCredentials{ClientID: "amz", AccessToken: "tok"}, nil
}

func (platformStub) CreateOrder(_ context.Context, req domain.OrderCreationRequest) (*domain.OrderCreationResponse, error) {
	return &domain.OrderCreationResponse{OrderID: "ord-" + req.Campaign.Name}, nil
}

func (platformStub) CreateAdset(_ context.Context, req domain.AdsetCreationRequest) (*domain.AdsetCreationResponse, error) {
	return &domain.AdsetCreationResponse{
		Data: []domain.AdsetResult{{"lineItemId": "li-" + req.Adset.Name}},
	}, nil
}

func TestLaunch_DrainRunningDuringLaunchKeepsReconciledAdsets(t *testing.T) {
	ctx := context.Background()

	jobs := &memoryJobs{jobs: map[int64]*domain.Job{}}
	budgets := &memoryBudgets{}
	_, err := budgets.Create(ctx, latestBudget())
	require.NoError(t, err)

	queue := queueing.NewQueue(jobs, nil)
	reconciler := reconciling.NewReconciler(platformStub{}, groupStub{}, budgets)

	// cada insert dispara um drain concorrente, como o cron ou um drain já em andamento
	var drains sync.WaitGroup
	jobs.onCreate = func() {
		drains.Add(1)
		go func() {
			defer drains.Done()
			_, _ = queue.Drain(ctx, reconciler.Reconcile)
		}()
	}

	service := NewService(platformStub{}, queue, groupStub{}, budgets)
	service.newBatchID = func() (string, error) { return "batch-1", nil }

	result, err := service.Launch(ctx, groupID, clientID)
	require.NoError(t, err)
	require.Equal(t, 3, result.JobsEnqueued)

	drains.Wait()
	// um drain pode ter sido ignorado enquanto outro saía; este pega o que sobrou
	_, err = queue.Drain(ctx, reconciler.Reconcile)
	require.NoError(t, err)

	for id, status := range jobs.statuses() {
		assert.Equal(t, domain.JobStatusCompleted, status, "job %d", id)
	}

	latest, err := budgets.GetLatest(ctx, groupID, clientID)
	require.NoError(t, err)

	var pending, resolved int
	for _, campaign := range latest.Campaigns[domain.ChannelAmazonDSP]["Display"] {
		for _, adset := range campaign.Adsets {
			if adset.PendingJobID != nil {
				pending++
				continue
			}
			resolved++
		}
	}
	assert.Zero(t, pending)
	assert.Equal(t, 3, resolved)

	display := latest.Campaigns[domain.ChannelAmazonDSP]["Display"]
	assert.Equal(t, "ord-Lançamento", display[0].OrderID)
	assert.Equal(t, "ord-Sustentação", display[1].OrderID)
}
