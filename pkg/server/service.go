package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikeboe/deep-research/pkg/config"
	"github.com/mikeboe/deep-research/pkg/research"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrInvalidMode = errors.New("invalid mode")
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	maxListedJobs = 50
)

// Service runs research jobs in the background and keeps them in memory.
type Service struct {
	Cfg       *config.Config
	Providers *research.Providers
	Logger    *slog.Logger

	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	logs map[uuid.UUID][]LogEntry
	wg   sync.WaitGroup
}

func NewService(cfg *config.Config, providers *research.Providers, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Cfg:       cfg,
		Providers: providers,
		Logger:    logger,
		jobs:      make(map[uuid.UUID]*Job),
		logs:      make(map[uuid.UUID][]LogEntry),
	}
}

type Job struct {
	ID        uuid.UUID               `json:"id"`
	Question  string                  `json:"question"`
	Mode      research.Mode           `json:"mode,omitempty"`
	Profile   research.Profile        `json:"profile"`
	Status    string                  `json:"status"`
	State     *research.ResearchState `json:"state,omitempty"`
	Report    *research.Report        `json:"report,omitempty"`
	Error     string                  `json:"error,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type CreateJobRequest struct {
	Question string           `json:"question" binding:"required"`
	Mode     string           `json:"mode"`
	Profile  research.Profile `json:"profile"`
}

func (r CreateJobRequest) toResearch() (research.Request, error) {
	req := research.Request{Question: r.Question, Profile: r.Profile}
	if r.Mode != "" {
		mode, ok := research.ParseMode(r.Mode)
		if !ok {
			return req, fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
		}
		req.Mode = mode
	}
	return req, nil
}

// CreateJob registers a pending job and starts its worker.
func (s *Service) CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	rreq, err := req.toResearch()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New(),
		Question:  rreq.Question,
		Mode:      rreq.Mode,
		Profile:   rreq.Profile,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	snapshot := *job
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runWorker(job.ID, rreq)
	}()

	return &snapshot, nil
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// ListJobs returns the newest jobs first, without their reports.
func (s *Service) ListJobs(ctx context.Context) ([]Job, error) {
	s.mu.RLock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		j := *job
		j.Report = nil
		jobs = append(jobs, j)
	}
	s.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(jobs) > maxListedJobs {
		jobs = jobs[:maxListedJobs]
	}
	return jobs, nil
}

type LogEntry struct {
	ID        int            `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

func (s *Service) GetJobLogs(ctx context.Context, jobID uuid.UUID) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.jobs[jobID]; !ok {
		return nil, ErrJobNotFound
	}
	return slices.Clone(s.logs[jobID]), nil
}

// Research runs a job synchronously without registering it.
func (s *Service) Research(ctx context.Context, req CreateJobRequest) (*research.Report, error) {
	rreq, err := req.toResearch()
	if err != nil {
		return nil, err
	}
	return research.NewEngine(s.Cfg, s.Providers, s.Logger).Run(ctx, rreq)
}

// Wait blocks until every started worker has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) appendLog(jobID uuid.UUID, entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = len(s.logs[jobID]) + 1
	s.logs[jobID] = append(s.logs[jobID], entry)
}

func (s *Service) updateJob(jobID uuid.UUID, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		fn(job)
		job.UpdatedAt = time.Now().UTC()
	}
}

func (s *Service) runWorker(jobID uuid.UUID, req research.Request) {
	ctx := context.Background()

	s.updateJob(jobID, func(j *Job) { j.Status = StatusRunning })

	jobLogger := slog.New(NewJobLogHandler(s, jobID, s.Logger.Handler()))

	engine := research.NewEngine(s.Cfg, s.Providers, jobLogger)
	engine.OnStateUpdate = func(state research.ResearchState) {
		s.updateJob(jobID, func(j *Job) { j.State = &state })
	}

	report, err := engine.Run(ctx, req)
	if err != nil {
		s.failJob(jobLogger, jobID, fmt.Sprintf("Research failed: %v", err))
		return
	}

	s.updateJob(jobID, func(j *Job) {
		j.Status = StatusCompleted
		j.Report = report
	})
}

func (s *Service) failJob(logger *slog.Logger, jobID uuid.UUID, reason string) {
	logger.Error(reason)
	s.updateJob(jobID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = reason
	})
}
