package master

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/mqtt"
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/runtime"
	"github.com/flotilla-ml/flotilla/pkg/stats"
	"github.com/flotilla-ml/flotilla/pkg/storage"
	"github.com/flotilla-ml/flotilla/training"
)

const (
	defExamples     = 4096
	defFeatures     = 8
	defNoise        = 0.1
	defLearningRate = 0.01
	defMomentum     = 0.9
)

type PassState string

const (
	PassRunning   PassState = "running"
	PassCompleted PassState = "completed"
	PassFailed    PassState = "failed"
)

// PassRequest describes one training pass over synthetic data.
type PassRequest struct {
	Config       training.Config `json:"config"`
	Kind         model.Kind      `json:"kind,omitempty"`
	Examples     int             `json:"examples,omitempty"`
	Features     int             `json:"features,omitempty"`
	Noise        float64         `json:"noise,omitempty"`
	Seed         int64           `json:"seed,omitempty"`
	LearningRate float64         `json:"learning_rate,omitempty"`
}

// Pass is the record of one training pass.
type Pass struct {
	ID         string          `json:"id"`
	State      PassState       `json:"state"`
	Config     training.Config `json:"config"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt time.Time       `json:"finished_at,omitzero"`
	Iterations int             `json:"iterations"`
	Score      float64         `json:"score"`
	Error      string          `json:"error,omitempty"`
	Stats      *stats.Report   `json:"stats,omitempty"`
}

type PassPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Passes []Pass `json:"passes"`
}

// Service manages training passes for the daemon's API surface.
type Service interface {
	StartPass(ctx context.Context, req PassRequest) (Pass, error)
	GetPass(ctx context.Context, passID string) (Pass, error)
	ListPasses(ctx context.Context, offset, limit uint64) (PassPage, error)
}

type service struct {
	passes    storage.Storage[Pass]
	publisher mqtt.PubSub
	baseTopic string
	logger    *slog.Logger
}

// NewService builds the pass service. publisher may be nil, in which case
// round events are not published.
func NewService(passes storage.Storage[Pass], publisher mqtt.PubSub, baseTopic string, logger *slog.Logger) Service {
	return &service{
		passes:    passes,
		publisher: publisher,
		baseTopic: baseTopic,
		logger:    logger,
	}
}

func (svc *service) StartPass(ctx context.Context, req PassRequest) (Pass, error) {
	if req.Kind == "" {
		req.Kind = model.KindNetwork
	}
	if req.Examples <= 0 {
		req.Examples = defExamples
	}
	if req.Features <= 0 {
		req.Features = defFeatures
	}
	if req.Noise <= 0 {
		req.Noise = defNoise
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if req.LearningRate <= 0 {
		req.LearningRate = defLearningRate
	}
	if err := req.Config.Validate(); err != nil {
		return Pass{}, err
	}

	pass := Pass{
		ID:        uuid.NewString(),
		State:     PassRunning,
		Config:    req.Config,
		CreatedAt: time.Now(),
	}
	if err := svc.passes.Create(ctx, pass.ID, pass); err != nil {
		return Pass{}, err
	}

	go svc.run(context.WithoutCancel(ctx), pass, req)

	return pass, nil
}

func (svc *service) GetPass(ctx context.Context, passID string) (Pass, error) {
	return svc.passes.Get(ctx, passID)
}

func (svc *service) ListPasses(ctx context.Context, offset, limit uint64) (PassPage, error) {
	passes, total, err := svc.passes.List(ctx, offset, limit)
	if err != nil {
		return PassPage{}, err
	}

	return PassPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Passes: passes,
	}, nil
}

func (svc *service) run(ctx context.Context, pass Pass, req PassRequest) {
	cfg := req.Config

	dim := model.Topology{Kind: req.Kind, Units: []int{req.Features}}.ParameterCount()
	net, err := model.New(
		model.Topology{Kind: req.Kind, Units: []int{req.Features}},
		req.LearningRate,
		optimizer.NewMomentum(defMomentum, dim),
	)
	if err != nil {
		svc.finish(ctx, pass, nil, err)

		return
	}

	examples := model.GenerateExamples(req.Examples, req.Features, req.Noise, req.Seed)
	data := runtime.FromSliceSeeded(examples, cfg.NumWorkers, req.Seed)

	tm := New(cfg, net, runtime.NewBroadcaster[model.Snapshot](), svc.logger)
	if svc.publisher != nil {
		tm.RegisterListener(NewRoundPublisher(svc.publisher, svc.baseTopic, pass.ID, svc.logger))
	}

	err = tm.Fit(ctx, data)
	svc.finish(ctx, pass, tm, err)
}

func (svc *service) finish(ctx context.Context, pass Pass, tm *TrainingMaster, err error) {
	pass.FinishedAt = time.Now()
	if tm != nil {
		pass.Iterations = tm.IterationCount()
		pass.Score = tm.Model().Score()
		if report, ok := tm.TrainingStats(); ok {
			pass.Stats = report
		}
	}
	switch err {
	case nil:
		pass.State = PassCompleted
	default:
		pass.State = PassFailed
		pass.Error = err.Error()
		svc.logger.WarnContext(ctx, "training pass failed",
			slog.String("pass_id", pass.ID),
			slog.Any("error", err),
		)
	}

	if uerr := svc.passes.Update(ctx, pass.ID, pass); uerr != nil {
		svc.logger.WarnContext(ctx, "failed to record pass result",
			slog.String("pass_id", pass.ID),
			slog.Any("error", uerr),
		)
	}
}
