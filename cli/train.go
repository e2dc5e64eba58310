package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/runtime"
	"github.com/flotilla-ml/flotilla/pkg/stats"
)

const (
	defTrainExamples     = 4096
	defTrainFeatures     = 8
	defTrainNoise        = 0.1
	defTrainLearningRate = 0.01
	defTrainMomentum     = 0.9
)

type trainResult struct {
	Iterations int           `json:"iterations"`
	Score      float64       `json:"score"`
	Params     []float64     `json:"params"`
	Stats      *stats.Report `json:"stats,omitempty"`
}

// NewTrainCmd runs a training pass in-process, without a master daemon.
func NewTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <config.toml>",
		Short: "Train locally",
		Long:  `Run a parameter-averaging training pass in-process over synthetic data.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			pc, err := loadPassConfig(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			if err := pc.Config.Validate(); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			if pc.Kind == "" {
				pc.Kind = string(model.KindNetwork)
			}
			if pc.Examples <= 0 {
				pc.Examples = defTrainExamples
			}
			if pc.Features <= 0 {
				pc.Features = defTrainFeatures
			}
			if pc.Noise <= 0 {
				pc.Noise = defTrainNoise
			}
			if pc.Seed == 0 {
				pc.Seed = time.Now().UnixNano()
			}
			if pc.LearningRate <= 0 {
				pc.LearningRate = defTrainLearningRate
			}

			topology := model.Topology{Kind: model.Kind(pc.Kind), Units: []int{pc.Features}}
			net, err := model.New(topology, pc.LearningRate, optimizer.NewMomentum(defTrainMomentum, topology.ParameterCount()))
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			examples := model.GenerateExamples(pc.Examples, pc.Features, pc.Noise, pc.Seed)
			data := runtime.FromSliceSeeded(examples, pc.Config.NumWorkers, pc.Seed)

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))
			tm := master.New(pc.Config, net, runtime.NewBroadcaster[model.Snapshot](), logger)
			if err := tm.Fit(cmd.Context(), data); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			res := trainResult{
				Iterations: tm.IterationCount(),
				Score:      tm.Model().Score(),
				Params:     tm.Model().Params(),
			}
			if report, ok := tm.TrainingStats(); ok {
				res.Stats = report
			}
			logJSONCmd(*cmd, res)
		},
	}
}
