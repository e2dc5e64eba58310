package cli

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/flotilla-ml/flotilla/pkg/sdk"
	"github.com/flotilla-ml/flotilla/training"
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10
)

var fsdk sdk.SDK

func SetFlotillaSDK(s sdk.SDK) {
	fsdk = s
}

// passConfig is the TOML layout of a pass description file.
type passConfig struct {
	Config       training.Config `toml:"config"`
	Kind         string          `toml:"kind"`
	Examples     int             `toml:"examples"`
	Features     int             `toml:"features"`
	Noise        float64         `toml:"noise"`
	Seed         int64           `toml:"seed"`
	LearningRate float64         `toml:"learning_rate"`
}

func loadPassConfig(path string) (passConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return passConfig{}, err
	}

	var pc passConfig
	if err := toml.Unmarshal(data, &pc); err != nil {
		return passConfig{}, err
	}

	return pc, nil
}

func NewPassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes [start|view|list]",
		Short: "Training passes",
		Long:  `Start, view and list training passes on the master.`,
	}

	startCmd := &cobra.Command{
		Use:   "start <config.toml>",
		Short: "Start pass",
		Long:  `Start a training pass described by a TOML file.`,
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

			p, err := fsdk.StartPass(sdk.PassRequest{
				Config:       pc.Config,
				Kind:         pc.Kind,
				Examples:     pc.Examples,
				Features:     pc.Features,
				Noise:        pc.Noise,
				Seed:         pc.Seed,
				LearningRate: pc.LearningRate,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, p)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View pass",
		Long:  `View a training pass.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			p, err := fsdk.GetPass(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, p)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List passes",
		Long:  `List training passes.`,
		Run: func(cmd *cobra.Command, _ []string) {
			page, err := fsdk.ListPasses(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	cmd.AddCommand(startCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(listCmd)

	cmd.PersistentFlags().Uint64VarP(
		&defOffset,
		"offset",
		"o",
		defOffset,
		"Offset",
	)

	cmd.PersistentFlags().Uint64VarP(
		&defLimit,
		"limit",
		"l",
		defLimit,
		"Limit",
	)

	return cmd
}
