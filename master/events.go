package master

import (
	"context"
	"log/slog"

	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/mqtt"
)

var _ Listener = (*RoundPublisher)(nil)

// RoundPublisher publishes a round-complete event to an MQTT topic after
// every round, carrying the iteration count, the score and the CBOR-encoded
// model snapshot. Publish failures are logged and never fail the round.
type RoundPublisher struct {
	pubsub mqtt.PubSub
	topic  string
	passID string
	logger *slog.Logger
}

func NewRoundPublisher(pubsub mqtt.PubSub, baseTopic, passID string, logger *slog.Logger) *RoundPublisher {
	return &RoundPublisher{
		pubsub: pubsub,
		topic:  baseTopic + "/passes/" + passID + "/rounds",
		passID: passID,
		logger: logger,
	}
}

func (p *RoundPublisher) OnRoundComplete(ctx context.Context, m model.Trainable, iteration int) {
	blob, err := m.Snapshot().MarshalBinary()
	if err != nil {
		p.logger.WarnContext(ctx, "failed to encode model snapshot",
			slog.String("pass_id", p.passID),
			slog.Any("error", err),
		)

		return
	}

	msg := map[string]any{
		"pass_id":   p.passID,
		"iteration": iteration,
		"score":     m.Score(),
		"model":     blob,
	}
	if err := p.pubsub.Publish(ctx, p.topic, msg); err != nil {
		p.logger.WarnContext(ctx, "failed to publish round event",
			slog.String("pass_id", p.passID),
			slog.Int("iteration", iteration),
			slog.Any("error", err),
		)
	}
}
