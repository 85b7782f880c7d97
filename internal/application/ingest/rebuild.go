package ingest

import (
	"context"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// Reloader rebuilds the published snapshot.  comparative.Service satisfies it.
type Reloader interface {
	Reload(ctx context.Context, trigger string) (*comparative.SnapshotInfo, error)
}

// NewRebuildHandler returns the kafka.Handler of the rebuild topic.  Events
// of other types are logged and skipped.
func NewRebuildHandler(r Reloader, logger logging.Logger) kafka.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("rebuild")
	return func(ctx context.Context, msg *kafka.Message) error {
		env, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			logger.Warn("dropping malformed rebuild event", logging.Int64("offset", msg.Offset), logging.Err(err))
			return nil
		}
		if env.EventType != kafka.EventSnapshotRebuild {
			logger.Debug("ignoring event", logging.String("event_type", env.EventType))
			return nil
		}
		var p kafka.SnapshotRebuildPayload
		if err := env.DecodePayload(&p); err != nil {
			logger.Warn("dropping malformed rebuild event", logging.String("event_id", env.EventID), logging.Err(err))
			return nil
		}

		info, err := r.Reload(ctx, comparative.TriggerEvent)
		if err != nil {
			return err
		}
		logger.Info("snapshot rebuilt",
			logging.String("event_id", env.EventID),
			logging.String("reason", p.Reason),
			logging.Uint64("generation", info.Generation))
		return nil
	}
}

//Personal.AI order the ending
