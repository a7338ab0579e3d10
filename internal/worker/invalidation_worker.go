package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/olivernygren/sponge-boss/internal/events"
	"github.com/olivernygren/sponge-boss/internal/view"
)

// StartInvalidationWorker subscribes the page cache to gateway change events
// so the rendered admin view is dropped after every successful mutation.
func StartInvalidationWorker(dispatcher events.Dispatcher, cache *view.Cache, logger *zap.Logger) {
	if dispatcher == nil || cache == nil {
		return
	}

	handler := func(ctx context.Context, event events.Event) error {
		if err := cache.Invalidate(ctx, event.Scope); err != nil {
			logger.Warn("page cache invalidation failed",
				zap.String("scope", event.Scope),
				zap.String("event", string(event.Type)),
				zap.Error(err))
			return err
		}
		return nil
	}

	dispatcher.Subscribe(events.EventChecklistChanged, handler)
	dispatcher.Subscribe(events.EventUserDirectoryChanged, handler)
}
