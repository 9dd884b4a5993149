package workers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/config"
	"github.com/socialbase/socialbase/pkg/logger"
	"github.com/socialbase/socialbase/pkg/queue"
)

// Reconciler is the slice of the stats reconciler the worker drives.
type Reconciler interface {
	ReconcileProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	ReconcilePost(ctx context.Context, postID uuid.UUID) (bool, error)
	SweepProfiles(ctx context.Context, batch int) (int, error)
	SweepPosts(ctx context.Context, batch int) (int, error)
}

// ReconcileWorker keeps the denormalized counters honest from outside the
// request path: it reacts to relationship/interaction events with a targeted
// recount of the touched rows, and periodically sweeps everything as a
// backstop for events it never saw.
type ReconcileWorker struct {
	reconciler           Reconciler
	relationshipConsumer *queue.KafkaConsumer
	interactionConsumer  *queue.KafkaConsumer
	cfg                  *config.StatsConfig
	logger               *logger.Logger
}

func NewReconcileWorker(reconciler Reconciler, relationshipConsumer, interactionConsumer *queue.KafkaConsumer, cfg *config.StatsConfig, logger *logger.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		reconciler:           reconciler,
		relationshipConsumer: relationshipConsumer,
		interactionConsumer:  interactionConsumer,
		cfg:                  cfg,
		logger:               logger,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) error {
	go w.sweepLoop(ctx)

	go func() {
		err := w.relationshipConsumer.Subscribe(ctx, func(event queue.Event) error {
			return w.handleRelationshipEvent(ctx, event)
		})
		if err != nil && ctx.Err() == nil {
			w.logger.WithError(err).Error("Relationship event consumer stopped")
		}
	}()

	err := w.interactionConsumer.Subscribe(ctx, func(event queue.Event) error {
		return w.handleInteractionEvent(ctx, event)
	})
	if err != nil && ctx.Err() == nil {
		w.logger.WithError(err).Error("Interaction event consumer stopped")
		return err
	}
	return ctx.Err()
}

func (w *ReconcileWorker) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReconcileWorker) sweep(ctx context.Context) {
	start := time.Now()

	profiles, err := w.reconciler.SweepProfiles(ctx, w.cfg.ReconcileBatch)
	if err != nil {
		w.logger.WithError(err).Error("Profile stats sweep failed")
	}
	posts, err := w.reconciler.SweepPosts(ctx, w.cfg.ReconcileBatch)
	if err != nil {
		w.logger.WithError(err).Error("Post stats sweep failed")
	}

	w.logger.WithFields(map[string]interface{}{
		"profiles_repaired": profiles,
		"posts_repaired":    posts,
		"elapsed":           time.Since(start).String(),
	}).Info("Stats sweep finished")
}

func (w *ReconcileWorker) handleRelationshipEvent(ctx context.Context, event queue.Event) error {
	var data queue.RelationshipEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return err
	}

	for _, raw := range []string{data.UserID, data.OtherID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if _, err := w.reconciler.ReconcileProfile(ctx, id); err != nil {
			w.logger.WithError(err).WithField("user_id", raw).
				Warn("Targeted profile reconcile failed")
		}
	}
	return nil
}

func (w *ReconcileWorker) handleInteractionEvent(ctx context.Context, event queue.Event) error {
	var data queue.InteractionEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return err
	}

	if postID, err := uuid.Parse(data.PostID); err == nil && event.Type != queue.EventPostRemoved {
		if _, err := w.reconciler.ReconcilePost(ctx, postID); err != nil {
			w.logger.WithError(err).WithField("post_id", data.PostID).
				Warn("Targeted post reconcile failed")
		}
	}
	if profileID, err := uuid.Parse(data.ProfileID); err == nil {
		if _, err := w.reconciler.ReconcileProfile(ctx, profileID); err != nil {
			w.logger.WithError(err).WithField("user_id", data.ProfileID).
				Warn("Targeted profile reconcile failed")
		}
	}
	return nil
}
