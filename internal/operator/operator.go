package operator

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/operator/actions"
	"github.com/carson-networks/atm-ledger/internal/storage"
)

// Operator is one worker draining the delegator's queue. Every action it runs
// holds the store's write lock from Perform until the snapshot is saved.
type Operator struct {
	storage *storage.Storage
	queue   <-chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s *storage.Storage, queue <-chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.apply(item.ctx, item.action)}
	}
}

// apply reports three kinds of result. nil means applied and saved. An error
// matching storage.ErrPersistence means applied in memory but not saved. Any
// other error means nothing changed.
func (o *Operator) apply(ctx context.Context, action actions.IAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := o.logger.WithField("action", actionName(action))

	writer, err := o.storage.Write(ctx)
	if err != nil {
		return err
	}

	if err := action.Perform(ctx, writer); err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Operator.apply.rollback failed")
		}
		log.WithError(err).Debug("Operator.apply.rejected")
		return err
	}

	err = writer.Commit()
	switch {
	case err == nil:
		log.Debug("Operator.apply.committed")
		return nil
	case errors.Is(err, storage.ErrPersistence):
		log.WithError(err).Warn("Operator.apply.applied but not saved")
		return err
	default:
		log.WithError(err).Error("Operator.apply.commit failed")
		return err
	}
}

func actionName(action actions.IAction) string {
	return fmt.Sprintf("%T", action)
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
