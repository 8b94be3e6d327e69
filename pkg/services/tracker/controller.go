package tracker

import (
	"context"
	"fmt"
	"sync"
)

type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type DefaultController struct {
	newRunner func() *Runner

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	runner     *Runner
}

func NewController(newRunner func() *Runner) *DefaultController {
	return &DefaultController{newRunner: newRunner}
}

func (ctrl *DefaultController) Start(ctx context.Context) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ctrl.runner != nil {
		return fmt.Errorf("tracker already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	runner := ctrl.newRunner()
	ctrl.cancelFunc = cancel
	ctrl.runner = runner

	go runner.Run(ctx)
	return nil
}

// Stop cancels the running tracker and waits for its current sweep to end.
func (ctrl *DefaultController) Stop(ctx context.Context) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ctrl.runner == nil {
		return fmt.Errorf("tracker not running")
	}

	ctrl.cancelFunc()
	select {
	case <-ctrl.runner.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	ctrl.runner = nil
	ctrl.cancelFunc = nil
	return nil
}
