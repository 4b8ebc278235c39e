package app

import (
	"errors"

	"github.com/carman72tmn/foodtech/internal/config"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/provider"
	"github.com/carman72tmn/foodtech/internal/router"
	"github.com/carman72tmn/foodtech/internal/scheduler"
	"github.com/carman72tmn/foodtech/internal/worker"
)

// BuildRunner wires services for the requested mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			// A disabled queue is a valid deployment, the API submits
			// inline via the admin resubmit endpoint in that case.
			logger.Warnw("app_worker_skipped", "error", err)
		} else {
			services = append(services, workerService)
		}
	}

	if mode == ModeAll || mode == ModeScheduler {
		schedulerService, err := scheduler.NewService(container)
		if err != nil {
			return nil, err
		}
		services = append(services, schedulerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run is the application entrypoint.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
