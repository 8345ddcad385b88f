package app

import (
	"code.cloudfoundry.org/clock"
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/cloudfoundry/bosh-alongside/alongside"
	"github.com/cloudfoundry/bosh-alongside/handoff"
	"github.com/cloudfoundry/bosh-alongside/lock"
	"github.com/cloudfoundry/bosh-alongside/metrics"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
	"github.com/cloudfoundry/bosh-alongside/platform/osdetect"
)

type App interface {
	Setup(config Config) error
	GetOrchestrator() alongside.Orchestrator
	GetDiskManager() boshdisk.Manager

	// WriteMetrics exports the collected metrics when a textfile path is configured
	WriteMetrics() error
}

type app struct {
	logger boshlog.Logger
	fs     boshsys.FileSystem
	runner boshsys.CmdRunner
	clock  clock.Clock
	logTag string

	config       Config
	diskManager  boshdisk.Manager
	registry     *metrics.Registry
	orchestrator alongside.Orchestrator

	handoffProvider handoff.Provider
}

func New(logger boshlog.Logger, fs boshsys.FileSystem, runner boshsys.CmdRunner) App {
	return NewWithDependencies(
		logger,
		fs,
		runner,
		nil,
		handoff.NewProvider(fs, logger),
		clock.NewClock(),
	)
}

// NewWithDependencies uses diskManager instead of building the Linux one in Setup
func NewWithDependencies(
	logger boshlog.Logger,
	fs boshsys.FileSystem,
	runner boshsys.CmdRunner,
	diskManager boshdisk.Manager,
	handoffProvider handoff.Provider,
	timeService clock.Clock,
) App {
	return &app{
		logger:          logger,
		fs:              fs,
		runner:          runner,
		clock:           timeService,
		logTag:          "App",
		diskManager:     diskManager,
		handoffProvider: handoffProvider,
	}
}

func (app *app) Setup(config Config) error {
	err := config.Validate()
	if err != nil {
		return bosherr.WrapError(err, "Validating config")
	}

	app.config = config

	if app.diskManager == nil {
		app.diskManager = boshdisk.NewLinuxDiskManager(app.logger, app.runner, app.fs, boshdisk.LinuxDiskManagerOpts{
			MountsSource: config.MountsSource,
		})
	}

	publisher, err := app.handoffProvider.Get(config.Handoff.URL, config.Handoff.Subject)
	if err != nil {
		return bosherr.WrapError(err, "Getting handoff publisher")
	}

	app.registry = metrics.NewRegistry()

	catalog := alongside.NewCatalog(
		app.diskManager.GetDeviceLister(),
		app.diskManager.GetPartitioner(),
		app.diskManager.GetFileSystemProber(),
		app.buildDetector(),
		app.registry,
		app.logger,
	)

	analyzer := alongside.NewCapacityAnalyzer(
		app.diskManager.GetMounter(),
		app.diskManager.GetUsageReader(),
		app.fs,
		config.ScratchMountPoint,
		app.registry,
		app.logger,
	)

	executor := alongside.NewExecutor(
		app.diskManager.GetResizer(),
		app.diskManager.GetPartitioner(),
		app.clock,
		app.registry,
		boshdisk.FileSystemType(config.TargetFileSystem),
		app.logger,
	)

	app.orchestrator = alongside.NewOrchestrator(
		catalog,
		analyzer,
		alongside.NewTopologyValidator(app.logger),
		executor,
		publisher,
		lock.NewFileLock(config.LockPath, app.logger),
		app.logger,
	)

	app.logger.Debug(app.logTag, "Set up with lock `%s' and scratch mount point `%s'", config.LockPath, config.ScratchMountPoint)

	return nil
}

func (app *app) GetOrchestrator() alongside.Orchestrator {
	return app.orchestrator
}

func (app *app) GetDiskManager() boshdisk.Manager {
	return app.diskManager
}

func (app *app) WriteMetrics() error {
	if app.registry == nil || app.config.Metrics.TextfilePath == "" {
		return nil
	}

	return app.registry.WriteTextfile(app.config.Metrics.TextfilePath)
}

func (app *app) buildDetector() osdetect.Detector {
	if len(app.config.OSLabels) > 0 {
		app.logger.Info(app.logTag, "Using %d configured OS labels instead of os-prober", len(app.config.OSLabels))
		return osdetect.NewStaticDetector(app.config.OSLabels)
	}

	return osdetect.NewOSProberDetector(app.config.OSProberCommand, app.runner, app.logger)
}
