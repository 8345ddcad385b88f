package main

import (
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	boshapp "github.com/cloudfoundry/bosh-alongside/app"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

type runtime struct {
	app    boshapp.App
	logger boshlog.Logger
}

func newRuntime(opts *globalOptions) (runtime, error) {
	// Use one off copy of file system to read configuration file
	configFs := boshsys.NewOsFileSystem(boshlog.NewLogger(boshlog.LevelNone))

	config, err := boshapp.LoadConfigFromPath(configFs, opts.configPath)
	if err != nil {
		return runtime{}, bosherr.WrapError(err, "Loading config")
	}

	levelName := config.LogLevel
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}

	level, err := boshlog.Levelify(levelName)
	if err != nil {
		return runtime{}, bosherr.WrapError(err, "Parsing log level")
	}

	logger := boshlog.NewLogger(level)
	fs := boshsys.NewOsFileSystem(logger)
	runner := boshsys.NewExecCmdRunner(logger)

	app := boshapp.New(logger, fs, runner)

	err = app.Setup(config)
	if err != nil {
		return runtime{}, bosherr.WrapError(err, "App setup")
	}

	return runtime{app: app, logger: logger}, nil
}

// finish exports metrics whatever the outcome of the command was
func (r runtime) finish() {
	err := r.app.WriteMetrics()
	if err != nil {
		r.logger.Warn(mainLogTag, "Failed to export metrics: %s", err)
	}
}
