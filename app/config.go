package app

import (
	"gopkg.in/yaml.v3"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/cloudfoundry/bosh-alongside/alongside"
	"github.com/cloudfoundry/bosh-alongside/handoff"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
	"github.com/cloudfoundry/bosh-alongside/platform/osdetect"
)

const (
	DefaultLockPath = "/run/bosh-alongside.lock"
	DefaultLogLevel = "INFO"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	ScratchMountPoint string `yaml:"scratch_mount_point"`

	// MountsSource is "proc" to read /proc/mounts or "cmd" to run mount
	MountsSource string `yaml:"mounts_source"`

	LockPath         string `yaml:"lock_path"`
	OSProberCommand  string `yaml:"os_prober_command"`
	TargetFileSystem string `yaml:"target_file_system"`

	// OSLabels replaces os-prober when set
	OSLabels map[string]string `yaml:"os_labels"`

	Handoff HandoffConfig `yaml:"handoff"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type HandoffConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:          DefaultLogLevel,
		ScratchMountPoint: alongside.DefaultScratchMountPoint,
		MountsSource:      "proc",
		LockPath:          DefaultLockPath,
		OSProberCommand:   osdetect.DefaultOSProberCommand,
		TargetFileSystem:  string(alongside.DefaultTargetFileSystem),
		Handoff: HandoffConfig{
			Subject: handoff.DefaultSubject,
		},
	}
}

// LoadConfigFromPath reads a YAML (or JSON) config on top of DefaultConfig
func LoadConfigFromPath(fs boshsys.FileSystem, path string) (Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	bytes, err := fs.ReadFile(path)
	if err != nil {
		return config, bosherr.WrapError(err, "Reading file")
	}

	err = yaml.Unmarshal(bytes, &config)
	if err != nil {
		return config, bosherr.WrapError(err, "Loading file")
	}

	err = config.Validate()
	if err != nil {
		return config, bosherr.WrapErrorf(err, "Validating config `%s'", path)
	}

	return config, nil
}

func (c Config) Validate() error {
	switch c.MountsSource {
	case "", "proc", "cmd":
	default:
		return bosherr.Errorf("Unknown mounts source `%s'", c.MountsSource)
	}

	switch boshdisk.FileSystemType(c.TargetFileSystem) {
	case boshdisk.FileSystemUnknown, boshdisk.FileSystemExt2, boshdisk.FileSystemExt3, boshdisk.FileSystemExt4,
		boshdisk.FileSystemXFS, boshdisk.FileSystemBTRFS:
	default:
		return bosherr.Errorf("Unsupported target file system `%s'", c.TargetFileSystem)
	}

	if c.LockPath == "" {
		return bosherr.Error("Lock path must not be empty")
	}

	return nil
}
