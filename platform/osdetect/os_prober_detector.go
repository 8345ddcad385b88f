package osdetect

import (
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

const DefaultOSProberCommand = "os-prober"

type osProberDetector struct {
	command string
	runner  boshsys.CmdRunner
	logger  boshlog.Logger
	logTag  string
}

func NewOSProberDetector(command string, runner boshsys.CmdRunner, logger boshlog.Logger) Detector {
	if command == "" {
		command = DefaultOSProberCommand
	}

	return osProberDetector{
		command: command,
		runner:  runner,
		logger:  logger,
		logTag:  "OSProberDetector",
	}
}

func (d osProberDetector) GetOSDict() (map[string]string, error) {
	if !d.runner.CommandExists(d.command) {
		return nil, bosherr.Errorf("OS detection command `%s' not found", d.command)
	}

	stdout, stderr, _, err := d.runner.RunCommand(d.command)
	if err != nil {
		return nil, bosherr.WrapErrorf(err, "Running %s: %s", d.command, stderr)
	}

	return d.parse(stdout), nil
}

// parse reads lines such as
// /dev/sda1:Windows 10:Windows:chain
// /dev/sda2@/efi/Microsoft/Boot/bootmgfw.efi:Windows Boot Manager:Windows:efi
func (d osProberDetector) parse(output string) map[string]string {
	oses := map[string]string{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			d.logger.Warn(d.logTag, "Skipping unexpected line `%s'", line)
			continue
		}

		partitionPath := fields[0]
		if i := strings.Index(partitionPath, "@"); i >= 0 {
			partitionPath = partitionPath[:i]
		}

		label := fields[1]
		if label == "" {
			label = fields[2]
		}

		if _, found := oses[partitionPath]; found {
			continue
		}

		oses[partitionPath] = label
	}

	return oses
}
