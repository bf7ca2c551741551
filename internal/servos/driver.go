package servos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"servo2go/internal/configuration"
)

// ErrDriverFault indicates that the driver sink rejected an angle
// write. The in-flight motion is aborted at the last successfully
// written angle and the servo is escalated to ERROR.
var ErrDriverFault = errors.New("driver fault")

const cmdDriverTimeout = 2 * time.Second

// Driver is the sink that applies a physical angle to an actuator.
// The core makes no assumption about the underlying protocol.
type Driver interface {
	WriteAngle(channel int, physicalAngle float64) error
}

func NewDriver(config configuration.ServoConfig) (Driver, error) {
	if config.File != nil {
		return &FileDriver{
			Path: config.File.Path,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdDriver{
			Exec: config.Cmd.Exec,
			Args: config.Cmd.Args,
		}, nil
	}

	return nil, fmt.Errorf("no matching driver type for servo: %s", config.ID)
}

// FileDriver applies angles by writing them to a file path, e.g. a
// sysfs attribute exposed by a PWM controller kernel driver.
type FileDriver struct {
	Path string
}

func (d *FileDriver) WriteAngle(channel int, physicalAngle float64) error {
	value := strconv.FormatFloat(physicalAngle, 'f', 3, 64)
	err := os.WriteFile(d.Path, []byte(value), 0644)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDriverFault, err.Error())
	}
	return nil
}

// CmdDriver applies angles by invoking an external command, appending
// the channel and the physical angle as trailing arguments.
type CmdDriver struct {
	Exec string
	Args []string
}

func (d *CmdDriver) WriteAngle(channel int, physicalAngle float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), cmdDriverTimeout)
	defer cancel()

	args := append([]string{}, d.Args...)
	args = append(args, strconv.Itoa(channel), strconv.FormatFloat(physicalAngle, 'f', 3, 64))

	cmd := exec.CommandContext(ctx, d.Exec, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", ErrDriverFault, err.Error())
	}
	return nil
}
