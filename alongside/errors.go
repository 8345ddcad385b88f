package alongside

import (
	"errors"
	"fmt"
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
)

// fatalError is implemented by errors that must halt the whole install flow
type fatalError interface {
	Fatal() bool
}

type InsufficientSpaceError struct {
	PartitionPath string
	MinSizeMB     uint64
	MaxSizeMB     uint64
}

func (e InsufficientSpaceError) Error() string {
	return fmt.Sprintf("Insufficient space on `%s': %dMB used of %dMB, more than %dMB must stay free", e.PartitionPath, e.MinSizeMB, e.MaxSizeMB, ReservedMarginMB)
}

func (e InsufficientSpaceError) Fatal() bool { return false }

type TooManyPrimaryPartitionsError struct {
	DevicePath   string
	PrimaryPaths []string
}

func (e TooManyPrimaryPartitionsError) Error() string {
	return fmt.Sprintf("Too many primary partitions on `%s': %s", e.DevicePath, strings.Join(e.PrimaryPaths, ", "))
}

func (e TooManyPrimaryPartitionsError) Fatal() bool { return false }

type InvalidTopologyError struct {
	DevicePath string
	Reason     string
}

func (e InvalidTopologyError) Error() string {
	return fmt.Sprintf("Unsupported partition layout on `%s': %s", e.DevicePath, e.Reason)
}

func (e InvalidTopologyError) Fatal() bool { return false }

type InvalidPlanError struct {
	PlanID string
	Reason string
}

func (e InvalidPlanError) Error() string {
	return fmt.Sprintf("Invalid shrink plan %s: %s", e.PlanID, e.Reason)
}

func (e InvalidPlanError) Fatal() bool { return false }

type PartitionNotFoundError struct {
	PartitionPath string
}

func (e PartitionNotFoundError) Error() string {
	return fmt.Sprintf("Partition `%s' is not available for installation", e.PartitionPath)
}

func (e PartitionNotFoundError) Fatal() bool { return false }

type ShrinkInProgressError struct{}

func (e ShrinkInProgressError) Error() string {
	return "Another shrink operation is in progress"
}

func (e ShrinkInProgressError) Fatal() bool { return false }

type EnumerationError struct {
	Cause error
}

func (e EnumerationError) Error() string {
	return fmt.Sprintf("Listing block devices: %s", e.Cause)
}

func (e EnumerationError) Unwrap() error { return e.Cause }
func (e EnumerationError) Fatal() bool   { return true }

type UsageQueryError struct {
	PartitionPath string
	Cause         error
}

func (e UsageQueryError) Error() string {
	return fmt.Sprintf("Querying usage of `%s': %s", e.PartitionPath, e.Cause)
}

func (e UsageQueryError) Unwrap() error { return e.Cause }
func (e UsageQueryError) Fatal() bool   { return true }

type ExecutionError struct {
	PlanID        string
	PartitionPath string
	Stage         ExecutionStage
	State         ExecutionState
	Cause         error
}

func (e ExecutionError) Error() string {
	return fmt.Sprintf("%s of `%s' failed, disk is %s: %s", e.Stage, e.PartitionPath, e.State, e.Cause)
}

func (e ExecutionError) Unwrap() error { return e.Cause }
func (e ExecutionError) Fatal() bool   { return e.State == StateUnsafe }

// IsFatal reports whether err, or any error it wraps, must stop the install flow
func IsFatal(err error) bool {
	fatal := false
	walkErrors(err, func(e error) bool {
		if typed, ok := e.(fatalError); ok {
			fatal = typed.Fatal()
			return true
		}
		return false
	})
	return fatal
}

// IsUnsafeState reports whether the filesystem was shrunk but the partition table was not
func IsUnsafeState(err error) bool {
	var executionErr ExecutionError
	return AsError(err, &executionErr) && executionErr.State == StateUnsafe
}

// AsError is errors.As that also looks through bosh ComplexError chains
func AsError[T error](err error, target *T) bool {
	return walkErrors(err, func(e error) bool {
		return errors.As(e, target)
	})
}

func walkErrors(err error, visit func(error) bool) bool {
	for err != nil {
		if visit(err) {
			return true
		}

		switch typed := err.(type) {
		case bosherr.ComplexError:
			err = typed.Cause
		case *bosherr.ComplexError:
			err = typed.Cause
		default:
			err = errors.Unwrap(err)
		}
	}

	return false
}
