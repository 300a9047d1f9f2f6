package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactNotFound is returned when a compiled artifact file is missing
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrEntryNotFound is returned when a registry update targets a key that doesn't exist
	ErrEntryNotFound = errors.New("registry entry not found")

	// ErrRegistryDecode is returned when a registry document is malformed
	ErrRegistryDecode = errors.New("malformed registry document")

	// ErrCheckpointIO is returned when a checkpoint can't be read, written or removed
	ErrCheckpointIO = errors.New("checkpoint i/o failure")

	// ErrExternalCall is returned when a deploy, invoke or call against the network fails
	ErrExternalCall = errors.New("external call failed")

	// ErrNotDeployed is returned when a contract has no recorded address yet
	ErrNotDeployed = errors.New("not deployed")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnknownMigration is returned when a migration ID isn't registered
	ErrUnknownMigration = errors.New("unknown migration")

	// ErrUnknownEnvironment is returned when the selected environment isn't configured
	ErrUnknownEnvironment = errors.New("unknown environment")

	// ErrUnknownNetwork is returned when the selected network isn't configured
	ErrUnknownNetwork = errors.New("unknown network")
)

// ArtifactNotFoundError names the artifact that could not be loaded.
type ArtifactNotFoundError struct {
	Name string
	Path string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("artifact %s not found at %s", e.Name, e.Path)
}

func (e *ArtifactNotFoundError) Is(target error) bool { return target == ErrArtifactNotFound }

// EntryNotFoundError names the registry key (and network, for multichain tables)
// that a set operation targeted.
type EntryNotFoundError struct {
	Key     string
	Network string
}

func (e *EntryNotFoundError) Error() string {
	if e.Network != "" {
		return fmt.Sprintf("registry entry :%s not found for network %s", e.Key, e.Network)
	}
	return fmt.Sprintf("registry entry :%s not found", e.Key)
}

func (e *EntryNotFoundError) Is(target error) bool { return target == ErrEntryNotFound }

// RegistryDecodeError reports where a registry document is malformed.
type RegistryDecodeError struct {
	Path string
	Line int
	Col  int
	Msg  string
}

func (e *RegistryDecodeError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "registry document"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", loc, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *RegistryDecodeError) Is(target error) bool { return target == ErrRegistryDecode }

// CheckpointIOError wraps a failed checkpoint read, write or delete.
type CheckpointIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *CheckpointIOError) Error() string {
	return fmt.Sprintf("checkpoint %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CheckpointIOError) Is(target error) bool { return target == ErrCheckpointIO }

func (e *CheckpointIOError) Unwrap() error { return e.Err }

// ExternalCallError wraps a failure from the network.
type ExternalCallError struct {
	Op     string
	Target string
	Err    error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *ExternalCallError) Is(target error) bool { return target == ErrExternalCall }

func (e *ExternalCallError) Unwrap() error { return e.Err }

// StepError records which step of a migration failed. Step is also the index
// the next run resumes at.
type StepError struct {
	Migration string
	Step      int
	Name      string
	Err       error
}

func (e *StepError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("migration %s step %d (%s): %v", e.Migration, e.Step, e.Name, e.Err)
	}
	return fmt.Sprintf("migration %s step %d: %v", e.Migration, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
