package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure outcome. Outcome.Err wraps them so callers
// can match with errors.Is.
var (
	ErrInvalidPath                = errors.New("invalid path")
	ErrInsufficientInventory      = errors.New("insufficient inventory")
	ErrContainerDoesNotExist      = errors.New("container does not exist")
	ErrObjectAtSubpath            = errors.New("object found where a container was expected")
	ErrCannotAddOrRemoveContainer = errors.New("cannot add or remove a container")
	ErrPathIsEmpty                = errors.New("path is empty")
	ErrCollision                  = errors.New("an item already exists at that path")
	ErrNoSuchParent               = errors.New("parent container does not exist")
	ErrExpectedContainer          = errors.New("expected a container")
	ErrNoSuchContainer            = errors.New("container does not exist")
	ErrContainerNotEmpty          = errors.New("container is not empty")
)

// AddItemKind enumerates the outcomes of AddItem.
type AddItemKind int

const (
	Success AddItemKind = iota
	InvalidPath
	InsufficientInventory
	ContainerDoesNotExistFor
	ObjectAtSubpath
	CannotAddOrRemoveContainer
)

var addItemKindNames = map[AddItemKind]string{
	Success:                    "Success",
	InvalidPath:                "InvalidPath",
	InsufficientInventory:      "InsufficientInventory",
	ContainerDoesNotExistFor:   "ContainerDoesNotExistFor",
	ObjectAtSubpath:            "ObjectAtSubpath",
	CannotAddOrRemoveContainer: "CannotAddOrRemoveContainer",
}

func (k AddItemKind) String() string {
	if n, ok := addItemKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("AddItemKind(%d)", int(k))
}

// AddItemOutcome reports the result of AddItem.
//
// Requested and Available are set for Success and InsufficientInventory only.
// For InsufficientInventory, Available is the count before the attempt.
type AddItemOutcome struct {
	Kind      AddItemKind
	Path      []string
	Requested int
	Available int
}

// OK reports whether the outcome is Success.
func (o AddItemOutcome) OK() bool { return o.Kind == Success }

// Err returns nil for Success, otherwise an error wrapping the kind's sentinel.
func (o AddItemOutcome) Err() error {
	var sentinel error
	switch o.Kind {
	case Success:
		return nil
	case InvalidPath:
		sentinel = ErrInvalidPath
	case InsufficientInventory:
		return fmt.Errorf("%s: requested %d, available %d: %w",
			joinPath(o.Path), o.Requested, o.Available, ErrInsufficientInventory)
	case ContainerDoesNotExistFor:
		sentinel = ErrContainerDoesNotExist
	case ObjectAtSubpath:
		sentinel = ErrObjectAtSubpath
	case CannotAddOrRemoveContainer:
		sentinel = ErrCannotAddOrRemoveContainer
	default:
		return fmt.Errorf("%s: unknown outcome %s", joinPath(o.Path), o.Kind)
	}
	return fmt.Errorf("%s: %w", joinPath(o.Path), sentinel)
}

// ContainerKind enumerates the outcomes of AddContainer and RemoveContainer.
type ContainerKind int

const (
	ContainerCreated ContainerKind = iota
	ContainerRemoved
	PathIsEmpty
	Collision
	NoSuchParent
	ExpectedContainer
	NoSuchContainer
	ContainerNotEmpty
)

var containerKindNames = map[ContainerKind]string{
	ContainerCreated:  "Success",
	ContainerRemoved:  "Success",
	PathIsEmpty:       "PathIsEmpty",
	Collision:         "Collision",
	NoSuchParent:      "NoSuchParent",
	ExpectedContainer: "ExpectedContainer",
	NoSuchContainer:   "NoSuchContainer",
	ContainerNotEmpty: "ContainerNotEmpty",
}

func (k ContainerKind) String() string {
	if n, ok := containerKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ContainerKind(%d)", int(k))
}

// ContainerOutcome reports the result of AddContainer or RemoveContainer.
type ContainerOutcome struct {
	Kind ContainerKind
	Path []string
}

// OK reports whether the container was created or removed.
func (o ContainerOutcome) OK() bool {
	return o.Kind == ContainerCreated || o.Kind == ContainerRemoved
}

// Err returns nil on success, otherwise an error wrapping the kind's sentinel.
func (o ContainerOutcome) Err() error {
	var sentinel error
	switch o.Kind {
	case ContainerCreated, ContainerRemoved:
		return nil
	case PathIsEmpty:
		sentinel = ErrPathIsEmpty
	case Collision:
		sentinel = ErrCollision
	case NoSuchParent:
		sentinel = ErrNoSuchParent
	case ExpectedContainer:
		sentinel = ErrExpectedContainer
	case NoSuchContainer:
		sentinel = ErrNoSuchContainer
	case ContainerNotEmpty:
		sentinel = ErrContainerNotEmpty
	default:
		return fmt.Errorf("%s: unknown outcome %s", joinPath(o.Path), o.Kind)
	}
	return fmt.Errorf("%s: %w", joinPath(o.Path), sentinel)
}

// JoinPath renders a path as "a / b / c", the form used in messages.
func JoinPath(path []string) string {
	return joinPath(path)
}

func joinPath(path []string) string {
	return strings.Join(path, " / ")
}

// Option configures a single AddItem call.
type Option func(*options)

type options struct {
	pruneEmpty bool
}

// WithPruneEmpty deletes an Object once a successful AddItem leaves its count
// at zero or below. Without it, such Objects are kept.
func WithPruneEmpty() Option {
	return func(o *options) { o.pruneEmpty = true }
}

// WithPruning sets the prune policy from a configuration flag.
func WithPruning(enabled bool) Option {
	return func(o *options) { o.pruneEmpty = enabled }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
