package arbor

import "errors"

var (
	// ErrNilNode is returned when a nil node is passed to a tree operation.
	ErrNilNode = errors.New("arbor: nil node")
	// ErrHasParent is returned when attaching a node that already has a parent.
	// Detach it first with RemoveFromParent.
	ErrHasParent = errors.New("arbor: node already has a parent")
	// ErrCycle is returned when attaching a node to itself or to one of its
	// own descendants.
	ErrCycle = errors.New("arbor: node cannot be its own descendant")
	// ErrEmptyName is returned by SetName for an empty name.
	ErrEmptyName = errors.New("arbor: empty node name")
	// ErrDisposed is returned when operating on a disposed node.
	ErrDisposed = errors.New("arbor: node is disposed")
	// ErrNoScene is returned by node action helpers when the node is not
	// linked to a scene and therefore has no scheduler.
	ErrNoScene = errors.New("arbor: node is not in a scene")
)
