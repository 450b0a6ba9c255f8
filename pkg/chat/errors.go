package chat

import "fmt"

// IncompatibleMergeError reports a structural type mismatch while
// merging two chunks' fields: the same key holds values of kinds that
// cannot combine (anything other than string+string or map+map).
//
// The whole merge fails; no partial precedence is applied, since a
// silently half-merged message is worse than an error.
type IncompatibleMergeError struct {
	// Path is the dot-joined key path of the conflicting field.
	Path string

	LeftKind  string
	RightKind string
}

func (e *IncompatibleMergeError) Error() string {
	return fmt.Sprintf("incompatible merge at %q: cannot combine %s with %s",
		e.Path, e.LeftKind, e.RightKind)
}

// RoleConflictError reports an attempt to merge chunks that belong to
// different conversational roles.
type RoleConflictError struct {
	Left  Role
	Right Role
}

func (e *RoleConflictError) Error() string {
	return fmt.Sprintf("role conflict: cannot merge %q chunk with %q chunk", e.Left, e.Right)
}
