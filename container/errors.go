package container

import "errors"

var (
	// ErrNotFound indicates the requested node does not exist.
	ErrNotFound = errors.New("container: node not found")

	// ErrNotAGroup indicates a dataset or link was found where a group was expected.
	ErrNotAGroup = errors.New("container: node is not a group")

	// ErrNotADataset indicates a group or link was found where a dataset was expected.
	ErrNotADataset = errors.New("container: node is not a dataset")
)
