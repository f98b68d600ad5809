package saber

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates the flattened gold and predicted label
	// sequences have different lengths.
	ErrShapeMismatch = errors.New("saber: gold and predicted label sequences differ in length")

	// ErrUnknownIndex indicates a class index with no tag in the label map.
	ErrUnknownIndex = errors.New("saber: class index not in label map")

	// ErrUnknownTag indicates a tag string with no index in the label map.
	ErrUnknownTag = errors.New("saber: tag not in label map")

	// ErrInvalidLabelMap indicates the tag/index mapping is not a bijection.
	ErrInvalidLabelMap = errors.New("saber: invalid label map")
)
