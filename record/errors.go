package record

import "errors"

var (
	// ErrNodeEvaluation indicates a node failed to evaluate during the
	// recording loop. The recording aborts immediately; the caller decides
	// whether to retry.
	ErrNodeEvaluation = errors.New("node evaluation failed")
)
