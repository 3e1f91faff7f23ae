package engine

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "engine")

var (
	// ErrDecisionParse marks a planner reply that could not be turned into a
	// decision, even after cleanup.
	ErrDecisionParse = errors.New("unparsable decision")
	// ErrInterpretation marks a failed summarization of a tool result.
	ErrInterpretation = errors.New("interpretation failed")
)
