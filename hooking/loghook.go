package hooking

import (
	"log"
)

// A LogHook is a hook that is responsible for recording information from the
// runtime.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}

// A PosLogHook logs a line every time one of the watched positions fires. It
// is the default sink for protocol-violation reports.
type PosLogHook struct {
	LogHookBase

	watched map[*HookPos]bool
}

// NewPosLogHook creates a PosLogHook that logs the given positions with the
// given logger.
func NewPosLogHook(logger *log.Logger, positions ...*HookPos) *PosLogHook {
	h := &PosLogHook{
		watched: make(map[*HookPos]bool),
	}
	h.Logger = logger

	for _, pos := range positions {
		h.watched[pos] = true
	}

	return h
}

// Func logs the hook context if its position is watched.
func (h *PosLogHook) Func(ctx HookCtx) {
	if !h.watched[ctx.Pos] {
		return
	}

	h.Printf("%s: %v", ctx.Pos.Name, ctx.Item)
}
