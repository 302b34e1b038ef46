// Package contentcmd exposes content reconciliation as a dispatchable
// command.
package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/sync"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const syncContentMessageType = "portfolio.content.sync"

// Runner abstracts the reconciliation engine for this command.
type Runner interface {
	Run(ctx context.Context, contentRoot string) (*sync.Summary, error)
}

// SyncContentCommand requests a full reconciliation pass over a content tree.
type SyncContentCommand struct {
	ContentRoot string `json:"content_root"`
}

// Type implements command.Message.
func (SyncContentCommand) Type() string { return syncContentMessageType }

// Validate ensures the message carries a content root before execution.
func (m SyncContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentRoot == "" {
		errs["content_root"] = validation.NewError("portfolio.content.sync.root_required", "content_root is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SyncContentHandler drives the engine through the shared handler foundation.
type SyncContentHandler struct {
	inner *commands.Handler[SyncContentCommand]
}

// NewSyncContentHandler constructs a handler wired to the provided engine.
// OnComplete, when non-nil, receives the run summary after a successful pass.
// A reconciliation pass scales with the size of the content tree, so the
// handler carries no execution timeout of its own; callers bound the run
// through the context, or pass WithTimeout to restore one.
func NewSyncContentHandler(runner Runner, logger interfaces.Logger, onComplete func(*sync.Summary), opts ...commands.HandlerOption[SyncContentCommand]) *SyncContentHandler {
	exec := func(ctx context.Context, msg SyncContentCommand) error {
		summary, err := runner.Run(ctx, msg.ContentRoot)
		if err != nil {
			return err
		}
		if onComplete != nil {
			onComplete(summary)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncContentCommand]{
		commands.WithTimeout[SyncContentCommand](0),
		commands.WithLogger[SyncContentCommand](logger),
		commands.WithOperation[SyncContentCommand]("content.sync"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncContentHandler{
		inner: commands.NewHandler[SyncContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncContentCommand].Execute.
func (h *SyncContentHandler) Execute(ctx context.Context, msg SyncContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
