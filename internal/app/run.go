package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/internal/ctxlog"
	"github.com/rzaytsev/flowbind/internal/flowfile"
)

// Run executes the main application logic: load the configured flows,
// deploy them, apply the inject directives, and wait for every delivery to
// settle before shutting down.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.AdminPort > 0 {
		a.startAdminServer(a.cfg.AdminPort)
	}
	defer a.shutdown()

	flows, err := flowfile.NewLoader().LoadDir(ctx, a.cfg.FlowsPath)
	if err != nil {
		return fmt.Errorf("failed to load flows: %w", err)
	}
	if len(flows) == 0 {
		a.logger.Warn("No flows found, nothing to deploy.", "path", a.cfg.FlowsPath)
		return nil
	}

	a.logger.Info("🚀 Deploying flows...", "count", len(flows))
	if err := a.host.DeployAll(ctx, flows); err != nil {
		return fmt.Errorf("failed to deploy flows: %w", err)
	}
	a.logger.Info("✅ Flows deployed", "count", len(flows))

	if err := a.applyInjects(ctx, flows); err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.DrainTimeoutSeconds)*time.Second)
	defer cancel()
	if err := a.host.Drain(drainCtx); err != nil {
		return fmt.Errorf("flows did not settle: %w", err)
	}

	a.logger.Info("🏁 Run finished.")
	return nil
}

// applyInjects delivers each configured "flow.node=payload" directive. A
// directive without an address part targets the first flow's entry node.
// Payloads that parse as JSON are injected as the decoded value; anything
// else is injected as a raw string.
func (a *App) applyInjects(ctx context.Context, flows []*flowfile.Flow) error {
	for _, directive := range a.cfg.Injects {
		target, payload, err := parseInject(directive, flows)
		if err != nil {
			return err
		}
		a.logger.Debug("Injecting message.", "target", target.String())
		if err := a.host.Inject(ctx, target, payload); err != nil {
			return fmt.Errorf("inject %q: %w", directive, err)
		}
	}
	return nil
}

func parseInject(directive string, flows []*flowfile.Flow) (address.Address, any, error) {
	rawAddr, rawPayload, found := strings.Cut(directive, "=")
	if !found {
		// Bare payload: aim at the default entry.
		rawPayload = rawAddr
		rawAddr = ""
	}

	var target address.Address
	if rawAddr == "" {
		entry, ok := flows[0].EntryAddress()
		if !ok {
			return address.Address{}, nil, fmt.Errorf("inject %q: flow %q has no nodes", directive, flows[0].ID)
		}
		target = entry
	} else {
		parsed, err := address.Parse(rawAddr)
		if err != nil {
			return address.Address{}, nil, fmt.Errorf("inject %q: %w", directive, err)
		}
		target = parsed
	}

	var payload any
	if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
		payload = rawPayload
	}
	return target, payload, nil
}

// shutdown tears the app down in reverse construction order: admin server,
// host (which undeploys all flows), then the context store.
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.DrainTimeoutSeconds)*time.Second)
	defer cancel()

	a.closeAdminServer(ctx)
	if err := a.host.Close(ctx); err != nil {
		a.logger.Error("Host shutdown failed.", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Context store close failed.", "error", err)
	}
}
