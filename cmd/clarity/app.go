package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/c360studio/clarity"
	"github.com/c360studio/clarity/config"
	"github.com/c360studio/clarity/element"
)

// App wires a configured session to the CLI commands.
type App struct {
	cfg     *config.Config
	session *clarity.Session
}

// NewApp creates an application instance with a session built from config.
func NewApp(cfg *config.Config) (*App, error) {
	session, err := clarity.NewSession(cfg.Server.BaseURI, cfg.Server.Username, cfg.Server.Password,
		clarity.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout}),
		clarity.WithRetryConfig(clarity.RetryConfig{
			MaxAttempts:       cfg.Retry.MaxAttempts,
			BackoffBase:       cfg.Retry.BackoffBase,
			BackoffMultiplier: cfg.Retry.BackoffMultiplier,
			MaxBackoff:        cfg.Retry.MaxBackoff,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &App{cfg: cfg, session: session}, nil
}

// ShowArtifact fetches one artifact and prints its declared fields.
func (a *App) ShowArtifact(ctx context.Context, limsid string) error {
	art, err := a.session.Artifacts.Get(ctx, limsid)
	if err != nil {
		return fmt.Errorf("get artifact %s: %w", limsid, err)
	}

	name, err := art.Name(ctx)
	if err != nil {
		return err
	}
	fields, err := art.FieldMap(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", art.LimsID(), name)
	fmt.Printf("  uri: %s\n", art.URI())

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, formatFieldValue(fields[k]))
	}
	return nil
}

// SetArtifactQC writes the tri-state QC flag and saves the artifact.
func (a *App) SetArtifactQC(ctx context.Context, limsid, state string) error {
	var value *bool
	switch strings.ToLower(state) {
	case "passed":
		v := true
		value = &v
	case "failed":
		v := false
		value = &v
	case "unknown":
		value = nil
	default:
		return fmt.Errorf("invalid QC state %q: want passed, failed or unknown", state)
	}

	art, err := a.session.Artifacts.Get(ctx, limsid)
	if err != nil {
		return fmt.Errorf("get artifact %s: %w", limsid, err)
	}
	if err := art.SetQC(ctx, value); err != nil {
		return err
	}
	if err := a.session.Save(ctx, art); err != nil {
		return fmt.Errorf("save artifact %s: %w", limsid, err)
	}

	qcState, err := art.QCState(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s qc-flag: %s\n", art.LimsID(), qcState)
	return nil
}

// ShowQueuedStages lists the workflow stages an artifact is queued in.
func (a *App) ShowQueuedStages(ctx context.Context, limsid string) error {
	art, err := a.session.Artifacts.Get(ctx, limsid)
	if err != nil {
		return fmt.Errorf("get artifact %s: %w", limsid, err)
	}

	stages, err := art.QueuedStages(ctx)
	if err != nil {
		return err
	}
	if len(stages) == 0 {
		fmt.Printf("%s is not queued in any stage\n", art.LimsID())
		return nil
	}
	for _, st := range stages {
		name, err := st.Name(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", st.LimsID(), name)
	}
	return nil
}

// ListSamples queries the sample collection and prints one line per match.
func (a *App) ListSamples(ctx context.Context, params []string) error {
	values, err := parseParams(params)
	if err != nil {
		return err
	}

	samples, err := a.session.Samples.Query(ctx, values)
	if err != nil {
		return fmt.Errorf("query samples: %w", err)
	}
	for _, s := range samples {
		fmt.Println(s.LimsID(), s.URI())
	}
	fmt.Printf("%d sample(s)\n", len(samples))
	return nil
}

func parseParams(params []string) (url.Values, error) {
	values := url.Values{}
	for _, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid query parameter %q: want name=value", p)
		}
		values.Add(name, value)
	}
	return values, nil
}

func formatFieldValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case *element.Link:
		return t.URI
	case []*clarity.WorkflowStageHistory:
		return fmt.Sprintf("%d history entries", len(t))
	case []*clarity.ReagentLabel:
		names := make([]string, 0, len(t))
		for _, l := range t {
			names = append(names, l.Name())
		}
		return strings.Join(names, ", ")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
