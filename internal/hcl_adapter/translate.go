// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/hashicorp/hcl/v2"
)

func translateProject(p *projectBlock) *config.Project {
	return &config.Project{
		Name:       p.Name,
		Threads:    p.Threads,
		FailFast:   p.FailFast,
		OnRunStart: p.OnRunStart,
		OnRunEnd:   p.OnRunEnd,
	}
}

// translateResource converts the attributes every kind shares.
func translateResource(ctx context.Context, kind node.Kind, b *commonBlock) (*config.Resource, error) {
	ctx, logger := ctxlog.With(ctx, "kind", kind, "name", b.Name)
	logger.Debug("Translating HCL block to internal config model.")

	meta, err := decodeMeta(ctx, b.Meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %s '%s': %w", declRange(b.Body), kind, b.Name, err)
	}
	return &config.Resource{
		Kind:      kind,
		Name:      b.Name,
		Path:      b.Path,
		Tags:      b.Tags,
		DependsOn: b.DependsOn,
		Command:   b.Command,
		Meta:      meta,
		DeclRange: declRange(b.Body),
	}, nil
}

func translateModel(ctx context.Context, m *modelBlock) (*config.Resource, error) {
	r, err := translateResource(ctx, node.KindModel, &commonBlock{
		Name: m.Name, Path: m.Path, Tags: m.Tags, DependsOn: m.DependsOn,
		Command: m.Command, Meta: m.Meta, Body: m.Body,
	})
	if err != nil {
		return nil, err
	}
	switch m.Materialized {
	case "", "table", "view", "incremental", node.MaterializedEphemeral:
	default:
		return nil, fmt.Errorf("%s: model '%s' has unknown materialization '%s'", declRange(m.Body), m.Name, m.Materialized)
	}
	r.Materialized = m.Materialized
	return r, nil
}

func translateTest(ctx context.Context, t *testBlock) (*config.Resource, error) {
	r, err := translateResource(ctx, node.KindTest, &commonBlock{
		Name: t.Name, Path: t.Path, Tags: t.Tags, DependsOn: t.DependsOn,
		Command: t.Command, Meta: t.Meta, Body: t.Body,
	})
	if err != nil {
		return nil, err
	}
	switch t.Severity {
	case "", node.SeverityError, node.SeverityWarn:
	default:
		return nil, fmt.Errorf("%s: test '%s' has unknown severity '%s'", declRange(t.Body), t.Name, t.Severity)
	}
	r.Severity = t.Severity
	return r, nil
}

func translateSnapshot(ctx context.Context, s *snapshotBlock) (*config.Resource, error) {
	r, err := translateResource(ctx, node.KindSnapshot, &commonBlock{
		Name: s.Name, Path: s.Path, Tags: s.Tags, DependsOn: s.DependsOn,
		Command: s.Command, Meta: s.Meta, Body: s.Body,
	})
	if err != nil {
		return nil, err
	}
	r.Strategy = s.Strategy
	r.UniqueKey = s.UniqueKey
	return r, nil
}

func translateSelector(s *selectorBlock) *config.Selector {
	return &config.Selector{Name: s.Name, Include: s.Include, Exclude: s.Exclude}
}

// decodeMeta evaluates the optional `meta` attribute, which must be a
// constant object.
func decodeMeta(ctx context.Context, expr hcl.Expression) (map[string]any, error) {
	if !isExprDefined(ctx, expr, "meta") {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid meta: %w", diags)
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("meta must be an object, got %s", val.Type().FriendlyName())
	}
	out, err := ctyValueToInterface(val)
	if err != nil {
		return nil, fmt.Errorf("invalid meta: %w", err)
	}
	m, _ := out.(map[string]any)
	return m, nil
}

// declRange renders where a block was declared as "file:line".
func declRange(body hcl.Body) string {
	if body == nil {
		return "<unknown>"
	}
	r := body.MissingItemRange()
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
