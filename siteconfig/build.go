package siteconfig

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/aliases"
	"github.com/rbiro/Multicorn/accesspoint/memory"
	"github.com/rbiro/Multicorn/site"
)

const (
	logMsgBuilt   = "siteconfig: access point built"
	logAttrName   = "access_point"
	logAttrKind   = "kind"
	logAttrRows   = "rows"
	logAttrTarget = "underlying"
)

// PostgresFactory opens the access point backed by table.
type PostgresFactory func(ctx context.Context, table string, schema accesspoint.Schema) (accesspoint.AccessPoint, error)

// Option defines a functional option for Build.
type Option func(*builder) error

// WithLogger sets the logger handed to the site and to every access point built.
func WithLogger(logger accesspoint.Logger) Option {
	return func(b *builder) error {
		b.logger = logger
		return nil
	}
}

// WithPostgres enables access points of kind "postgres".
func WithPostgres(factory PostgresFactory) Option {
	return func(b *builder) error {
		b.postgres = factory
		return nil
	}
}

type builder struct {
	cfg      Config
	logger   accesspoint.Logger
	postgres PostgresFactory
	built    map[string]accesspoint.AccessPoint
	visiting map[string]bool
}

// Build creates every access point of cfg and registers it on a new site under its name.
// Aliases access points may reference each other in any order, as long as they form no cycle.
func Build(ctx context.Context, cfg Config, options ...Option) (*site.Site, error) {
	b := &builder{
		cfg:      cfg,
		built:    make(map[string]accesspoint.AccessPoint, len(cfg.AccessPoints)),
		visiting: make(map[string]bool),
	}

	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}

	var siteOptions []site.Option
	if b.logger != nil {
		siteOptions = append(siteOptions, site.WithLogger(b.logger))
	}

	s, err := site.New(siteOptions...)
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.AccessPoints)) {
		ap, err := b.build(ctx, name)
		if err != nil {
			return nil, err
		}

		if err := s.Register(name, ap); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (b *builder) build(ctx context.Context, name string) (accesspoint.AccessPoint, error) {
	if ap, ok := b.built[name]; ok {
		return ap, nil
	}

	apc, ok := b.cfg.AccessPoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnderlying, name)
	}

	if b.visiting[name] {
		return nil, fmt.Errorf("%w: %q", ErrCyclicAliases, name)
	}

	b.visiting[name] = true
	defer delete(b.visiting, name)

	var (
		ap  accesspoint.AccessPoint
		err error
	)

	switch apc.Kind {
	case KindMemory:
		ap, err = b.buildMemory(ctx, name, apc)
	case KindPostgres:
		ap, err = b.buildPostgres(ctx, name, apc)
	case KindAliases:
		ap, err = b.buildAliases(ctx, name, apc)
	default:
		err = fmt.Errorf("%w: %q for access point %q", ErrUnknownKind, apc.Kind, name)
	}

	if err != nil {
		return nil, err
	}

	b.built[name] = ap

	return ap, nil
}

func (b *builder) buildMemory(ctx context.Context, name string, apc AccessPointConfig) (accesspoint.AccessPoint, error) {
	schema, err := apc.Schema()
	if err != nil {
		return nil, err
	}

	var options []memory.Option
	if b.logger != nil {
		options = append(options, memory.WithLogger(b.logger))
	}

	ap, err := memory.New(schema, options...)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(apc.Rows))
	for i, row := range apc.Rows {
		values, err := coerceRow(schema, row)
		if err != nil {
			return nil, fmt.Errorf("access point %q, row %d: %w", name, i, err)
		}

		rows = append(rows, values)
	}

	if err := ap.Fill(ctx, rows...); err != nil {
		return nil, err
	}

	b.logBuilt(name, KindMemory, logAttrRows, len(rows))

	return ap, nil
}

func (b *builder) buildPostgres(ctx context.Context, name string, apc AccessPointConfig) (accesspoint.AccessPoint, error) {
	if b.postgres == nil {
		return nil, fmt.Errorf("%w: %q", ErrPostgresNotEnabled, name)
	}

	schema, err := apc.Schema()
	if err != nil {
		return nil, err
	}

	table := apc.Table
	if table == "" {
		table = name
	}

	ap, err := b.postgres(ctx, table, schema)
	if err != nil {
		return nil, err
	}

	b.logBuilt(name, KindPostgres)

	return ap, nil
}

func (b *builder) buildAliases(ctx context.Context, name string, apc AccessPointConfig) (accesspoint.AccessPoint, error) {
	underlying, err := b.build(ctx, apc.Underlying)
	if err != nil {
		return nil, err
	}

	var options []aliases.Option
	if b.logger != nil {
		options = append(options, aliases.WithLogger(b.logger))
	}

	ap, err := aliases.New(underlying, apc.Aliases, options...)
	if err != nil {
		return nil, err
	}

	b.logBuilt(name, KindAliases, logAttrTarget, apc.Underlying)

	return ap, nil
}

func (b *builder) logBuilt(name, kind string, args ...any) {
	if b.logger != nil {
		b.logger.Info(logMsgBuilt, append([]any{logAttrName, name, logAttrKind, kind}, args...)...)
	}
}

// Schema builds the accesspoint.Schema described by the properties and identity of apc.
func (apc AccessPointConfig) Schema() (accesspoint.Schema, error) {
	properties := make(map[string]accesspoint.Property, len(apc.Properties))

	for name, pc := range apc.Properties {
		typeTag := accesspoint.TypeAny
		if pc.Type != "" {
			var ok bool
			if typeTag, ok = accesspoint.ParseTypeTag(pc.Type); !ok {
				return accesspoint.Schema{}, fmt.Errorf("%w: %q for property %q", ErrUnknownType, pc.Type, name)
			}
		}

		properties[name] = accesspoint.Property{Type: typeTag, MultiValued: pc.Multi}
	}

	return accesspoint.NewSchema(properties, apc.Identity...)
}

// coerceRow converts the YAML scalars of row into the Go values the schema types call for.
func coerceRow(schema accesspoint.Schema, row map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(row))

	for name, raw := range row {
		property, ok := schema.Property(name)
		if !ok {
			return nil, accesspoint.UnknownPropertyError(name)
		}

		if !property.MultiValued {
			value, err := coerce(property.Type, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: property %q: %w", ErrInvalidRow, name, err)
			}

			values[name] = value
			continue
		}

		list, isList := raw.([]any)
		if !isList {
			list = []any{raw}
		}

		coerced := make([]any, 0, len(list))
		for _, element := range list {
			value, err := coerce(property.Type, element)
			if err != nil {
				return nil, fmt.Errorf("%w: property %q: %w", ErrInvalidRow, name, err)
			}

			coerced = append(coerced, value)
		}

		values[name] = accesspoint.MultiValue(coerced...)
	}

	return values, nil
}

func coerce(typeTag accesspoint.TypeTag, raw any) (any, error) {
	switch typeTag {
	case accesspoint.TypeFloat:
		if i, ok := raw.(int); ok {
			return float64(i), nil
		}
	case accesspoint.TypeTime:
		if s, ok := raw.(string); ok {
			return time.Parse(time.RFC3339, s)
		}
	case accesspoint.TypeUUID:
		if s, ok := raw.(string); ok {
			return uuid.Parse(s)
		}
	default:
	}

	return raw, nil
}
