package aliases

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

const (
	logMsgRequestTranslated = "aliases: request translated"
	logAttrRequest          = "request"
	logAttrTranslated       = "translated"
)

// Aliases is an access point renaming the properties of an underlying access point.
//
// Its schema is derived once, at construction: every underlying property with an alias is exposed
// under that alias with the same Property; every other underlying property is exposed unchanged.
type Aliases struct {
	underlying accesspoint.AccessPoint
	aliases    map[string]string // alias -> underlying name
	reversed   map[string]string // underlying name -> alias
	schema     accesspoint.Schema
	logger     accesspoint.Logger
}

// Option defines a functional option for configuring Aliases.
type Option func(*Aliases) error

// WithLogger sets the logger for Aliases.
// Only translated requests are logged, at debug level.
func WithLogger(logger accesspoint.Logger) Option {
	return func(a *Aliases) error {
		a.logger = logger
		return nil
	}
}

// New creates an Aliases access point over underlying, which must outlive it.
//
// aliases maps alias names to underlying names. It fails with accesspoint.ErrAmbiguousAlias when
// a name is empty, when two aliases target the same underlying name, or when an alias equals the
// name of an underlying property that is not aliased itself.
// Targets missing from the underlying schema are accepted: using them fails later, on access.
func New(underlying accesspoint.AccessPoint, aliases map[string]string, options ...Option) (*Aliases, error) {
	if underlying == nil {
		return nil, accesspoint.ErrNilAccessPoint
	}

	reversed, err := reverse(aliases)
	if err != nil {
		return nil, err
	}

	a := &Aliases{
		underlying: underlying,
		aliases:    maps.Clone(aliases),
		reversed:   reversed,
	}

	if a.aliases == nil {
		a.aliases = make(map[string]string)
	}

	if a.schema, err = a.deriveSchema(underlying.Schema()); err != nil {
		return nil, err
	}

	for _, option := range options {
		if err := option(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func reverse(aliases map[string]string) (map[string]string, error) {
	reversed := make(map[string]string, len(aliases))

	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		target := aliases[alias]

		if alias == "" || target == "" {
			return nil, fmt.Errorf("%w: empty name in %q -> %q", accesspoint.ErrAmbiguousAlias, alias, target)
		}

		if previous, ok := reversed[target]; ok {
			return nil, fmt.Errorf("%w: %q and %q both target %q", accesspoint.ErrAmbiguousAlias, previous, alias, target)
		}

		reversed[target] = alias
	}

	return reversed, nil
}

func (a *Aliases) deriveSchema(underlying accesspoint.Schema) (accesspoint.Schema, error) {
	for _, alias := range slices.Sorted(maps.Keys(a.aliases)) {
		if _, aliased := a.reversed[alias]; underlying.Has(alias) && !aliased {
			return accesspoint.Schema{}, fmt.Errorf("%w: alias %q hides the underlying property of the same name", accesspoint.ErrAmbiguousAlias, alias)
		}
	}

	properties := make(map[string]accesspoint.Property, underlying.Len())
	for name, property := range underlying.Properties() {
		properties[a.Reverse(name)] = property
	}

	identity := make([]string, 0, len(underlying.Identity()))
	for _, name := range underlying.Identity() {
		identity = append(identity, a.Reverse(name))
	}

	return accesspoint.NewSchema(properties, identity...)
}

// Underlying returns the wrapped access point.
func (a *Aliases) Underlying() accesspoint.AccessPoint {
	return a.underlying
}

// Aliases returns a copy of the alias map (alias -> underlying name).
func (a *Aliases) Aliases() map[string]string {
	return maps.Clone(a.aliases)
}

// Reversed returns a copy of the reverse map (underlying name -> alias).
func (a *Aliases) Reversed() map[string]string {
	return maps.Clone(a.reversed)
}

// Translate returns the underlying name for name: its target when name is an alias, name otherwise.
func (a *Aliases) Translate(name string) string {
	if target, ok := a.aliases[name]; ok {
		return target
	}

	return name
}

// Reverse returns the exposed name for an underlying name: its alias when it has one, name otherwise.
func (a *Aliases) Reverse(name string) string {
	if alias, ok := a.reversed[name]; ok {
		return alias
	}

	return name
}

// Masked reports whether name is an underlying name hidden behind an alias.
func (a *Aliases) Masked(name string) bool {
	if _, isAlias := a.aliases[name]; isAlias {
		return false
	}

	_, masked := a.reversed[name]

	return masked
}

// TranslateRequest rewrites r from alias names to underlying names.
//
// Only Condition property names change: the combinator structure, child order, operators and values
// are kept. Names that are not aliases pass through, even when no schema declares them.
func (a *Aliases) TranslateRequest(r request.Request) request.Request {
	return request.RenameWith(r, a.aliases)
}

// TranslateValues rewrites the keys of values from alias names to underlying names.
// It fails with accesspoint.ErrUnknownProperty when a key is a masked underlying name.
func (a *Aliases) TranslateValues(values map[string]any) (map[string]any, error) {
	translated := make(map[string]any, len(values))

	for name, v := range values {
		if a.Masked(name) {
			return nil, accesspoint.UnknownPropertyError(name)
		}

		translated[a.Translate(name)] = v
	}

	return translated, nil
}

// Schema implements accesspoint.AccessPoint.
func (a *Aliases) Schema() accesspoint.Schema {
	return a.schema
}

// Search translates r, delegates to the underlying access point and wraps every resulting item.
// It fails with accesspoint.ErrUnknownProperty when r references a masked underlying name.
func (a *Aliases) Search(ctx context.Context, r request.Request) ([]accesspoint.Item, error) {
	for _, name := range request.PropertyNames(r) {
		if a.Masked(name) {
			return nil, accesspoint.UnknownPropertyError(name)
		}
	}

	translated := a.TranslateRequest(r)

	if a.logger != nil && r != nil {
		a.logger.Debug(logMsgRequestTranslated, logAttrRequest, r.String(), logAttrTranslated, translated.String())
	}

	items, err := a.underlying.Search(ctx, translated)
	if err != nil {
		return nil, err
	}

	wrapped := make([]accesspoint.Item, len(items))
	for i, item := range items {
		wrapped[i] = NewAliasedItem(a, item)
	}

	return wrapped, nil
}

// Create translates the keys of values, delegates to the underlying access point and wraps the result.
func (a *Aliases) Create(ctx context.Context, values map[string]any) (accesspoint.Item, error) {
	translated, err := a.TranslateValues(values)
	if err != nil {
		return nil, err
	}

	item, err := a.underlying.Create(ctx, translated)
	if err != nil {
		return nil, err
	}

	return NewAliasedItem(a, item), nil
}

// Open translates the keys of identity, delegates to the underlying access point and wraps the result.
func (a *Aliases) Open(ctx context.Context, identity map[string]any) (accesspoint.Item, error) {
	translated, err := a.TranslateValues(identity)
	if err != nil {
		return nil, err
	}

	item, err := a.underlying.Open(ctx, translated)
	if err != nil {
		return nil, err
	}

	return NewAliasedItem(a, item), nil
}

// Delete unwraps item and delegates to the underlying access point.
func (a *Aliases) Delete(ctx context.Context, item accesspoint.Item) error {
	wrapped, err := a.unwrap(item)
	if err != nil {
		return err
	}

	return a.underlying.Delete(ctx, wrapped)
}

// Save unwraps item and delegates to the underlying access point.
func (a *Aliases) Save(ctx context.Context, item accesspoint.Item) error {
	wrapped, err := a.unwrap(item)
	if err != nil {
		return err
	}

	return a.underlying.Save(ctx, wrapped)
}

func (a *Aliases) unwrap(item accesspoint.Item) (accesspoint.Item, error) {
	aliased, ok := item.(*AliasedItem)
	if !ok || aliased.accessPoint != a {
		return nil, accesspoint.ErrForeignItem
	}

	return aliased.item, nil
}
