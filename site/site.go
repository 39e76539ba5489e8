// Package site provides the registry binding names to access points.
//
// A Site routes Search, Create, Open, Delete and Save calls to the access point registered under a
// name. Search accepts the flat filter form (property name -> expected value), turned into an And of
// equality conditions, and every request is checked against the schema the bound access point
// exposes before it is delegated: a name outside of that schema fails with
// accesspoint.ErrUnknownProperty. This is what makes the names masked by an aliases.Aliases
// access point unusable through the site.
package site

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

var (
	// ErrEmptyAccessPointName is returned when registering an access point under an empty name.
	ErrEmptyAccessPointName = errors.New("empty access point name supplied")

	// ErrAccessPointAlreadyRegistered is returned when a name is registered twice.
	ErrAccessPointAlreadyRegistered = errors.New("access point already registered")

	// ErrUnknownAccessPoint is returned when no access point is registered under a name.
	ErrUnknownAccessPoint = errors.New("unknown access point")
)

const (
	logMsgRegistered = "site: access point registered"
	logAttrName      = "access_point"
)

// Site is a registry of named access points. It is safe for concurrent use.
type Site struct {
	mu           sync.RWMutex
	accessPoints map[string]accesspoint.AccessPoint
	logger       accesspoint.Logger
}

// Option defines a functional option for configuring Site.
type Option func(*Site) error

// WithLogger sets the logger for the Site. Registrations are logged at info level.
func WithLogger(logger accesspoint.Logger) Option {
	return func(s *Site) error {
		s.logger = logger
		return nil
	}
}

// New creates an empty Site.
func New(options ...Option) (*Site, error) {
	s := &Site{accessPoints: make(map[string]accesspoint.AccessPoint)}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Register binds ap to name.
func (s *Site) Register(name string, ap accesspoint.AccessPoint) error {
	if name == "" {
		return ErrEmptyAccessPointName
	}

	if ap == nil {
		return accesspoint.ErrNilAccessPoint
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accessPoints[name]; ok {
		return fmt.Errorf("%w: %q", ErrAccessPointAlreadyRegistered, name)
	}

	s.accessPoints[name] = ap

	if s.logger != nil {
		s.logger.Info(logMsgRegistered, logAttrName, name)
	}

	return nil
}

// AccessPoint returns the access point bound to name.
func (s *Site) AccessPoint(name string) (accesspoint.AccessPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.accessPoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccessPoint, name)
	}

	return ap, nil
}

// Names returns the registered names, sorted.
func (s *Site) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.accessPoints))
}

// Search runs the flat filter against the access point bound to name.
func (s *Site) Search(ctx context.Context, name string, filter map[string]any) ([]accesspoint.Item, error) {
	return s.SearchRequest(ctx, name, request.FromMap(filter))
}

// SearchRequest checks r against the schema of the access point bound to name, then runs it.
func (s *Site) SearchRequest(ctx context.Context, name string, r request.Request) ([]accesspoint.Item, error) {
	ap, err := s.AccessPoint(name)
	if err != nil {
		return nil, err
	}

	if err := ap.Schema().ValidateRequest(r); err != nil {
		return nil, err
	}

	return ap.Search(ctx, r)
}

// Create creates an item in the access point bound to name.
func (s *Site) Create(ctx context.Context, name string, values map[string]any) (accesspoint.Item, error) {
	ap, err := s.AccessPoint(name)
	if err != nil {
		return nil, err
	}

	return ap.Create(ctx, values)
}

// Open opens an item of the access point bound to name.
func (s *Site) Open(ctx context.Context, name string, identity map[string]any) (accesspoint.Item, error) {
	ap, err := s.AccessPoint(name)
	if err != nil {
		return nil, err
	}

	return ap.Open(ctx, identity)
}

// Delete deletes item through the access point it belongs to.
func (s *Site) Delete(ctx context.Context, item accesspoint.Item) error {
	ap, err := owner(item)
	if err != nil {
		return err
	}

	return ap.Delete(ctx, item)
}

// Save saves item through the access point it belongs to.
func (s *Site) Save(ctx context.Context, item accesspoint.Item) error {
	ap, err := owner(item)
	if err != nil {
		return err
	}

	return ap.Save(ctx, item)
}

// owner returns the access point item belongs to, failing for nil or detached items.
func owner(item accesspoint.Item) (accesspoint.AccessPoint, error) {
	if item == nil {
		return nil, accesspoint.ErrForeignItem
	}

	ap := item.AccessPoint()
	if ap == nil {
		return nil, accesspoint.ErrForeignItem
	}

	return ap, nil
}
