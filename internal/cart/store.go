package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/pkg/enums"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/storage"
)

const (
	DefaultKey   = "cricketStoreCart"
	DefaultBrand = "Cricket Store"

	msgRemoved = "Item removed from cart"
)

// Notifier displays a transient notice to the shopper.
type Notifier interface {
	Show(ctx context.Context, message string, kind enums.NotificationType) error
}

// MutationRecorder counts cart mutations.
type MutationRecorder interface {
	IncCartMutation(op string)
}

// Options wires a Store to its collaborators. Zero values fall back to defaults.
type Options struct {
	Key              string
	BrandPlaceholder string
	Notifier         Notifier
	Logger           *logger.Logger
	Metrics          MutationRecorder
}

// Store is the shopper's cart for one request. It is not safe for concurrent use.
type Store struct {
	bucket  storage.Bucket
	key     string
	brand   string
	notify  Notifier
	logg    *logger.Logger
	metrics MutationRecorder
	lines   []Line
}

// Open builds a Store and loads the persisted lines.
func Open(ctx context.Context, bucket storage.Bucket, opts Options) (*Store, error) {
	s := &Store{
		bucket:  bucket,
		key:     opts.Key,
		brand:   opts.BrandPlaceholder,
		notify:  opts.Notifier,
		logg:    opts.Logger,
		metrics: opts.Metrics,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.brand == "" {
		s.brand = DefaultBrand
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory lines with the stored ones.
// Absent or malformed content yields an empty cart.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.bucket.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.lines = []Line{}
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	lines, err := DecodeLines(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "discarding malformed stored cart")
		s.lines = []Line{}
		return nil
	}
	s.lines = lines
	return nil
}

// Save persists the full line sequence.
func (s *Store) Save(ctx context.Context) error {
	raw, err := EncodeLines(s.lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.bucket.Set(ctx, s.key, raw, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Add puts one unit of product into the cart.
func (s *Store) Add(ctx context.Context, p Product) (bool, error) {
	p.ID = ProductID(strings.TrimSpace(string(p.ID)))
	if p.ID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if p.Price.IsNegative() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}

	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		brand := p.Brand
		if strings.TrimSpace(brand) == "" {
			brand = s.brand
		}
		s.lines = append(s.lines, Line{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Brand:    brand,
			Quantity: 1,
		})
	}

	if err := s.Save(ctx); err != nil {
		return false, err
	}
	s.record("add")
	s.show(ctx, fmt.Sprintf("%s added to cart!", p.Name), enums.NotificationTypeSuccess)
	return true, nil
}

// Remove drops the product's line. Absent ids are not an error.
func (s *Store) Remove(ctx context.Context, id ProductID) error {
	if i := s.indexOf(id); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.record("remove")
	s.show(ctx, msgRemoved, enums.NotificationTypeInfo)
	return nil
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line.
func (s *Store) SetQuantity(ctx context.Context, id ProductID, qty int) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		return s.Remove(ctx, id)
	}
	s.lines[i].Quantity = qty
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.record("set_quantity")
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.lines = []Line{}
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.record("clear")
	return nil
}

// Count is the sum of quantities.
func (s *Store) Count() int {
	n := 0
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

// Total is the undiscounted subtotal.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []Line {
	return CloneLines(s.lines)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

func (s *Store) Badge() Badge {
	count := s.Count()
	return Badge{Count: count, Visible: count > 0}
}

// SessionID names the session the cart belongs to.
func (s *Store) SessionID() string {
	return s.bucket.SessionID()
}

func (s *Store) indexOf(id ProductID) int {
	for i, line := range s.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) record(op string) {
	if s.metrics != nil {
		s.metrics.IncCartMutation(op)
	}
}

func (s *Store) show(ctx context.Context, message string, kind enums.NotificationType) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Show(ctx, message, kind); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart notification not shown")
	}
}
