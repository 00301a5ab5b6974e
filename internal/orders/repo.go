package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/pagination"
	"github.com/cricketstore/storefront/pkg/storage"
)

const DefaultKey = "cricketStoreOrders"

// Log is the append-only order history of one session.
type Log struct {
	bucket storage.Bucket
	key    string
	logg   *logger.Logger
}

func NewLog(bucket storage.Bucket, key string, logg *logger.Logger) *Log {
	if key == "" {
		key = DefaultKey
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Log{bucket: bucket, key: key, logg: logg}
}

// List returns every recorded order, oldest first. Unreadable history reads as empty.
func (l *Log) List(ctx context.Context) ([]Order, error) {
	orders, _, err := l.load(ctx)
	return orders, err
}

// Page is one newest-first slice of the order history.
type Page struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Page returns orders newest first, starting after the cursor's order.
func (l *Log) Page(ctx context.Context, params pagination.Params) (*Page, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	orders, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	start := len(orders) - 1
	if after != "" {
		start = -1
		for i := len(orders) - 1; i >= 0; i-- {
			if orders[i].OrderID == after {
				start = i - 1
				break
			}
		}
	}

	page := &Page{Orders: make([]Order, 0, limit), Total: len(orders)}
	i := start
	for ; i >= 0 && len(page.Orders) < limit; i-- {
		page.Orders = append(page.Orders, orders[i])
	}
	if i >= 0 && len(page.Orders) > 0 {
		page.NextCursor = pagination.EncodeCursor(page.Orders[len(page.Orders)-1].OrderID)
	}
	return page, nil
}

// Find returns the order with the given id.
func (l *Log) Find(ctx context.Context, orderID string) (*Order, error) {
	orders, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderID == orderID {
			return &orders[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// Append adds order to the end of the log. An unreadable history is moved aside first.
func (l *Log) Append(ctx context.Context, order Order) error {
	orders, raw, err := l.load(ctx)
	if err != nil {
		return err
	}
	if raw != "" && len(orders) == 0 {
		if err := l.quarantine(ctx, raw); err != nil {
			return err
		}
	}

	orders = append(orders, order)
	encoded, err := json.Marshal(orders)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order log")
	}
	if err := l.bucket.Set(ctx, l.key, string(encoded), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order log")
	}
	return nil
}

// load returns the decoded log plus the raw value when it could not be decoded.
func (l *Log) load(ctx context.Context) ([]Order, string, error) {
	raw, err := l.bucket.Get(ctx, l.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []Order{}, "", nil
	}
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order log")
	}

	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "reason", err.Error()), "stored order log is unreadable")
		return []Order{}, raw, nil
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, "", nil
}

func (l *Log) quarantine(ctx context.Context, raw string) error {
	key := fmt.Sprintf("%s:unreadable:%s", l.key, strconv.FormatInt(time.Now().UnixMilli(), 10))
	if err := l.bucket.Set(ctx, key, raw, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quarantine order log")
	}
	l.logg.Warn(l.logg.WithField(ctx, "quarantine_key", key), "unreadable order log moved aside")
	return nil
}
