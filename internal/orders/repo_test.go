package orders

import (
	"context"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/pkg/enums"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/pagination"
	"github.com/cricketstore/storefront/pkg/storage"
	"github.com/cricketstore/storefront/pkg/storage/storagetest"
)

func sampleOrder(id string) Order {
	at := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	return Order{
		OrderID:   id,
		PaymentID: "pay_123",
		Signature: SignatureAbsent,
		Items: []cart.Line{
			{ID: "bat", Name: "Bat", Price: decimal.NewFromInt(1500), Brand: "MRF", Quantity: 1},
		},
		Subtotal:           decimal.NewFromInt(1500),
		Shipping:           decimal.Zero,
		Tax:                decimal.NewFromInt(270),
		Total:              decimal.NewFromInt(1770),
		BillingDetails:     BillingDetails{Name: "Virat", Email: "v@k.in", Phone: "9123456789", Pincode: "110001"},
		OrderDate:          at,
		OrderDateFormatted: FormatOrderDate(at, time.UTC),
		Status:             enums.OrderStatusConfirmed,
		PaymentMethod:      enums.PaymentMethodRazorpay,
	}
}

func TestAppendListFindRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory()
	log := NewLog(storage.ForSession(mem, "s1"), "", nil)

	require.NoError(t, log.Append(ctx, sampleOrder("CKT1")))
	require.NoError(t, log.Append(ctx, sampleOrder("CKT2")))

	reopened := NewLog(storage.ForSession(mem, "s1"), DefaultKey, nil)
	orders, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "CKT1", orders[0].OrderID)
	assert.Equal(t, "CKT2", orders[1].OrderID)
	assert.True(t, decimal.NewFromInt(1770).Equal(orders[1].Total))
	assert.Equal(t, 1, orders[1].Items[0].Quantity)
	assert.True(t, orders[1].OrderDate.Equal(sampleOrder("x").OrderDate))

	found, err := reopened.Find(ctx, "CKT2")
	require.NoError(t, err)
	assert.Equal(t, "pay_123", found.PaymentID)

	_, err = reopened.Find(ctx, "CKT9")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	raw, ok := mem.Raw(storage.SessionKey("s1", DefaultKey))
	require.True(t, ok)
	assert.Contains(t, raw, `"orderId":"CKT1"`)
	assert.Contains(t, raw, `"paymentMethod":"Razorpay"`)
}

func TestListReadsOrdersWithNumericItemIDs(t *testing.T) {
	mem := storagetest.NewMemory()
	mem.Put(storage.SessionKey("s1", DefaultKey), `[{"orderId":"CKT5","items":[{"id":3,"name":"Ball","price":250,"quantity":4}],"total":1280,"orderDate":"2026-01-02T03:04:05.000Z","status":"Confirmed"}]`)

	orders, err := NewLog(storage.ForSession(mem, "s1"), "", nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, cart.ProductID("3"), orders[0].Items[0].ID)
}

func TestUnreadableLogIsQuarantinedOnAppend(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory()
	key := storage.SessionKey("s1", DefaultKey)
	mem.Put(key, `not-json`)
	log := NewLog(storage.ForSession(mem, "s1"), "", nil)

	orders, err := log.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	require.NoError(t, log.Append(ctx, sampleOrder("CKT1")))
	orders, err = log.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, 2, mem.Sets)
	raw, _ := mem.Raw(key)
	assert.True(t, strings.HasPrefix(raw, "["))
}

func TestAppendSurfacesStorageErrors(t *testing.T) {
	mem := storagetest.NewMemory()
	mem.FailSet = storagetest.ErrInjected
	err := NewLog(storage.ForSession(mem, "s1"), "", nil).Append(context.Background(), sampleOrder("CKT1"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestIDGeneratorIsStrictlyMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1760000000000)
	gen := NewIDGenerator(func() time.Time { return fixed })

	assert.Equal(t, "CKT1760000000000", gen.Next())
	assert.Equal(t, "CKT1760000000001", gen.Next())
	assert.Equal(t, "CKT1760000000002", gen.Next())
}

func TestFormatOrderDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	at := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "17 Oct 2026, 02:35 pm", FormatOrderDate(at, loc))
	assert.Equal(t, "17 Oct 2026, 09:05 am", FormatOrderDate(at, nil))
}

func TestPageWalksNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewLog(storage.ForSession(storagetest.NewMemory(), "s1"), "", nil)
	for _, id := range []string{"CKT1", "CKT2", "CKT3", "CKT4", "CKT5"} {
		require.NoError(t, log.Append(ctx, sampleOrder(id)))
	}

	first, err := log.Page(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, "CKT5", first.Orders[0].OrderID)
	assert.Equal(t, "CKT4", first.Orders[1].OrderID)
	require.NotEmpty(t, first.NextCursor)

	second, err := log.Page(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 2)
	assert.Equal(t, "CKT3", second.Orders[0].OrderID)

	last, err := log.Page(ctx, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, last.Orders, 1)
	assert.Equal(t, "CKT1", last.Orders[0].OrderID)
	assert.Empty(t, last.NextCursor)

	_, err = log.Page(ctx, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
