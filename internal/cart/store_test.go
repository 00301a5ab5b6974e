package cart

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketstore/storefront/pkg/enums"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/storage"
	"github.com/cricketstore/storefront/pkg/storage/storagetest"
)

type shown struct {
	message string
	kind    enums.NotificationType
}

type stubNotifier struct {
	shown []shown
}

func (n *stubNotifier) Show(_ context.Context, message string, kind enums.NotificationType) error {
	n.shown = append(n.shown, shown{message, kind})
	return nil
}

func (n *stubNotifier) last() shown {
	if len(n.shown) == 0 {
		return shown{}
	}
	return n.shown[len(n.shown)-1]
}

type countingRecorder map[string]int

func (c countingRecorder) IncCartMutation(op string) { c[op]++ }

func openTestStore(t *testing.T, mem *storagetest.Memory) (*Store, *stubNotifier) {
	t.Helper()
	notifier := &stubNotifier{}
	s, err := Open(context.Background(), storage.ForSession(mem, "s1"), Options{Notifier: notifier})
	require.NoError(t, err)
	return s, notifier
}

func product(id string, price int64) Product {
	return Product{ID: ProductID(id), Name: "Item " + id, Price: decimal.NewFromInt(price), Image: "/img/" + id + ".png"}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	s, notifier := openTestStore(t, storagetest.NewMemory())

	ok, err := s.Add(ctx, product("bat", 500))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.Add(ctx, product("bat", 500))
	require.NoError(t, err)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, DefaultBrand, lines[0].Brand)
	assert.Equal(t, shown{"Item bat added to cart!", enums.NotificationTypeSuccess}, notifier.last())
	assert.Equal(t, Badge{Count: 2, Visible: true}, s.Badge())
}

func TestAddKeepsProvidedBrand(t *testing.T) {
	s, _ := openTestStore(t, storagetest.NewMemory())
	p := product("ball", 300)
	p.Brand = "SG"
	_, err := s.Add(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "SG", s.Lines()[0].Brand)
}

func TestAddRejectsInvalidProduct(t *testing.T) {
	s, _ := openTestStore(t, storagetest.NewMemory())
	_, err := s.Add(context.Background(), Product{Name: "nameless"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = s.Add(context.Background(), product("x", -1))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.True(t, s.IsEmpty())
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		t.Run(fmt.Sprint(qty), func(t *testing.T) {
			ctx := context.Background()
			s, notifier := openTestStore(t, storagetest.NewMemory())
			_, err := s.Add(ctx, product("bat", 500))
			require.NoError(t, err)

			require.NoError(t, s.SetQuantity(ctx, "bat", qty))
			assert.True(t, s.IsEmpty())
			assert.Equal(t, Badge{Count: 0, Visible: false}, s.Badge())
			assert.Equal(t, shown{"Item removed from cart", enums.NotificationTypeInfo}, notifier.last())
		})
	}
}

func TestSetQuantityAbsentIsNoop(t *testing.T) {
	mem := storagetest.NewMemory()
	s, _ := openTestStore(t, mem)
	require.NoError(t, s.SetQuantity(context.Background(), "ghost", 3))
	assert.Equal(t, 0, mem.Sets)
}

func TestSetQuantityHasNoUpperBound(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t, storagetest.NewMemory())
	_, err := s.Add(ctx, product("pad", 1200))
	require.NoError(t, err)
	require.NoError(t, s.SetQuantity(ctx, "pad", 999))
	assert.Equal(t, 999, s.Count())
	assert.True(t, decimal.NewFromInt(1198800).Equal(s.Total()))
}

func TestRemoveAbsentStillPersistsAndNotifies(t *testing.T) {
	mem := storagetest.NewMemory()
	s, notifier := openTestStore(t, mem)
	require.NoError(t, s.Remove(context.Background(), "ghost"))
	assert.Equal(t, 1, mem.Sets)
	assert.Equal(t, msgRemoved, notifier.last().message)
}

func TestOperationSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	mem := storagetest.NewMemory()
	recorder := countingRecorder{}
	s, err := Open(ctx, storage.ForSession(mem, "prop"), Options{Metrics: recorder})
	require.NoError(t, err)

	ids := []string{"a", "b", "c", "d"}
	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			_, err = s.Add(ctx, product(id, int64(rng.Intn(2000))))
		case 1:
			err = s.Remove(ctx, ProductID(id))
		default:
			err = s.SetQuantity(ctx, ProductID(id), rng.Intn(7)-2)
		}
		require.NoError(t, err)

		reloaded, err := Open(ctx, storage.ForSession(mem, "prop"), Options{})
		require.NoError(t, err)

		seen := map[ProductID]bool{}
		sum := 0
		for _, line := range reloaded.Lines() {
			require.False(t, seen[line.ID], "duplicate id %s at step %d", line.ID, step)
			require.Positive(t, line.Quantity)
			seen[line.ID] = true
			sum += line.Quantity
		}
		require.Equal(t, sum, s.Count(), "step %d", step)
		require.Equal(t, s.Count(), reloaded.Count())
	}
	assert.Positive(t, recorder["add"])
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory()
	s, _ := openTestStore(t, mem)
	_, err := s.Add(ctx, product("bat", 500))
	require.NoError(t, err)
	_, err = s.Add(ctx, product("bat", 500))
	require.NoError(t, err)
	_, err = s.Add(ctx, Product{ID: "gloves", Name: "Gloves", Price: decimal.RequireFromString("799.5")})
	require.NoError(t, err)

	reloaded, _ := openTestStore(t, mem)
	assert.Equal(t, s.Count(), reloaded.Count())
	assert.True(t, s.Total().Equal(reloaded.Total()))
	require.Len(t, reloaded.Lines(), 2)
	assert.Equal(t, ProductID("bat"), reloaded.Lines()[0].ID)
	assert.Equal(t, 2, reloaded.Lines()[0].Quantity)

	raw, ok := mem.Raw(storage.SessionKey("s1", DefaultKey))
	require.True(t, ok)
	assert.Contains(t, raw, `"price":799.5`)
}

func TestLoadFailsClosed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{{`,
		"object":         `{"id":"1"}`,
		"missing id":     `[{"name":"Bat","price":10,"quantity":1}]`,
		"zero quantity":  `[{"id":"1","price":10,"quantity":0}]`,
		"negative price": `[{"id":"1","price":-10,"quantity":1}]`,
		"duplicate ids":  `[{"id":"1","price":10,"quantity":1},{"id":1,"price":10,"quantity":2}]`,
		"wrong types":    `[{"id":"1","price":"ten","quantity":1}]`,
		"bool id":        `[{"id":true,"price":10,"quantity":1}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := storagetest.NewMemory()
			mem.Put(storage.SessionKey("s1", DefaultKey), raw)
			s, _ := openTestStore(t, mem)
			assert.True(t, s.IsEmpty())
			assert.Equal(t, 0, s.Count())
		})
	}
}

func TestLoadAcceptsNumericIDs(t *testing.T) {
	mem := storagetest.NewMemory()
	mem.Put(storage.SessionKey("s1", DefaultKey), `[{"id":7,"name":"Helmet","price":2500,"image":"","brand":"SS","quantity":1}]`)
	s, _ := openTestStore(t, mem)
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, ProductID("7"), s.Lines()[0].ID)

	_, err := s.Add(context.Background(), Product{ID: "7", Name: "Helmet", Price: decimal.NewFromInt(2500)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())
}

func TestStorageFailuresSurfaceAsDependencyErrors(t *testing.T) {
	mem := storagetest.NewMemory()
	mem.FailGet = storagetest.ErrInjected
	_, err := Open(context.Background(), storage.ForSession(mem, "s1"), Options{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))

	mem.FailGet = nil
	s, _ := openTestStore(t, mem)
	mem.FailSet = storagetest.ErrInjected
	_, err = s.Add(context.Background(), product("bat", 500))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestLinesReturnsCopy(t *testing.T) {
	s, _ := openTestStore(t, storagetest.NewMemory())
	_, err := s.Add(context.Background(), product("bat", 500))
	require.NoError(t, err)

	lines := s.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, s.Count())
}
