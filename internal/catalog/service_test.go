package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

type fakeStore struct {
	products map[string]Product
	listHits int
	getHits  int
	seq      int
}

func newFakeStore(products ...Product) *fakeStore {
	f := &fakeStore{products: map[string]Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeStore) ListProducts(_ context.Context, filter ListFilter) ([]Product, int, error) {
	f.listHits++
	var out []Product
	for _, p := range f.products {
		if filter.VisibleOnly && !p.IsVisible {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (Product, error) {
	f.getHits++
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p Product) (Product, error) {
	f.seq++
	p.ID = string(rune('a' + f.seq))
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p Product) (Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return Product{}, ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func testPillar() Product {
	return Product{
		ID:        "p1",
		Name:      "রাজকীয় গোল পিলার",
		Category:  CategoryPorchPillar,
		IsPillar:  true,
		IsVisible: true,
		PillarConfig: &pricing.Config{
			Tops:               []pricing.Part{{ID: "t1", Name: "ক্লাসিক রাউন্ড টপ", Price: 1500}},
			MiddlePricePerFoot: 450,
			Bottoms:            []pricing.Part{{ID: "b1", Name: "স্ট্যান্ডার্ড বেস", Price: 2000}},
		},
	}
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc, err := NewService(ServiceConfig{Store: store, Cache: NewCache(client, time.Minute)})
	require.NoError(t, err)
	return svc
}

func TestGetCachesDetail(t *testing.T) {
	store := newFakeStore(testPillar())
	svc := newTestService(t, store)

	first, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.getHits, "second read must come from cache")
}

func TestGetUnknownProduct(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	_, err := svc.Get(context.Background(), "ghost")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestListCachesStorefrontPage(t *testing.T) {
	store := newFakeStore(testPillar())
	svc := newTestService(t, store)

	filter := ListFilter{VisibleOnly: true}
	_, _, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	_, total, err := svc.List(context.Background(), filter)
	require.NoError(t, err)

	require.Equal(t, 1, total)
	require.Equal(t, 1, store.listHits, "default storefront page must be cached")

	// filtered lists bypass the cache
	_, _, err = svc.List(context.Background(), ListFilter{VisibleOnly: true, Category: CategoryFancyBlock})
	require.NoError(t, err)
	require.Equal(t, 2, store.listHits)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	store := newFakeStore(testPillar())
	svc := newTestService(t, store)

	_, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)

	changed := testPillar()
	changed.Name = "নতুন নাম"
	_, err = svc.Update(context.Background(), changed)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "নতুন নাম", got.Name)
}

func TestQuoteSelection(t *testing.T) {
	svc := newTestService(t, newFakeStore(testPillar()))

	quote, err := svc.QuoteSelection(context.Background(),
		"p1", pricing.Selection{TopID: "t1", BottomID: "b1", Feet: 10}, 4)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(8000), quote.UnitPrice)
	require.Equal(t, pricing.Money(32000), quote.LinePrice)
	require.Empty(t, quote.Warnings)

	quote, err = svc.QuoteSelection(context.Background(),
		"p1", pricing.Selection{Feet: 10}, 1)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(4500), quote.UnitPrice)
	require.Contains(t, quote.Warnings, pricing.WarnNoTopSelected)
}

func TestCreateRejectsConflictingShape(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	price := pricing.Money(85)
	bad := Product{Name: "x", IsPillar: true, Price: &price}
	_, err := svc.Create(context.Background(), bad)
	require.True(t, common.IsValidation(err))
}

func TestCreateRejectsBadPartIDs(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	missing := testPillar()
	missing.ID = ""
	missing.PillarConfig.Tops = []pricing.Part{{Name: "নামহীন টপ", Price: 1500}}
	_, err := svc.Create(context.Background(), missing)
	require.True(t, common.IsValidation(err), "part without id must be rejected")

	dup := testPillar()
	dup.ID = ""
	dup.PillarConfig.Bottoms = []pricing.Part{
		{ID: "b1", Name: "স্ট্যান্ডার্ড বেস", Price: 2000},
		{ID: "b1", Name: "প্রিমিয়াম বেস", Price: 2500},
	}
	_, err = svc.Create(context.Background(), dup)
	require.True(t, common.IsValidation(err), "duplicate part ids must be rejected")
}

func TestPartInputAssignsMissingID(t *testing.T) {
	in := productInput{
		Name:     "জানালার পিলার",
		IsPillar: true,
		PillarConfig: &pillarConfigInput{
			Tops:               []partInput{{Name: "নতুন টপ", Price: 1200}, {ID: "t9", Name: "পুরনো টপ", Price: 1400}},
			MiddlePricePerFoot: 400,
			Bottoms:            []partInput{{Name: "নতুন বেস", Price: 1800}},
		},
	}

	p := in.toProduct("")
	require.NotEmpty(t, p.PillarConfig.Tops[0].ID)
	require.Equal(t, "t9", p.PillarConfig.Tops[1].ID)
	require.NotEmpty(t, p.PillarConfig.Bottoms[0].ID)
	require.NotEqual(t, p.PillarConfig.Tops[0].ID, p.PillarConfig.Bottoms[0].ID)
	require.NoError(t, p.Validate())
}
