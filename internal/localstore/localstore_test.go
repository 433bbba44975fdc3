package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cafeteria.db")
	s, err := Open(path, gen, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, path
}

func reopen(t *testing.T, s *Store, path string) *Store {
	t.Helper()
	require.NoError(t, s.Close())

	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	reopened, err := Open(path, gen, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	return reopened
}

func TestOpenSeedsFreshStore(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 5)
	// Alphabetical by name.
	assert.Equal(t, "Boissons", categories[0].Name)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].Name, products[i].Name)
	}

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cafétéria", settings.Name)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	_, err := s.RecordSale(ctx, []models.CartLine{
		{ProductID: "prod_1", ProductName: "Café", UnitPrice: 1500, Quantity: 2},
	})
	require.NoError(t, err)

	name := "Jus d'orange"
	created := &models.Product{Name: name, Price: 2000, Stock: 10}
	require.NoError(t, s.CreateProduct(ctx, created))

	before, err := s.ListProducts(ctx)
	require.NoError(t, err)
	salesBefore, err := s.ListSales(ctx)
	require.NoError(t, err)

	reopened := reopen(t, s, path)

	after, err := reopened.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	salesAfter, err := reopened.ListSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, salesBefore, salesAfter)
}

func TestOpenFailsOnCorruptSnapshot(t *testing.T) {
	s, path := openTestStore(t)
	require.NoError(t, s.Close())

	// Overwrite the slot with garbage.
	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(snapshotBucket)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, []byte("not json"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	_, err = Open(path, gen, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSnapshotCorrupt)

	// With ResetOnCorrupt the store comes back seeded.
	recovered, err := Open(path, gen, Options{ResetOnCorrupt: true})
	require.NoError(t, err)
	defer recovered.Close()

	products, err := recovered.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestOpenFailsOnUnknownSchemaVersion(t *testing.T) {
	s, path := openTestStore(t)
	require.NoError(t, s.Close())

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(snapshotKey, []byte(`{"schema_version":99}`))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	_, err = Open(path, gen, Options{})
	assert.ErrorIs(t, err, models.ErrSnapshotCorrupt)
}

func TestCreateAndUpdateProduct(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	cat := "cat_1"
	p := &models.Product{Name: "Eau minérale", Price: 800, CategoryID: &cat, Stock: 40}
	require.NoError(t, s.CreateProduct(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.IsActive)

	newPrice := int64(900)
	newStock := 35
	require.NoError(t, s.UpdateProduct(ctx, p.ID, models.ProductUpdate{
		Price: &newPrice,
		Stock: &newStock,
	}))

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, newPrice, got.Price)
	assert.Equal(t, newStock, got.Stock)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestCatalogMutationsKeepStateWhenSnapshotFails(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.db.Close())

	err := s.CreateProduct(ctx, &models.Product{Name: "Jus d'orange", Price: 3000, Stock: 12})
	require.Error(t, err)
	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	price := int64(9999)
	err = s.UpdateProduct(ctx, "prod_1", models.ProductUpdate{Price: &price})
	require.Error(t, err)
	p, err := s.GetProduct(ctx, "prod_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), p.Price)

	err = s.DeactivateProduct(ctx, "prod_1")
	require.Error(t, err)
	p, err = s.GetProduct(ctx, "prod_1")
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	err = s.SaveSettings(ctx, &models.Settings{Name: "Autre nom"})
	require.Error(t, err)
	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cafétéria", settings.Name)
}

func TestUpdateProductRejectsNegativeStock(t *testing.T) {
	s, _ := openTestStore(t)

	bad := -1
	err := s.UpdateProduct(context.Background(), "prod_1", models.ProductUpdate{Stock: &bad})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUpdateMissingProduct(t *testing.T) {
	s, _ := openTestStore(t)

	name := "x"
	err := s.UpdateProduct(context.Background(), "nope", models.ProductUpdate{Name: &name})
	assert.True(t, models.IsNotFound(err))
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	s, _ := openTestStore(t)

	cat := "cat_999"
	err := s.CreateProduct(context.Background(), &models.Product{Name: "X", Price: 100, CategoryID: &cat, Stock: 1})
	assert.True(t, models.IsNotFound(err))
}

func TestDeactivateProductHidesFromCatalog(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	// Sell one first so there is a historical item to protect.
	sale, err := s.RecordSale(ctx, []models.CartLine{
		{ProductID: "prod_3", ProductName: "Croissant", UnitPrice: 2500, Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeactivateProduct(ctx, "prod_3"))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	for _, p := range products {
		assert.NotEqual(t, "prod_3", p.ID)
	}

	// Still retrievable directly, and the receipt snapshot is untouched.
	got, err := s.GetProduct(ctx, "prod_3")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.Items[0].ProductName, sales[0].Items[0].ProductName)
	assert.Equal(t, int64(2500), sales[0].Items[0].UnitPrice)
}

func TestSettingsRoundTrip(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	phone := "71 000 000"
	require.NoError(t, s.SaveSettings(ctx, &models.Settings{
		Name:    "Cafétéria du Campus",
		Address: "Rue des Oliviers",
		Phone:   &phone,
	}))

	reopened := reopen(t, s, path)

	got, err := reopened.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cafétéria du Campus", got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)
}

func TestOpenMissingDirFails(t *testing.T) {
	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing", "deep", "cafeteria.db"), gen, Options{})
	assert.Error(t, err)
}
