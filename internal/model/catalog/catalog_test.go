package catalog

import "testing"

func TestMemoryStoreByBrandKeepsCatalogOrder(t *testing.T) {
	store := NewMemoryStore(Seed())

	got := store.ByBrand("Junaid Jamshed", "khaadi")
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestPickSkipsUnknownIDs(t *testing.T) {
	store := NewMemoryStore(Seed())

	got := Pick(store, 3, 42, 1)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("unexpected pick result: %+v", got)
	}
}

func TestListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].Name = "changed"

	if p, _ := store.FindByID(1); p.Name == "changed" {
		t.Fatal("List must not expose internal slice")
	}
}

func TestNearestOrdersByDistance(t *testing.T) {
	shops := SeedShops()

	got := Nearest(shops, 40.7590, -73.9710, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 shops, got %d", len(got))
	}
	if got[0].Name != "Nike Town" {
		t.Fatalf("expected Nike Town nearest, got %s", got[0].Name)
	}
	if got[0].KM > got[1].KM {
		t.Fatalf("distances out of order: %f > %f", got[0].KM, got[1].KM)
	}
}

func TestOnSale(t *testing.T) {
	store := NewMemoryStore(Seed())
	p1, _ := store.FindByID(1)
	p3, _ := store.FindByID(3)
	if !p1.OnSale() || p3.OnSale() {
		t.Fatal("unexpected sale flags")
	}
}

func TestSalesByBrand(t *testing.T) {
	sales := SeedSales()

	if got := SalesByBrand(sales, AllBrands); len(got) != 6 {
		t.Fatalf("expected every sale for All, got %d", len(got))
	}
	if got := SalesByBrand(sales, ""); len(got) != 6 {
		t.Fatalf("expected every sale for an empty filter, got %d", len(got))
	}
	got := SalesByBrand(sales, "khaadi")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 6 {
		t.Fatalf("unexpected Khaadi sales: %+v", got)
	}
	if got := SalesByBrand(sales, "Borjan"); len(got) != 0 {
		t.Fatalf("expected no Borjan sales, got %d", len(got))
	}
	if saved := got[0].Savings(); saved != 6490 {
		t.Fatalf("expected Rs. 6490 off, got %d", saved)
	}
}

func TestSaleBrandsKeepLedgerOrder(t *testing.T) {
	want := []string{"All", "Khaadi", "Sapphire", "Outfitters", "Junaid Jamshed", "Sana Safinaz"}
	got := SaleBrands(SeedSales())
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLookTotalAndLookup(t *testing.T) {
	look, ok := FindLook(SeedLooks(), 4)
	if !ok || look.Title != "Casual Sunday" {
		t.Fatalf("expected Casual Sunday, got %+v", look)
	}
	if total := look.Total(); total != 5498 {
		t.Fatalf("expected total 5498, got %d", total)
	}
	if _, ok := FindLook(SeedLooks(), 9); ok {
		t.Fatal("unknown look must not be found")
	}
}
