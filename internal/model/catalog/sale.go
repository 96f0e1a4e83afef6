package catalog

import "strings"

// AllBrands is the brand filter value that matches every sale.
const AllBrands = "All"

// Sale is a discounted article in the sales ledger.
type Sale struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"originalPrice"`
	Discount      string   `json:"discount"`
	ImageURL      string   `json:"image"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
}

// Savings is the rupee amount taken off the original price.
func (s Sale) Savings() int {
	if s.OriginalPrice <= s.Price {
		return 0
	}
	return s.OriginalPrice - s.Price
}

// SeedSales provides the sales ledger's demo articles. Prices are in PKR.
func SeedSales() []Sale {
	return []Sale{
		{ID: 1, Name: "Luxe Velvet Embroidered Kurta", Brand: "Khaadi", Price: 6490, OriginalPrice: 12980, Discount: "50% FLAT",
			ImageURL: "https://images.unsplash.com/photo-1610030469983-98e550d6193c?auto=format&fit=crop&q=80&w=800",
			Category: "Formal Wear", Tags: []string{"Trending", "Desi Wear"}},
		{ID: 2, Name: "Digital Print Lawn 3-Piece", Brand: "Sapphire", Price: 3495, OriginalPrice: 4990, Discount: "30% OFF",
			ImageURL: "https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?auto=format&fit=crop&q=80&w=800",
			Category: "Casual Summer", Tags: []string{"New Arrival Sale", "Summer"}},
		{ID: 3, Name: "Street Culture Oversized Hoodie", Brand: "Outfitters", Price: 2990, OriginalPrice: 5980, Discount: "50% OFF",
			ImageURL: "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?auto=format&fit=crop&q=80&w=800",
			Category: "Urban / Street", Tags: []string{"Flash Sale", "Z-Generation"}},
		{ID: 4, Name: "Classic Silk Festive Suit", Brand: "Junaid Jamshed", Price: 8500, OriginalPrice: 11500, Discount: "Rs. 3000 OFF",
			ImageURL: "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?auto=format&fit=crop&q=80&w=800",
			Category: "Traditional", Tags: []string{"Shaadi Season", "Limited"}},
		{ID: 5, Name: "Contemporary Chic Co-ord Set", Brand: "Sana Safinaz", Price: 4500, OriginalPrice: 9000, Discount: "50% FLAT",
			ImageURL: "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?auto=format&fit=crop&q=80&w=800",
			Category: "Modern Chic", Tags: []string{"Editor's Choice"}},
		{ID: 6, Name: "Jacquard Statement Tunic", Brand: "Khaadi", Price: 2950, OriginalPrice: 5900, Discount: "50% OFF",
			ImageURL: "https://images.unsplash.com/photo-1610030469668-935102a11b65?auto=format&fit=crop&q=80&w=800",
			Category: "Artsy / Bold", Tags: []string{"Clearance"}},
	}
}

// SalesByBrand filters the ledger. An empty brand or AllBrands keeps every
// sale; matching ignores case.
func SalesByBrand(sales []Sale, brand string) []Sale {
	brand = strings.TrimSpace(brand)
	if brand == "" || strings.EqualFold(brand, AllBrands) {
		return append([]Sale{}, sales...)
	}
	out := make([]Sale, 0, len(sales))
	for _, sale := range sales {
		if strings.EqualFold(sale.Brand, brand) {
			out = append(out, sale)
		}
	}
	return out
}

// SaleBrands lists the filter options: AllBrands first, then each brand in
// ledger order.
func SaleBrands(sales []Sale) []string {
	out := []string{AllBrands}
	seen := make(map[string]bool, len(sales))
	for _, sale := range sales {
		if seen[sale.Brand] {
			continue
		}
		seen[sale.Brand] = true
		out = append(out, sale.Brand)
	}
	return out
}
