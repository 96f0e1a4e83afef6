package catalog

// Product is a read-only catalog entry shown on assistant replies.
type Product struct {
	ID            int    `json:"id"`
	Brand         string `json:"brand"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	OriginalPrice int    `json:"originalPrice,omitempty"`
	ImageURL      string `json:"imageUrl"`
	MatchScore    int    `json:"matchScore,omitempty"`
	FitConfidence int    `json:"fitConfidence,omitempty"`
}

// OnSale reports whether the product carries a markdown.
func (p Product) OnSale() bool {
	return p.OriginalPrice > p.Price
}

// Seed provides the demo catalog. Prices are in PKR.
func Seed() []Product {
	return []Product{
		{
			ID:            1,
			Brand:         "Khaadi",
			Name:          "Unstitched Lawn 3-Piece Suit",
			Price:         4990,
			OriginalPrice: 6500,
			ImageURL:      "https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?auto=format&fit=crop&q=80&w=400",
			MatchScore:    95,
			FitConfidence: 12,
		},
		{
			ID:            2,
			Brand:         "Gul Ahmed",
			Name:          "Premium Lawn Collection - Blue",
			Price:         3490,
			OriginalPrice: 3890,
			ImageURL:      "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?auto=format&fit=crop&q=80&w=400",
			MatchScore:    88,
			FitConfidence: 8,
		},
		{
			ID:            3,
			Brand:         "Outfitters",
			Name:          "Slim Fit Chinos - Olive",
			Price:         2999,
			ImageURL:      "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?auto=format&fit=crop&q=80&w=400",
			MatchScore:    82,
			FitConfidence: 15,
		},
		{
			ID:            4,
			Brand:         "Junaid Jamshed",
			Name:          "Kurta Shalwar Set - White",
			Price:         5490,
			OriginalPrice: 6990,
			ImageURL:      "https://images.unsplash.com/photo-1610030469983-98e550d6193c?auto=format&fit=crop&q=80&w=400",
			MatchScore:    90,
			FitConfidence: 10,
		},
	}
}
