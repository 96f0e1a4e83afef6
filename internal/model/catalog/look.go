package catalog

// LookItem is one piece of a curated look.
type LookItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Price int    `json:"price"`
}

// Look is an influencer outfit that can be bought piece by piece.
type Look struct {
	ID         int        `json:"id"`
	Influencer string     `json:"influencer"`
	Title      string     `json:"title"`
	ImageURL   string     `json:"image"`
	Brands     []string   `json:"brands"`
	Items      []LookItem `json:"items"`
}

// Total is the price of buying every item of the look.
func (l Look) Total() int {
	total := 0
	for _, item := range l.Items {
		total += item.Price
	}
	return total
}

// SeedLooks provides the shop-the-look feed.
func SeedLooks() []Look {
	return []Look{
		{
			ID: 1, Influencer: "Hira Khan", Title: "Summer Breeze",
			ImageURL: "https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?auto=format&fit=crop&q=80&w=800",
			Brands:   []string{"Khaadi", "Borjan"},
			Items: []LookItem{
				{ID: 101, Name: "Floral Lawn Suit", Brand: "Khaadi", Price: 4990},
				{ID: 102, Name: "Tan Heels", Brand: "Borjan", Price: 3200},
			},
		},
		{
			ID: 2, Influencer: "Zaid Ali", Title: "Vintage Chic",
			ImageURL: "https://images.unsplash.com/photo-1610030469983-98e550d6193c?auto=format&fit=crop&q=80&w=800",
			Brands:   []string{"Junaid Jamshed"},
			Items: []LookItem{
				{ID: 201, Name: "White Kurta Shalwar", Brand: "J. Junaid Jamshed", Price: 6490},
			},
		},
		{
			ID: 3, Influencer: "Sarah Shah", Title: "Sapphire Dreams",
			ImageURL: "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?auto=format&fit=crop&q=80&w=800",
			Brands:   []string{"Sapphire"},
			Items: []LookItem{
				{ID: 301, Name: "Printed Silk Tunic", Brand: "Sapphire", Price: 3950},
			},
		},
		{
			ID: 4, Influencer: "Ahmed Bilal", Title: "Casual Sunday",
			ImageURL: "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?auto=format&fit=crop&q=80&w=800",
			Brands:   []string{"Outfitters"},
			Items: []LookItem{
				{ID: 401, Name: "Linen Shirt", Brand: "Outfitters", Price: 2499},
				{ID: 402, Name: "Chino Pants", Brand: "Outfitters", Price: 2999},
			},
		},
	}
}

// FindLook looks up a look by identifier.
func FindLook(looks []Look, id int) (Look, bool) {
	for _, look := range looks {
		if look.ID == id {
			return look, true
		}
	}
	return Look{}, false
}
