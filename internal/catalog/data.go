package catalog

// Default returns the built-in seed catalog. The storefront ships a static
// product list; this is a representative subset used when no external list
// is provided.
func Default() []Product {
	return []Product{
		{ID: 1, Title: "Round Neck T-Shirt", Description: "Classic cotton round neck tee with a relaxed fit", Category: "Apparel", Image: "/images/products/tshirt.jpg", IsNew: true, OldPrice: 45, Price: 25, Rating: 4.5, Quantity: 1},
		{ID: 2, Title: "Slim Fit Denim Jacket", Description: "Washed denim jacket with button closure", Category: "Apparel", Image: "/images/products/denim.jpg", OldPrice: 120, Price: 89, Rating: 4.2, Quantity: 1},
		{ID: 3, Title: "Ceramic Coffee Mug", Description: "Hand-glazed ceramic mug, 350ml", Category: "Home", Image: "/images/products/mug.jpg", OldPrice: 18, Price: 12, Rating: 4.8, Quantity: 1},
		{ID: 4, Title: "Wireless Earbuds", Description: "Bluetooth 5.3 earbuds with charging case", Category: "Electronics", Image: "/images/products/earbuds.jpg", IsNew: true, OldPrice: 99, Price: 59, Rating: 4.1, Quantity: 1},
		{ID: 5, Title: "Leather Wallet", Description: "Bifold wallet in full-grain leather", Category: "Accessories", Image: "/images/products/wallet.jpg", OldPrice: 60, Price: 42, Rating: 4.6, Quantity: 1},
		{ID: 6, Title: "Scented Soy Candle", Description: "Vanilla and sandalwood soy wax candle", Category: "Home", Image: "/images/products/candle.jpg", OldPrice: 24, Price: 16, Rating: 4.7, Quantity: 1},
		{ID: 7, Title: "Running Sneakers", Description: "Lightweight mesh running shoes", Category: "Footwear", Image: "/images/products/sneakers.jpg", IsNew: true, OldPrice: 140, Price: 95, Rating: 4.3, Quantity: 1},
		{ID: 8, Title: "Canvas Tote Bag", Description: "Heavy-duty canvas tote with inner pocket", Category: "Accessories", Image: "/images/products/tote.jpg", OldPrice: 35, Price: 22, Rating: 4.4, Quantity: 1},
	}
}
