package catalog

// Product is a catalog entry. The catalog is read-only through the API.
type Product struct {
	ID             string  `json:"id"`
	ProductPicture string  `json:"productPicture"`
	Name           string  `json:"name,omitempty"`
	ProductName    string  `json:"productName"`
	ModelNumber    string  `json:"modelNumber"`
	Quantity       string  `json:"quantity"`
	Size           string  `json:"size"`
	OnlinePrice    *string `json:"onlinePrice"`
	Price          int64   `json:"price"`
}
