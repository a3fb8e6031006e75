package cart

// AddItemRequest carries the product card's name and displayed price text, e.g. "₹450".
type AddItemRequest struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
