package models

// Book is a catalog entry. Available is derived from Quantity.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"isAvailable"`
}

// Normalize restores the availability invariant after Quantity changes.
func (b *Book) Normalize() {
	if b.Quantity < 0 {
		b.Quantity = 0
	}
	b.Available = b.Quantity > 0
}
