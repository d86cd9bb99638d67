package model

// Product represents a product row. Its wire form is ProductPayload.
type Product struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Color string `db:"Color"`
	Size  string `db:"size"`
}

// Field limits, counted in characters.
const (
	MaxNameLength  = 100
	MaxColorLength = 500
	MaxSizeLength  = 10
)

// Wire field names. Color is capitalised on the wire and in the table.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldColor = "Color"
	FieldSize  = "size"

	FieldNonField = "non_field_errors"
)
