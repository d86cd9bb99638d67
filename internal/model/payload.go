package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ProductPayload is the JSON representation of a Product exchanged with callers.
type ProductPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"Color"`
	Size  string `json:"size"`
}

// Validation messages.
const (
	msgRequired    = "This field is required."
	msgNull        = "This field may not be null."
	msgBlank       = "This field may not be blank."
	msgInteger     = "A valid integer is required."
	msgString      = "Not a valid string."
	msgMaxLength   = "Ensure this field has no more than %d characters."
	msgNoData      = "No data provided."
	msgNotAnObject = "Invalid data. Expected a dictionary, but got %s."
	msgIDMismatch  = "Does not match the product being updated."
	msgNullChar    = "Null characters are not allowed."
)

// EncodeProduct maps a Product to its wire form.
func EncodeProduct(p Product) ProductPayload {
	return ProductPayload{
		ID:    p.ID,
		Name:  p.Name,
		Color: p.Color,
		Size:  p.Size,
	}
}

// EncodeProducts maps a slice of products. The result is never nil so that
// an empty list encodes as [] rather than null.
func EncodeProducts(products []Product) []ProductPayload {
	out := make([]ProductPayload, 0, len(products))
	for _, p := range products {
		out = append(out, EncodeProduct(p))
	}
	return out
}

// DecodeProduct parses a wire payload into a Product.
//
// It returns ErrInvalidJSON when data is not JSON at all, and a
// *ValidationError listing every failing field otherwise. An empty body is
// treated as an empty object.
func DecodeProduct(data []byte) (*Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}

	if !json.Valid(trimmed) {
		return nil, ErrInvalidJSON
	}

	if trimmed[0] != '{' {
		verr := NewValidationError()
		verr.Add(FieldNonField, fmt.Sprintf(msgNotAnObject, jsonKind(trimmed[0])))
		return nil, verr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, ErrInvalidJSON
	}

	verr := NewValidationError()
	p := &Product{}

	if id, msg := decodeInteger(raw, FieldID); msg != "" {
		verr.Add(FieldID, msg)
	} else {
		p.ID = id
	}

	p.Name = decodeText(raw, FieldName, MaxNameLength, verr)
	p.Color = decodeText(raw, FieldColor, MaxColorLength, verr)
	p.Size = decodeText(raw, FieldSize, MaxSizeLength, verr)

	if verr.HasErrors() {
		return nil, verr
	}
	return p, nil
}

// ValidateProduct applies the field rules to an already-built Product.
// It returns nil when the product is valid.
func ValidateProduct(p *Product) *ValidationError {
	verr := NewValidationError()
	if p == nil {
		verr.Add(FieldNonField, msgNoData)
		return verr
	}

	checkText(FieldName, p.Name, MaxNameLength, verr)
	checkText(FieldColor, p.Color, MaxColorLength, verr)
	checkText(FieldSize, p.Size, MaxSizeLength, verr)

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ValidateUpdate is ValidateProduct plus the rule that an update may not
// move a product to a different id.
func ValidateUpdate(id int64, p *Product) *ValidationError {
	verr := ValidateProduct(p)
	if p == nil || p.ID == id {
		return verr
	}
	if verr == nil {
		verr = NewValidationError()
	}
	verr.Add(FieldID, msgIDMismatch)
	return verr
}

// ParseID parses a product id from a path or query value.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrInvalidProductID
	}
	return id, nil
}

func decodeInteger(raw map[string]json.RawMessage, field string) (int64, string) {
	value, ok := raw[field]
	if !ok {
		return 0, msgRequired
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, msgInteger
	}

	switch t := v.(type) {
	case nil:
		return 0, msgNull
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, ""
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, msgInteger
		}
		return int64(f), ""
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, msgInteger
		}
		return n, ""
	default:
		return 0, msgInteger
	}
}

func decodeText(raw map[string]json.RawMessage, field string, max int, verr *ValidationError) string {
	value, ok := raw[field]
	if !ok {
		verr.Add(field, msgRequired)
		return ""
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		verr.Add(field, msgString)
		return ""
	}

	var s string
	switch t := v.(type) {
	case nil:
		verr.Add(field, msgNull)
		return ""
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		verr.Add(field, msgString)
		return ""
	}

	checkText(field, s, max, verr)
	return s
}

func checkText(field, value string, max int, verr *ValidationError) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, msgBlank)
		return
	}
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, fmt.Sprintf(msgMaxLength, max))
	}
	// PostgreSQL text columns cannot hold NUL.
	if strings.ContainsRune(value, 0) {
		verr.Add(field, msgNullChar)
	}
}

func jsonKind(first byte) string {
	switch first {
	case '[':
		return "list"
	case '"':
		return "str"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
