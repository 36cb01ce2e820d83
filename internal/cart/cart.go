package cart

import (
	"math"

	"github.com/google/uuid"
)

// DefaultKey is the namespaced storage key carts persist under. The session
// layer appends a per-cart suffix so every session gets its own blob.
const DefaultKey = "halwa_cart_v1"

// DefaultPrice is applied when an add carries no usable price. It is a demo
// placeholder, not a pricing source of truth.
const DefaultPrice = 79

// Line is one distinct product entry in a cart. Name doubles as the dedup
// key: the cart never holds two lines with the same name.
type Line struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Img      string  `json:"img,omitempty"`
	DataHigh string  `json:"dataHigh,omitempty"`
}

// AddOptions carries the optional fields of an add. Zero values mean
// "unset": ID is generated, Price falls back to the store's default and
// Qty to 1. On a duplicate add the whole struct is ignored.
type AddOptions struct {
	ID       string
	Price    float64
	Qty      int
	Img      string
	DataHigh string
}

func newLineID() string {
	return "p_" + uuid.NewString()
}

// quantities are clamped rather than rejected, so cap them somewhere sane
// before the int conversion can overflow
const maxQty = math.MaxInt32

// ClampQty coerces arbitrary quantity input to a non-negative whole number.
// NaN and negatives become 0.
func ClampQty(q float64) int {
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	if q >= maxQty {
		return maxQty
	}
	return int(math.Floor(q))
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
