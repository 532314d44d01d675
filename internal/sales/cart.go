package sales

// Line is one staged item of a cart. The unit price is the item's price when
// the line was staged; the price charged is read from the store at commit,
// and the receipt carries the charged line.
type Line struct {
	ItemID    uint   `json:"item_id" validate:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	LineTotal int64  `json:"line_total"`
}

func newLine(itemID uint, name string, quantity int, unitPrice int64) Line {
	return Line{
		ItemID:    itemID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice * int64(quantity),
	}
}

// Cart is an ordered list of staged lines. It belongs to the caller and is
// never persisted; staging the same item twice yields two lines.
type Cart struct {
	Lines []Line `json:"lines" validate:"dive"`
}

// Add appends a line
func (c *Cart) Add(line Line) {
	c.Lines = append(c.Lines, line)
}

// Len returns the number of staged lines
func (c *Cart) Len() int {
	return len(c.Lines)
}

// Empty reports whether nothing is staged
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Total is the sum of the staged line totals
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.LineTotal
	}
	return total
}

// Clear removes every staged line
func (c *Cart) Clear() {
	c.Lines = nil
}
