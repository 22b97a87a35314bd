package domain

// LotAllocation is one line of the bill produced by an allocation call:
// this many units were taken from this lot.
type LotAllocation struct {
	LotID    int
	BatchID  int
	Quantity int
}

// Allocation is the ordered set of lot takes that satisfied one request.
type Allocation []LotAllocation

func (a Allocation) TotalQuantity() int {
	total := 0
	for _, la := range a {
		total += la.Quantity
	}
	return total
}
