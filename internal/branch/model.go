package branch

import (
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
)

type Status string

const (
	StatusUnselected Status = "unselected"
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

const (
	selectedKey = "branch"
)

func productsKey(id catalog.ID) string {
	return "products:" + string(id)
}

func ordersKey(id catalog.ID) string {
	return "orders:" + string(id)
}

// Snapshot is a copy of the loader state safe to hand out.
type Snapshot struct {
	BranchID catalog.ID
	Status   Status
	Products []catalog.Product
	Orders   []catalog.HistoricalOrder
	Err      error
}

func (s Snapshot) Product(id catalog.ID) (*catalog.Product, bool) {
	for i := range s.Products {
		if s.Products[i].ID == id {
			p := s.Products[i]
			return &p, true
		}
	}
	return nil, false
}
