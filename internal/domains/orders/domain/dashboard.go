package domain

import "github.com/shopspring/decimal"

// RecentOrdersShown is how many orders the dashboard lists.
const RecentOrdersShown = 5

// Dashboard summarizes the order store for the provider landing page.
type Dashboard struct {
	TotalOrders   int
	TotalRevenue  decimal.Decimal
	PendingOrders int
	Recent        []*Order
}

// Summarize computes dashboard figures. Orders are expected most-recent-first.
func Summarize(orders []*Order, recent int) Dashboard {
	d := Dashboard{TotalOrders: len(orders), TotalRevenue: decimal.Zero, Recent: []*Order{}}
	for _, o := range orders {
		d.TotalRevenue = d.TotalRevenue.Add(o.TotalAmount)
		if o.Status == StatusPending {
			d.PendingOrders++
		}
	}
	if recent > len(orders) {
		recent = len(orders)
	}
	if recent > 0 {
		d.Recent = append(d.Recent, orders[:recent]...)
	}
	return d
}
