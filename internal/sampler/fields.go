package sampler

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/Rana718/retailsim/internal/faker"
	"github.com/Rana718/retailsim/internal/types"
)

var (
	carriers       = []string{"FedEx", "UPS", "DHL", "USPS"}
	serviceLevels  = []string{"Standard", "Express", "Economy"}
	transportModes = []string{"Air", "Sea", "Land"}
	routes         = []string{"North Route", "South Route", "East Route", "West Route"}

	returnStatuses = []string{"Approved", "Declined", "Completed", "In Progress"}
	returnReasons  = []string{"Didn't Fit", "Changed Mind", "Defective", "Wrong Item"}
	returnModes    = []string{"Ground", "Air", "Postal", "Pick-Up"}

	// An empty outcome means the delivery went through without incident.
	deliveryExceptions = faker.MustWeighted(
		[]string{"", "Address Issue", "Weather Delay", "Lost in Transit"},
		[]float64{0.9, 0.03, 0.05, 0.02},
	)

	inspectionResults = faker.MustWeighted(
		[]types.InspectionResult{types.InspectionPass, types.InspectionFail},
		[]float64{0.9, 0.1},
	)
)

// promotion draws a promotion and its validity window, keeping it only when
// the line is eligible: order date inside the window, pre-discount spend at
// least the minimum, and first-order-only codes restricted to first orders.
func (s *Sampler) promotion(line types.OrderLine, firstOrder bool) mo.Option[types.AppliedPromotion] {
	g := s.gen

	promo := faker.Pick(g, s.catalog.Promotions)
	start := g.DateBetween(g.MonthsAgo(6), g.MonthsAgo(1))
	applied := types.AppliedPromotion{
		Promotion: promo,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, g.Between(5, 30)),
	}

	eligible := applied.Covers(line.OrderDate) &&
		line.Subtotal().GreaterThanOrEqual(promo.MinSpend) &&
		(!promo.FirstOrderOnly || firstOrder)
	if !eligible {
		return mo.None[types.AppliedPromotion]()
	}
	return mo.Some(applied)
}

// shipment is absent for cancelled lines.
func (s *Sampler) shipment(line types.OrderLine) mo.Option[types.Shipment] {
	if line.Status == types.StatusCancelled {
		return mo.None[types.Shipment]()
	}
	g := s.gen

	ship := line.OrderDate.AddDate(0, 0, g.Between(1, 5))
	sh := types.Shipment{
		ShipDate:     ship,
		DeliveryDate: ship.AddDate(0, 0, g.Between(1, 10)),
		PromisedDate: ship.AddDate(0, 0, g.Between(2, 7)),
		Carrier:      faker.Pick(g, carriers),
		TrackingID:   fmt.Sprintf("TRK%d", g.Between(100000, 999999)),
		ServiceLevel: faker.Pick(g, serviceLevels),
		Cost:         g.Money(5, 50),
		Exception:    mo.EmptyableToOption(deliveryExceptions.Draw(g)),
	}
	sh.TransportMode = faker.Pick(g, transportModes)
	sh.Route = faker.Pick(g, routes)
	return mo.Some(sh)
}

// returned is only drawn for delivered lines; a draw of zero units means no
// return record at all.
func (s *Sampler) returned(line types.OrderLine) mo.Option[types.Return] {
	shipment, shipped := line.Shipment.Get()
	if line.Status != types.StatusDelivered || !shipped {
		return mo.None[types.Return]()
	}
	g := s.gen

	units := g.Between(0, line.UnitsSold)
	if units == 0 {
		return mo.None[types.Return]()
	}

	requested := shipment.DeliveryDate.AddDate(0, 0, g.Between(1, 14))
	r := types.Return{
		ID:          fmt.Sprintf("RET%d", g.Between(100000, 999999)),
		Status:      faker.Pick(g, returnStatuses),
		Reason:      faker.Pick(g, returnReasons),
		Mode:        faker.Pick(g, returnModes),
		RequestDate: requested,
		Units:       units,
		Refund:      Amount(units, line.FinalPrice),
	}
	r.CompletedDate = requested.AddDate(0, 0, g.Between(1, 10))
	return mo.Some(r)
}

func (s *Sampler) batch(orderDate time.Time) types.ManufacturingBatch {
	g := s.gen

	start := orderDate.AddDate(0, 0, -g.Between(10, 30))
	return types.ManufacturingBatch{
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, g.Between(5, 15)),
		Cost:       g.Money(10, 250),
		Volume:     g.Between(100, 10000),
		Inspection: inspectionResults.Draw(g),
		DefectRate: g.Ratio(0.005, 0.1, 3),
	}
}

func (s *Sampler) supplier() types.SupplierAssignment {
	g := s.gen

	promised := g.Between(5, 15)
	return types.SupplierAssignment{
		Supplier:         faker.Pick(g, s.catalog.Suppliers),
		LeadTimePromised: promised,
		LeadTimeActual:   promised + g.Between(-2, 5),
	}
}
