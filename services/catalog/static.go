package catalog

import (
	"jetset/models"
)

// comboKey identifies one priced (activity, model, duration) combination.
type comboKey struct {
	activity models.Activity
	model    string
	duration int
}

// StaticCatalog is the in-memory tariff table consulted during pricing. It
// answers without I/O; combinations it does not carry fall through to the
// knowledge base. Quad tariffs are deliberately absent here — they are
// maintained in the packages collection and arrive via the external lookup.
type StaticCatalog struct {
	prices   map[comboKey]models.Money
	location models.Location
}

// NewStaticCatalog returns the catalog seeded with the fixed tariff table.
func NewStaticCatalog() *StaticCatalog {
	c := &StaticCatalog{
		prices: make(map[comboKey]models.Money),
		location: models.Location{
			Name:    "Jetset Desert Camp",
			MapLink: "https://maps.app.goo.gl/dekGjkZmZPwDjG6F8",
		},
	}

	// Dune buggies, per vehicle.
	c.seed(models.ActivityBuggy, "2-seater", 30, 400)
	c.seed(models.ActivityBuggy, "2-seater", 60, 600)
	c.seed(models.ActivityBuggy, "2-seater", 120, 1000)
	c.seed(models.ActivityBuggy, "4-seater", 30, 500)
	c.seed(models.ActivityBuggy, "4-seater", 60, 800)
	c.seed(models.ActivityBuggy, "4-seater", 120, 1300)

	// Shared safaris, per passenger.
	c.seed(models.ActivitySafariShared, "", 240, 150)
	c.seed(models.ActivitySafariShared, "", 300, 200)
	c.seed(models.ActivitySafariShared, "", 360, 250)

	// Private safaris, per car.
	c.seed(models.ActivitySafariPrivate, "", 240, 600)
	c.seed(models.ActivitySafariPrivate, "", 300, 750)
	c.seed(models.ActivitySafariPrivate, "", 360, 900)

	return c
}

func (c *StaticCatalog) seed(activity models.Activity, model string, durationMin int, price models.Money) {
	c.prices[comboKey{activity, model, durationMin}] = price
}

// Lookup returns the per-unit base price for the combination.
func (c *StaticCatalog) Lookup(activity models.Activity, vehicleModel string, durationMin int) (models.Money, bool) {
	p, ok := c.prices[comboKey{activity, vehicleModel, durationMin}]
	return p, ok
}

// Location returns the fixed meeting point for all tours.
func (c *StaticCatalog) Location() models.Location {
	return c.location
}

// Entries renders the tariff table as tour packages for listing endpoints.
func (c *StaticCatalog) Entries() []models.TourPackage {
	out := make([]models.TourPackage, 0, len(c.prices))
	for key, price := range c.prices {
		out = append(out, models.TourPackage{
			Activity:     key.activity,
			VehicleModel: key.model,
			DurationMin:  key.duration,
			Price:        price,
		})
	}
	return out
}
