package models

import "time"

// TourPackage is one priced (activity, model, duration) combination in the
// knowledge base.
type TourPackage struct {
	ID           string    `bson:"id" json:"id"`
	Activity     Activity  `bson:"activity" json:"activity"`
	VehicleModel string    `bson:"vehicle_model,omitempty" json:"vehicle_model,omitempty"` // empty for safaris
	DurationMin  int       `bson:"duration_min" json:"duration_min"`
	Price        Money     `bson:"price" json:"price"` // per unit
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Location is the fixed meeting point shared by all tours.
type Location struct {
	Name    string `bson:"name" json:"name"`
	MapLink string `bson:"map_link" json:"map_link"`
}

// FAQEntry is a single knowledge-base question/answer pair.
type FAQEntry struct {
	ID       string `bson:"id" json:"id"`
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// AboutInfo describes the operator.
type AboutInfo struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	OpeningHours  string   `json:"opening_hours"`
	PaymentNotes  string   `json:"payment_notes"`
	PickupFeeNote string   `json:"pickup_fee_note"`
	Currencies    []string `json:"currencies"` // cash currencies accepted at venue rates
}
