package models

// Settings is the business profile printed on receipts and used by the till.
type Settings struct {
	SalonName   string  `bson:"salon_name" json:"salonName"`
	Currency    string  `bson:"currency" json:"currency"`
	TaxRate     float64 `bson:"tax_rate" json:"taxRate"` // GST, процент
	FooterPhone string  `bson:"footer_phone" json:"footerPhone"`
	OpeningTime string  `bson:"opening_time" json:"openingTime"`
	ClosingTime string  `bson:"closing_time" json:"closingTime"`
}

type UpdateSettings struct {
	SalonName   *string  `json:"salonName,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	TaxRate     *float64 `json:"taxRate,omitempty"`
	FooterPhone *string  `json:"footerPhone,omitempty"`
	OpeningTime *string  `json:"openingTime,omitempty"`
	ClosingTime *string  `json:"closingTime,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		SalonName:   "LuxeSalon & Spa",
		Currency:    "INR",
		TaxRate:     18,
		FooterPhone: "9876543210",
		OpeningTime: "10:00",
		ClosingTime: "20:00",
	}
}
