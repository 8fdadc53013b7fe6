package models

// Option is one selectable value of a configuration attribute.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Price int64  `json:"price"` // in cents, added to BasePrice
	Hex   string `json:"hex,omitempty"`
}

// BasePrice is the price of a case before material and finish surcharges.
const BasePrice int64 = 1400

var (
	Colors = []Option{
		{Label: "Black", Value: "black", Hex: "#18181b"},
		{Label: "Blue", Value: "blue", Hex: "#1e3a8a"},
		{Label: "Rose", Value: "rose", Hex: "#9f1239"},
	}

	PhoneModels = []Option{
		{Label: "iPhone X", Value: "iphonex"},
		{Label: "iPhone 11", Value: "iphone11"},
		{Label: "iPhone 12", Value: "iphone12"},
		{Label: "iPhone 13", Value: "iphone13"},
		{Label: "iPhone 14", Value: "iphone14"},
		{Label: "iPhone 15", Value: "iphone15"},
	}

	Materials = []Option{
		{Label: "Silicone", Value: "silicone", Price: 0},
		{Label: "Soft Polycarbonate", Value: "polycarbonate", Price: 500},
	}

	Finishes = []Option{
		{Label: "Smooth Finish", Value: "smooth", Price: 0},
		{Label: "Textured Finish", Value: "textured", Price: 300},
	}
)

// OptionCatalog is the full set of options served to the configurator.
type OptionCatalog struct {
	BasePrice int64    `json:"base_price"`
	Colors    []Option `json:"colors"`
	Models    []Option `json:"models"`
	Materials []Option `json:"materials"`
	Finishes  []Option `json:"finishes"`
}

func Catalog() OptionCatalog {
	return OptionCatalog{
		BasePrice: BasePrice,
		Colors:    Colors,
		Models:    PhoneModels,
		Materials: Materials,
		Finishes:  Finishes,
	}
}

// FindOption returns the option with the given value, if any.
func FindOption(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}
