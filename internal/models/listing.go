package models

// Listing is a property available for rent.
type Listing struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	Bedrooms      int      `json:"bedrooms,omitempty"`
	Bathrooms     int      `json:"bathrooms,omitempty"`
	Area          int      `json:"area,omitempty"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image,omitempty"`
	Images        []string `json:"images,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	LandlordName  string   `json:"landlordName,omitempty"`
	LandlordPhone string   `json:"landlordPhone,omitempty"`
	LandlordEmail string   `json:"landlordEmail,omitempty"`
	AvailableFrom string   `json:"availableFrom,omitempty"`
	PropertyType  string   `json:"propertyType,omitempty"`
	Furnished     bool     `json:"furnished"`
	Parking       bool     `json:"parking"`
	PetFriendly   bool     `json:"petFriendly"`
}

// ListingFilters are the optional numeric filters of a listing query.
// Values arrive as strings from query parameters; empty means unset.
type ListingFilters struct {
	MinPrice  string `json:"minPrice,omitempty"`
	MaxPrice  string `json:"maxPrice,omitempty"`
	Bedrooms  string `json:"bedrooms,omitempty"`
	Bathrooms string `json:"bathrooms,omitempty"`
}
