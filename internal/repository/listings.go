package repository

import (
	"context"

	"github.com/atinyakov/RentVerify/internal/models"
)

// ListingCatalog serves a fixed set of listings. The catalog never
// changes for the lifetime of the process.
type ListingCatalog struct {
	listings []models.Listing
	latency  Latency
}

// NewListingCatalog creates a catalog over listings. With no listings the
// built-in catalog is used.
func NewListingCatalog(latency Latency, listings ...models.Listing) *ListingCatalog {
	if len(listings) == 0 {
		listings = DefaultListings()
	}
	return &ListingCatalog{listings: listings, latency: latency}
}

// ListListings returns a copy of the whole catalog.
func (c *ListingCatalog) ListListings(ctx context.Context) ([]models.Listing, error) {
	if err := wait(ctx, c.latency.Read); err != nil {
		return nil, err
	}
	return append([]models.Listing(nil), c.listings...), nil
}

// GetListing returns the listing with the exact id.
func (c *ListingCatalog) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if err := wait(ctx, c.latency.Read); err != nil {
		return nil, err
	}
	for i := range c.listings {
		if c.listings[i].ID == id {
			l := c.listings[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

// DefaultListings returns the built-in six-listing catalog.
func DefaultListings() []models.Listing {
	return []models.Listing{
		{
			ID:            "1",
			Title:         "Modern 2BHK Apartment in Downtown",
			Address:       "123 Main Street, Downtown, City 12345",
			Price:         25000,
			Bedrooms:      2,
			Bathrooms:     2,
			Area:          1200,
			Description:   "Beautiful modern apartment with great amenities. Located in the heart of downtown with easy access to public transport, shopping, and dining.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg", "/placeholder.jpg", "/placeholder.jpg"},
			Amenities:     []string{"Air Conditioning", "WiFi", "Parking", "Gym", "Swimming Pool"},
			LandlordName:  "John Smith",
			LandlordPhone: "+91 9876543210",
			LandlordEmail: "john.smith@example.com",
			AvailableFrom: "2024-02-01",
			PropertyType:  "Apartment",
			Furnished:     true,
			Parking:       true,
		},
		{
			ID:            "2",
			Title:         "Spacious 3BHK Villa with Garden",
			Address:       "456 Oak Avenue, Suburb, City 12345",
			Price:         45000,
			Bedrooms:      3,
			Bathrooms:     3,
			Area:          2000,
			Description:   "Luxurious villa with private garden and modern amenities. Perfect for families looking for a peaceful living environment.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg", "/placeholder.jpg"},
			Amenities:     []string{"Garden", "Parking", "Security", "WiFi", "Air Conditioning"},
			LandlordName:  "Sarah Johnson",
			LandlordPhone: "+91 9876543211",
			LandlordEmail: "sarah.j@example.com",
			AvailableFrom: "2024-03-01",
			PropertyType:  "Villa",
			Parking:       true,
			PetFriendly:   true,
		},
		{
			ID:            "3",
			Title:         "Cozy 1BHK Studio Apartment",
			Address:       "789 Park Road, Midtown, City 12345",
			Price:         15000,
			Bedrooms:      1,
			Bathrooms:     1,
			Area:          600,
			Description:   "Compact and cozy studio apartment perfect for singles or couples. Fully furnished with all modern amenities.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg"},
			Amenities:     []string{"WiFi", "Air Conditioning", "Furnished", "Security"},
			LandlordName:  "Mike Davis",
			LandlordPhone: "+91 9876543212",
			LandlordEmail: "mike.davis@example.com",
			AvailableFrom: "2024-01-15",
			PropertyType:  "Studio",
			Furnished:     true,
		},
		{
			ID:            "4",
			Title:         "Luxury 4BHK Penthouse",
			Address:       "321 Sky Tower, Uptown, City 12345",
			Price:         85000,
			Bedrooms:      4,
			Bathrooms:     4,
			Area:          3500,
			Description:   "Stunning penthouse with panoramic city views. Premium finishes and top-of-the-line amenities throughout.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg", "/placeholder.jpg", "/placeholder.jpg", "/placeholder.jpg"},
			Amenities:     []string{"City View", "Gym", "Swimming Pool", "Concierge", "Parking", "WiFi", "Air Conditioning"},
			LandlordName:  "Emily Chen",
			LandlordPhone: "+91 9876543213",
			LandlordEmail: "emily.chen@example.com",
			AvailableFrom: "2024-04-01",
			PropertyType:  "Penthouse",
			Furnished:     true,
			Parking:       true,
			PetFriendly:   true,
		},
		{
			ID:            "5",
			Title:         "Family-Friendly 3BHK House",
			Address:       "654 Maple Street, Residential Area, City 12345",
			Price:         35000,
			Bedrooms:      3,
			Bathrooms:     2,
			Area:          1800,
			Description:   "Charming family home in a quiet residential neighborhood. Close to schools and parks.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg", "/placeholder.jpg"},
			Amenities:     []string{"Garden", "Parking", "Security", "WiFi"},
			LandlordName:  "Robert Wilson",
			LandlordPhone: "+91 9876543214",
			LandlordEmail: "robert.w@example.com",
			AvailableFrom: "2024-02-15",
			PropertyType:  "House",
			Parking:       true,
			PetFriendly:   true,
		},
		{
			ID:            "6",
			Title:         "Modern 2BHK with Balcony",
			Address:       "987 River View, Riverside, City 12345",
			Price:         28000,
			Bedrooms:      2,
			Bathrooms:     2,
			Area:          1100,
			Description:   "Contemporary apartment with river views. Modern kitchen and spacious living area.",
			Image:         "/placeholder.jpg",
			Images:        []string{"/placeholder.jpg", "/placeholder.jpg", "/placeholder.jpg"},
			Amenities:     []string{"River View", "Balcony", "Parking", "WiFi", "Air Conditioning", "Gym"},
			LandlordName:  "Lisa Anderson",
			LandlordPhone: "+91 9876543215",
			LandlordEmail: "lisa.a@example.com",
			AvailableFrom: "2024-01-20",
			PropertyType:  "Apartment",
			Furnished:     true,
			Parking:       true,
		},
	}
}
