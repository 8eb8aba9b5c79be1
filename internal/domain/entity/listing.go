package entity

// Listing is a property record available for browsing and purchase. The ID
// is stable and unique within the store; Price stays a display string
// because listings are published in UF and free-form formats.
type Listing struct {
	ID         int64   `bson:"_id" json:"id"`
	Price      string  `bson:"price" json:"price"`
	Address    string  `bson:"address" json:"address"`
	Details    string  `bson:"details" json:"details"`
	ImageURI   string  `bson:"image_uri" json:"imageUri"`
	Latitude   float64 `bson:"latitude" json:"latitude"`
	Longitude  float64 `bson:"longitude" json:"longitude"`
	IsFavorite bool    `bson:"is_favorite" json:"isFavorite"`
}

// ApplyEdit replaces the user-editable fields, keeping ID and the favorite
// flag untouched.
func (l *Listing) ApplyEdit(address, price, details, imageURI string, latitude, longitude float64) {
	l.Address = address
	l.Price = price
	l.Details = details
	l.ImageURI = imageURI
	l.Latitude = latitude
	l.Longitude = longitude
}

// NextListingID returns the ID a newly added listing should get:
// max existing ID + 1, or 1 when the collection is empty.
func NextListingID(listings []Listing) int64 {
	var max int64
	for _, l := range listings {
		if l.ID > max {
			max = l.ID
		}
	}
	return max + 1
}
