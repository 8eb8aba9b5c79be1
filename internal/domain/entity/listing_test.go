package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextListingID_EmptyCollection(t *testing.T) {
	assert.Equal(t, int64(1), NextListingID(nil))
	assert.Equal(t, int64(1), NextListingID([]Listing{}))
}

func TestNextListingID_MaxPlusOne(t *testing.T) {
	listings := []Listing{{ID: 2}, {ID: 7}, {ID: 4}}

	assert.Equal(t, int64(8), NextListingID(listings))
}

func TestNextListingID_IgnoresGaps(t *testing.T) {
	// Deleting listing 3 from 1..3 must not cause ID 3 to be reused later
	// than 4 would be; the allocator only cares about the current maximum.
	listings := []Listing{{ID: 1}, {ID: 2}}

	assert.Equal(t, int64(3), NextListingID(listings))
}

func TestListing_ApplyEdit_PreservesIDAndFavorite(t *testing.T) {
	l := Listing{
		ID:         5,
		Price:      "UF 28.500",
		Address:    "Av. Providencia 1208, Providencia",
		IsFavorite: true,
	}

	l.ApplyEdit("Calle Nueva 42, Ñuñoa", "UF 31.000", "3 hab | 2 baños | 95 m²", "https://cdn.rentfage.cl/img/casa9.jpg", -33.45, -70.66)

	assert.Equal(t, int64(5), l.ID)
	assert.True(t, l.IsFavorite)
	assert.Equal(t, "Calle Nueva 42, Ñuñoa", l.Address)
	assert.Equal(t, "UF 31.000", l.Price)
	assert.Equal(t, "3 hab | 2 baños | 95 m²", l.Details)
	assert.Equal(t, "https://cdn.rentfage.cl/img/casa9.jpg", l.ImageURI)
	assert.Equal(t, -33.45, l.Latitude)
	assert.Equal(t, -70.66, l.Longitude)
}
