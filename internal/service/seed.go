package service

import "github.com/rentfage/property-service/internal/domain/entity"

// sampleListings is the built-in dataset inserted on first run so the app
// never starts with an empty catalog.
func sampleListings() []entity.Listing {
	return []entity.Listing{
		{
			ID:        1,
			Price:     "UF 28.500",
			Address:   "Av. Vitacura, Vitacura, Santiago",
			Details:   "4 hab | 1 baño | 450 m²",
			ImageURI:  "https://cdn.rentfage.cl/img/casa1.jpg",
			Latitude:  -33.4130,
			Longitude: -70.5947,
		},
		{
			ID:        2,
			Price:     "UF 35.000",
			Address:   "Camino La Dehesa, Lo Barnechea, Santiago",
			Details:   "4 hab | 1 baño | 600 m² | Piscina",
			ImageURI:  "https://cdn.rentfage.cl/img/casa2.jpg",
			Latitude:  -33.3592,
			Longitude: -70.5150,
		},
		{
			ID:        3,
			Price:     "UF 28.900",
			Address:   "Vitacura, sector Santa María de Manquehue",
			Details:   "5 hab | 4 baños | 620 m²",
			ImageURI:  "https://cdn.rentfage.cl/img/casa3.jpg",
			Latitude:  -33.3710,
			Longitude: -70.5705,
		},
		{
			ID:        4,
			Price:     "UF 19.800",
			Address:   "Las Condes, sector El Golf",
			Details:   "3 hab | 3 baños | 340 m²",
			ImageURI:  "https://cdn.rentfage.cl/img/casa4.jpg",
			Latitude:  -33.3989,
			Longitude: -70.5303,
		},
		{
			ID:        5,
			Price:     "UF 15.200",
			Address:   "Av. Providencia, Providencia, Santiago",
			Details:   "3 hab | 2 baños | 210 m²",
			ImageURI:  "https://cdn.rentfage.cl/img/casa5.jpg",
			Latitude:  -33.4263,
			Longitude: -70.6168,
		},
		{
			ID:        6,
			Price:     "UF 9.900",
			Address:   "Ñuñoa, sector Plaza Egaña",
			Details:   "2 hab | 2 baños | 120 m²",
			ImageURI:  "https://cdn.rentfage.cl/img/casa6.jpg",
			Latitude:  -33.4532,
			Longitude: -70.5688,
		},
	}
}
