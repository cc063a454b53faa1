package domain

// LocalPlaces returns the cities served when the upstream place list is
// unavailable.
func LocalPlaces() []Place {
	return []Place{
		{ID: "1", Display: "Barranquilla", CityName: "Barranquilla", Slug: "barranquilla", State: "Atlántico", Country: "CO", Popularity: "100"},
		{ID: "2", Display: "Bogotá", CityName: "Bogotá", Slug: "bogota", State: "Cundinamarca", Country: "CO", Popularity: "100"},
		{ID: "3", Display: "Medellín", CityName: "Medellín", Slug: "medellin", State: "Antioquia", Country: "CO", Popularity: "95"},
		{ID: "4", Display: "Cartagena", CityName: "Cartagena", Slug: "cartagena", State: "Bolívar", Country: "CO", Popularity: "90"},
		{ID: "5", Display: "Santa Marta", CityName: "Santa Marta", Slug: "santa-marta", State: "Magdalena", Country: "CO", Popularity: "85"},
		{ID: "6", Display: "Valledupar", CityName: "Valledupar", Slug: "valledupar", State: "Cesar", Country: "CO", Popularity: "80"},
		{ID: "7", Display: "Montería", CityName: "Montería", Slug: "monteria", State: "Córdoba", Country: "CO", Popularity: "75"},
		{ID: "8", Display: "Sincelejo", CityName: "Sincelejo", Slug: "sincelejo", State: "Sucre", Country: "CO", Popularity: "70"},
		{ID: "9", Display: "Cúcuta", CityName: "Cúcuta", Slug: "cucuta", State: "Norte de Santander", Country: "CO", Popularity: "70"},
		{ID: "10", Display: "Bucaramanga", CityName: "Bucaramanga", Slug: "bucaramanga", State: "Santander", Country: "CO", Popularity: "75"},
		{ID: "11", Display: "Cali", CityName: "Cali", Slug: "cali", State: "Valle del Cauca", Country: "CO", Popularity: "85"},
		{ID: "12", Display: "Riohacha", CityName: "Riohacha", Slug: "riohacha", State: "La Guajira", Country: "CO", Popularity: "60"},
	}
}

const staticHost = "https://static.expresobrasilia.com/wp-content/uploads/"

// FeaturedDestinations returns the destination cards shown on the home page.
func FeaturedDestinations() []Destination {
	return []Destination{
		{ID: 1, Name: "Valledupar", Image: staticHost + "2021/04/Valledupar-500x500-1.jpg", From: "Barranquilla", Price: 64000, Currency: "COP"},
		{ID: 2, Name: "Cartagena", Image: staticHost + "2024/01/Brasilia-500x500_1.jpg", From: "Montería", Price: 100000, Currency: "COP"},
		{ID: 3, Name: "Barranquilla", Image: staticHost + "2021/04/Monteria-500x500-1.jpg", From: "Montería", Price: 80000, Currency: "COP"},
		{ID: 4, Name: "Medellín", Image: staticHost + "2021/04/Medellin-500x500-1.jpg", From: "Montería", Price: 140000, Currency: "COP"},
	}
}

// CompanyServices returns the company brands listed in the footer.
func CompanyServices() []Service {
	return []Service{
		{ID: 1, Name: "Expreso Brasilia", Logo: staticHost + "2024/09/logo-white-300x83-1.png"},
		{ID: 2, Name: "Brasilia Carga", Logo: staticHost + "2020/09/logo-brasilia-carga.png"},
		{ID: 3, Name: "Servicio Especial", Logo: staticHost + "2020/09/logo-servicio-especial.png"},
		{ID: 4, Name: "Brasilia Play", Logo: staticHost + "2020/09/logo-brasilia-play.png"},
		{ID: 5, Name: "Fundación Brasilia", Logo: staticHost + "2020/12/logo-fundacion.png"},
	}
}
