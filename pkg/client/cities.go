package client

import "strings"

// City is an entry of the fetchable-city catalog.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Cities is the fixed catalog of cities the history providers can fetch.
var Cities = []City{
	{Name: "Nagpur", Lat: 21.1458, Lon: 79.0882},
	{Name: "New Delhi", Lat: 28.6139, Lon: 77.2090},
	{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
	{Name: "Chennai", Lat: 13.0827, Lon: 80.2707},
	{Name: "Bengaluru", Lat: 12.9716, Lon: 77.5946},
	{Name: "Kolkata", Lat: 22.5726, Lon: 88.3639},
	{Name: "Hyderabad", Lat: 17.3850, Lon: 78.4867},
}

// LookupCity resolves a city by name, case-insensitively.
func LookupCity(name string) (City, bool) {
	for _, c := range Cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// CityNames lists the catalog names in order.
func CityNames() []string {
	names := make([]string, len(Cities))
	for i, c := range Cities {
		names[i] = c.Name
	}
	return names
}
