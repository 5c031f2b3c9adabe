package region

// Builtin returns the built-in region tables. Each call returns fresh maps.
func Builtin() []Table {
	return []Table{
		unitedStates(),
		canada(),
		australia(),
		germany(),
		india(),
	}
}

// Default returns a registry over the built-in tables.
func Default() *Registry {
	return NewRegistry(Builtin()...)
}

func unitedStates() Table {
	return Table{
		Country: "United States",
		Aliases: []string{"United States of America", "USA"},
		Regions: map[string]string{
			"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR", "California": "CA",
			"Colorado": "CO", "Connecticut": "CT", "Delaware": "DE", "Florida": "FL", "Georgia": "GA",
			"Hawaii": "HI", "Idaho": "ID", "Illinois": "IL", "Indiana": "IN", "Iowa": "IA",
			"Kansas": "KS", "Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
			"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS", "Missouri": "MO",
			"Montana": "MT", "Nebraska": "NE", "Nevada": "NV", "New Hampshire": "NH", "New Jersey": "NJ",
			"New Mexico": "NM", "New York": "NY", "North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH",
			"Oklahoma": "OK", "Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
			"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT", "Vermont": "VT",
			"Virginia": "VA", "Washington": "WA", "West Virginia": "WV", "Wisconsin": "WI", "Wyoming": "WY",
			"District of Columbia": "DC",
		},
		Cities: map[string]string{
			"New York": "NY", "Los Angeles": "CA", "Chicago": "IL", "Houston": "TX",
			"Phoenix": "AZ", "Philadelphia": "PA", "San Antonio": "TX", "San Diego": "CA",
			"Dallas": "TX", "San Jose": "CA", "Austin": "TX", "Jacksonville": "FL",
			"Fort Worth": "TX", "Columbus": "OH", "Charlotte": "NC", "San Francisco": "CA",
			"Indianapolis": "IN", "Seattle": "WA", "Denver": "CO", "Washington": "DC",
			"Boston": "MA", "El Paso": "TX", "Nashville": "TN", "Detroit": "MI",
			"Oklahoma City": "OK", "Portland": "OR", "Las Vegas": "NV", "Memphis": "TN",
			"Louisville": "KY", "Baltimore": "MD", "Milwaukee": "WI", "Albuquerque": "NM",
			"Tucson": "AZ", "Fresno": "CA", "Sacramento": "CA", "Kansas City": "MO",
			"Mesa": "AZ", "Atlanta": "GA", "Long Beach": "CA", "Colorado Springs": "CO",
			"Raleigh": "NC", "Miami": "FL", "Virginia Beach": "VA", "Omaha": "NE",
			"Oakland": "CA", "Minneapolis": "MN", "Tulsa": "OK", "Arlington": "TX",
			"Tampa": "FL", "New Orleans": "LA", "Wichita": "KS", "Cleveland": "OH",
			"Bakersfield": "CA", "Aurora": "CO", "Anaheim": "CA", "Honolulu": "HI",
			"Santa Ana": "CA", "Corpus Christi": "TX", "Riverside": "CA", "Lexington": "KY",
			"Stockton": "CA", "Henderson": "NV", "Saint Paul": "MN", "St. Louis": "MO",
			"Chula Vista": "CA", "Orlando": "FL", "Laredo": "TX",
			"Chandler": "AZ", "Madison": "WI", "Lubbock": "TX", "Scottsdale": "AZ",
			"Reno": "NV", "Buffalo": "NY", "Gilbert": "AZ", "Glendale": "AZ",
			"North Las Vegas": "NV", "Fremont": "CA", "Boise": "ID", "Irvine": "CA",
			"Stanford": "CA", "Berkeley": "CA",
		},
	}
}

func canada() Table {
	return Table{
		Country: "Canada",
		Regions: map[string]string{
			"Alberta": "AB", "British Columbia": "BC", "Manitoba": "MB", "New Brunswick": "NB",
			"Newfoundland and Labrador": "NL", "Nova Scotia": "NS", "Ontario": "ON", "Prince Edward Island": "PE",
			"Quebec": "QC", "Saskatchewan": "SK", "Northwest Territories": "NT", "Nunavut": "NU", "Yukon": "YT",
		},
		Cities: map[string]string{
			"Toronto": "ON", "Montreal": "QC", "Vancouver": "BC", "Calgary": "AB",
			"Edmonton": "AB", "Ottawa": "ON", "Winnipeg": "MB", "Quebec City": "QC",
			"Hamilton": "ON", "Kitchener": "ON", "London": "ON", "Victoria": "BC",
			"Halifax": "NS", "Saskatoon": "SK", "Regina": "SK", "St. John's": "NL",
		},
	}
}

func australia() Table {
	return Table{
		Country: "Australia",
		Regions: map[string]string{
			"New South Wales": "NSW", "Victoria": "VIC", "Queensland": "QLD", "Western Australia": "WA",
			"South Australia": "SA", "Tasmania": "TAS", "Australian Capital Territory": "ACT", "Northern Territory": "NT",
		},
		Cities: map[string]string{
			"Sydney": "NSW", "Melbourne": "VIC", "Brisbane": "QLD", "Perth": "WA",
			"Adelaide": "SA", "Hobart": "TAS", "Canberra": "ACT", "Darwin": "NT",
		},
	}
}

func germany() Table {
	return Table{
		Country: "Germany",
		Regions: map[string]string{
			"Baden-Württemberg": "BW", "Bavaria": "BY", "Berlin": "BE", "Brandenburg": "BB", "Bremen": "HB",
			"Hamburg": "HH", "Hesse": "HE", "Lower Saxony": "NI", "Mecklenburg-Vorpommern": "MV",
			"North Rhine-Westphalia": "NW", "Rhineland-Palatinate": "RP", "Saarland": "SL", "Saxony": "SN",
			"Saxony-Anhalt": "ST", "Schleswig-Holstein": "SH", "Thuringia": "TH",
		},
	}
}

func india() Table {
	return Table{
		Country: "India",
		Regions: map[string]string{
			"Andhra Pradesh": "AP", "Arunachal Pradesh": "AR", "Assam": "AS", "Bihar": "BR", "Chhattisgarh": "CG",
			"Goa": "GA", "Gujarat": "GJ", "Haryana": "HR", "Himachal Pradesh": "HP", "Jharkhand": "JH",
			"Karnataka": "KA", "Kerala": "KL", "Madhya Pradesh": "MP", "Maharashtra": "MH", "Manipur": "MN",
			"Meghalaya": "ML", "Mizoram": "MZ", "Nagaland": "NL", "Odisha": "OD", "Punjab": "PB",
			"Rajasthan": "RJ", "Sikkim": "SK", "Tamil Nadu": "TN", "Telangana": "TS", "Tripura": "TR",
			"Uttar Pradesh": "UP", "Uttarakhand": "UK", "West Bengal": "WB",
		},
	}
}
