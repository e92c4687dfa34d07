package models

// All lists every model the service migrates.
func All() []interface{} {
	return []interface{}{
		&Employee{},
		&PhoneNumber{},
		&Meal{},
		&Order{},
		&OrderLine{},
		&Delivery{},
		&OAuthClient{},
		&OAuthToken{},
	}
}
