package model

// Category codes are immutable reference data shared by the server seed and
// the offline client.
const (
	CategoryShopping      = "SHOPPING_001"
	CategoryEntertainment = "ENTERTAINMENT_001"
	CategoryTravel        = "TRAVEL_001"
	CategoryFood          = "FOOD_001"
	CategoryFixed         = "FIXED_001"
	CategoryEducation     = "EDUCATION_001"
	CategoryHealthCare    = "HEALTH_CARE_001"
	CategoryInvestment    = "INVESTMENT_001"
)

// Categories is the full fixed set, in display order.
var Categories = []Category{
	{Code: CategoryFood, Name: "Food"},
	{Code: CategoryShopping, Name: "Shopping"},
	{Code: CategoryEntertainment, Name: "Entertainment"},
	{Code: CategoryTravel, Name: "Travel"},
	{Code: CategoryFixed, Name: "Fixed Costs"},
	{Code: CategoryEducation, Name: "Education"},
	{Code: CategoryHealthCare, Name: "Health Care"},
	{Code: CategoryInvestment, Name: "Investment"},
}

// CategoryByCode looks up a category in the fixed set.
func CategoryByCode(code string) (Category, bool) {
	for _, c := range Categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}
