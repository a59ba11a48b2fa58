package models

// Category is a presentation entry for an expense category.
type Category struct {
	Value string
	Label string
	Icon  string
	Color string
}

// CategoryOther is the catch-all category.
const CategoryOther = "other"

// Categories lists every known category in display order.
var Categories = []Category{
	{Value: "food", Label: "Food & Dining", Icon: "🍽️", Color: "#FB923C"},
	{Value: "transport", Label: "Transportation", Icon: "🚗", Color: "#60A5FA"},
	{Value: "shopping", Label: "Shopping", Icon: "🛒", Color: "#4ADE80"},
	{Value: "entertainment", Label: "Entertainment", Icon: "🎬", Color: "#A78BFA"},
	{Value: "utilities", Label: "Utilities", Icon: "💡", Color: "#FACC15"},
	{Value: CategoryOther, Label: "Other", Icon: "📝", Color: "#9CA3AF"},
}

// LookupCategory returns the category with the given value.
func LookupCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}
