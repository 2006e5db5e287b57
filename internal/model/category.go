package model

// Category identifies one of the three classification models.
type Category string

const (
	CategoryLettuce Category = "lettuce"
	CategoryDisease Category = "disease"
	CategoryPest    Category = "pest"
)

// Categories lists every model category in document order.
var Categories = []Category{CategoryLettuce, CategoryDisease, CategoryPest}
