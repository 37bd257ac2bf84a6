package restaurants

import (
	"strings"

	"gorm.io/gorm"
)

const (
	SortNewest   = "created_at desc"
	SortCheapest = "lowest_price asc"
)

// SortOptions lists the accepted sort keys with their labels.
var SortOptions = []struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}{
	{SortNewest, "Newest"},
	{SortCheapest, "Lowest price"},
}

type Filter struct {
	Keyword    string
	CategoryID uint
	// MaxPrice keeps restaurants whose lowest price is at or below it. Zero disables.
	MaxPrice int
	Sort     string
}

// NormalizedSort returns Sort when it is a known key, the newest-first order otherwise.
func (f Filter) NormalizedSort() string {
	switch f.Sort {
	case SortCheapest:
		return SortCheapest
	default:
		return SortNewest
	}
}

// Scope applies the filter to a query over restaurants.
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := LikePattern(kw)
		byCategory := db.Session(&gorm.Session{NewDB: true}).
			Table("category_restaurant").
			Select("category_restaurant.restaurant_id").
			Joins("JOIN categories ON categories.id = category_restaurant.category_id").
			Where("LOWER(categories.name) LIKE ? ESCAPE '\\'", like)
		db = db.Where(
			"LOWER(restaurants.name) LIKE ? ESCAPE '\\' OR LOWER(restaurants.address) LIKE ? ESCAPE '\\' OR restaurants.id IN (?)",
			like, like, byCategory,
		)
	}
	if f.CategoryID != 0 {
		db = db.Where("restaurants.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Table("category_restaurant").
			Select("restaurant_id").
			Where("category_id = ?", f.CategoryID))
	}
	if f.MaxPrice > 0 {
		db = db.Where("restaurants.lowest_price <= ?", f.MaxPrice)
	}
	return db
}

// Order applies the sort with id as a tie breaker.
func (f Filter) Order(db *gorm.DB) *gorm.DB {
	switch f.NormalizedSort() {
	case SortCheapest:
		return db.Order("restaurants.lowest_price ASC").Order("restaurants.id ASC")
	default:
		return db.Order("restaurants.created_at DESC").Order("restaurants.id DESC")
	}
}

// LikePattern lowercases kw, escapes LIKE wildcards and wraps it in %.
func LikePattern(kw string) string {
	kw = strings.ToLower(kw)
	kw = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(kw)
	return "%" + kw + "%"
}

// Search returns one page of filtered restaurants with their categories and
// the total number of matches.
func Search(db *gorm.DB, f Filter, limit, offset int) ([]Restaurant, int64, error) {
	var total int64
	if err := f.Scope(db.Model(&Restaurant{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := []Restaurant{}
	err := f.Order(f.Scope(db.Model(&Restaurant{}))).
		Preload("Categories").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
