package category

// Category is one (sport, category) pair of the provider taxonomy.
type Category struct {
	SportID      string `json:"sport_id"`
	SportName    string `json:"sport_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	GroupName    string `json:"group_name"`
}

// Index maps a sport id to its category names.
type Index map[string][]string

// BuildIndex groups categories by sport id, keeping the input order within each sport.
func BuildIndex(items []Category) Index {
	out := make(Index)
	for _, item := range items {
		out[item.SportID] = append(out[item.SportID], item.CategoryName)
	}
	return out
}

// Names returns the category names of a sport. Unknown sports get an empty, non-nil list.
func (idx Index) Names(sportID string) []string {
	names, ok := idx[sportID]
	if !ok || names == nil {
		return []string{}
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}
