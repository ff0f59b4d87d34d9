package model

// FilterField returns the items whose named field equals value.
// Matching is strict: a value of the wrong type matches nothing.
// An empty field name or an empty item slice is returned as-is,
// so callers can chain without nil checks.
//
// Field keys follow the json tags: "id", "title", "done", "owner".
func FilterField(items []Item, field string, value any) []Item {
	if len(items) == 0 || field == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if fieldEquals(it, field, value) {
			out = append(out, it)
		}
	}
	return out
}

func fieldEquals(it Item, field string, value any) bool {
	switch field {
	case "id":
		v, ok := value.(int)
		return ok && it.ID == v
	case "title":
		v, ok := value.(string)
		return ok && it.Title == v
	case "done":
		v, ok := value.(bool)
		return ok && it.Done == v
	case "owner":
		v, ok := value.(int)
		return ok && it.OwnerID == v
	}
	return false
}

// Stats counts done and pending items in one pass. Views use it for
// the header line; FilterField covers everything else.
func Stats(items []Item) (done, pending int) {
	done = len(FilterField(items, "done", true))
	pending = len(items) - done
	return
}
