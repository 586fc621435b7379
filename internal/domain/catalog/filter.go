package catalog

import "strings"

// Published returns the products whose estado is Publicado. The storefront
// listing only shows published courses; paused ones stay admin-only.
func Published(list []Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if p.Estado == StatusPublished {
			out = append(out, p)
		}
	}
	return out
}

// Search filters by a case-insensitive substring match over titulo and
// descripcion. An empty term returns the list unchanged.
func Search(list []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Titulo), term) ||
			strings.Contains(strings.ToLower(p.Descripcion), term) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns the 1-based page of the given size. Out-of-range pages
// are clamped into the valid range; perPage below 1 falls back to the whole
// list.
func Paginate(list []Product, page, perPage int) []Product {
	if perPage < 1 {
		return list
	}
	totalPages := (len(list) + perPage - 1) / perPage
	if totalPages == 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
