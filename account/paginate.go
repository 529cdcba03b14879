package account

// TotalPages calcola il numero di pagine per una lista paginata lato client
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate restituisce la pagina richiesta (1-based) e il numero totale di
// pagine. Pagine fuori intervallo restituiscono una slice vuota.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	totalPages := TotalPages(len(items), pageSize)
	if page < 1 || page > totalPages {
		return nil, totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
