package domain

// ListingStatistics summarises the listings matched by a search filter.
type ListingStatistics struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"ativos"`
	Inactive int64 `json:"inativos"`

	ByUF          map[string]int64 `json:"por_uf"`
	ByCity        map[string]int64 `json:"por_cidade"`
	ByType        map[string]int64 `json:"por_tipo"`
	ByInstitution map[string]int64 `json:"por_instituicao"`
	ByStatus      map[string]int64 `json:"por_status"`

	ValueSum float64 `json:"valor_total"`
	ValueAvg float64 `json:"valor_medio"`
	ValueMin float64 `json:"valor_minimo"`
	ValueMax float64 `json:"valor_maximo"`

	WithImages       int64   `json:"com_imagens"`
	WithoutImages    int64   `json:"sem_imagens"`
	ImagesPercentage float64 `json:"percentual_com_imagens"`
}
