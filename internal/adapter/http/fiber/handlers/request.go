package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/search"
)

func pageRequest(c *fiber.Ctx) domain.PageRequest {
	return domain.PageRequest{
		Page: c.QueryInt("page", 0),
		Size: c.QueryInt("size", domain.DefaultPageSize),
	}
}

func sortRequest(c *fiber.Ctx) search.Sort {
	return search.ResolveSort(c.Query("sort", search.DefaultSortField), c.Query("direction", "ASC"))
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Validation("parâmetro %s inválido", key)
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Validation("parâmetro %s inválido", key)
	}
	return &v, nil
}

// listingFilter reads the search filter from the query string.
func listingFilter(c *fiber.Ctx) (search.Filter, error) {
	f := search.Filter{
		UF:           c.Query("uf"),
		City:         c.Query("cidade"),
		PropertyType: c.Query("tipoImovel"),
		Institution:  c.Query("instituicao"),
		Text:         c.Query("busca"),
	}

	var err error
	floats := []struct {
		key string
		dst **float64
	}{
		{"valorMin", &f.MinValue},
		{"valorMax", &f.MaxValue},
		{"areaMin", &f.MinArea},
		{"areaMax", &f.MaxArea},
	}
	for _, q := range floats {
		if *q.dst, err = queryFloat(c, q.key); err != nil {
			return f, err
		}
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"quartosMin", &f.MinRooms},
		{"banheirosMin", &f.MinBathrooms},
		{"vagasMin", &f.MinParking},
	}
	for _, q := range ints {
		if *q.dst, err = queryInt(c, q.key); err != nil {
			return f, err
		}
	}
	return f, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.Validation("falha ao ler o arquivo %s", fh.Filename)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func bodyParse(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validation("corpo da requisição inválido")
	}
	return nil
}
