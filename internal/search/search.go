package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/company/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

var ErrDisabled = errors.New("search: index is not configured")

type Result struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (Result, error)
}

// Disabled keeps writes silent and refuses queries.
type Disabled struct{}

func (Disabled) IndexProduct(context.Context, models.Product) error { return nil }
func (Disabled) DeleteProduct(context.Context, uint) error          { return nil }
func (Disabled) Search(context.Context, string, int, int) (Result, error) {
	return Result{}, ErrDisabled
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: new client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type ES struct {
	client *elasticsearch.Client
	index  string
}

func NewES(client *elasticsearch.Client, index string) *ES {
	return &ES{client: client, index: index}
}

func (e *ES) IndexProduct(ctx context.Context, p models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal product %d: %w", p.ID, err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(docID(p.ID)),
		e.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product %d: %s", p.ID, res.Status())
	}
	return nil
}

// DeleteProduct treats a missing document as already removed.
func (e *ES) DeleteProduct(ctx context.Context, id uint) error {
	res, err := e.client.Delete(
		e.index,
		docID(id),
		e.client.Delete.WithContext(ctx),
		e.client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("search: delete product %d: %s", id, res.Status())
	}
	return nil
}

func (e *ES) Search(ctx context.Context, query string, from, size int) (Result, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Result{}, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return Result{}, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Result{}, fmt.Errorf("search: query: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Result{}, fmt.Errorf("search: decode response: %w", err)
	}

	out := Result{Total: r.Hits.Total.Value, Products: make([]models.Product, len(r.Hits.Hits))}
	for i, hit := range r.Hits.Hits {
		out.Products[i] = hit.Source
	}
	return out, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
