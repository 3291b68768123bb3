package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// UserIndex mirrors public user views into an Elasticsearch index.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

func (x *UserIndex) Index(ctx context.Context, v entity.UserView) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: v.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", v.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over username, email and fullName.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]entity.UserView, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^3", "email^2", "fullName"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source entity.UserView `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(r io.Reader) ([]entity.UserView, error) {
	var parsed searchResponse
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.UserView, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
