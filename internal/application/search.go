package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
)

// TaskIndexer mirrors tasks into Elasticsearch for the search endpoint.
// Every call is best-effort: a nil client or a failed request is logged
// and never propagated to the triggering operation.
type TaskIndexer struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewTaskIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *TaskIndexer {
	return &TaskIndexer{ES: es, Index: index, Logger: logger}
}

func (ix *TaskIndexer) enabled() bool {
	return ix != nil && ix.ES != nil && ix.Index != ""
}

func (ix *TaskIndexer) warn(err error, msg string, fields logrus.Fields) {
	if ix.Logger != nil {
		ix.Logger.WithError(err).WithFields(fields).Warn(msg)
	}
}

func (ix *TaskIndexer) IndexTask(ctx context.Context, t *entity.Task) {
	if !ix.enabled() {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"description": t.Description,
		"completed":   t.Completed,
		"owner":       t.OwnerID,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: ix.Index, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		ix.warn(err, "es index failed", logrus.Fields{"task_id": t.ID})
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		ix.warn(nil, "es index response error", logrus.Fields{"task_id": t.ID, "status": res.Status()})
	}
}

func (ix *TaskIndexer) DeleteTask(ctx context.Context, id string) {
	if !ix.enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: ix.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		ix.warn(err, "es delete failed", logrus.Fields{"task_id": id})
		return
	}
	_ = res.Body.Close()
}

// DeleteByOwner wipes every task document of an owner after a cascade delete.
func (ix *TaskIndexer) DeleteByOwner(ctx context.Context, ownerID string) {
	if !ix.enabled() {
		return
	}
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"owner": ownerID},
		},
	}
	b, _ := json.Marshal(query)
	req := esapi.DeleteByQueryRequest{Index: []string{ix.Index}, Body: strings.NewReader(string(b))}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		ix.warn(err, "es delete-by-owner failed", logrus.Fields{"owner": ownerID})
		return
	}
	_ = res.Body.Close()
}

// SearchByOwner runs a description match scoped to the owner.
func (ix *TaskIndexer) SearchByOwner(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if !ix.enabled() {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   map[string]any{"match": map[string]any{"description": q}},
				"filter": map[string]any{"term": map[string]any{"owner": ownerID}},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
