// Package weaviate stores chunk vectors in a Weaviate server.
//
// Vectors are computed by ragent and supplied on insert; the class is
// created with no vectorizer. The class description records the vector
// dimensionality and embedding model so that a mismatched embedder is
// rejected when the store is opened.
package weaviate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Property names on the chunk class.
const (
	propChunkID    = "chunkId"
	propDocumentID = "documentId"
	propSourcePath = "sourcePath"
	propPage       = "page"
	propTitle      = "title"
	propStartIndex = "startIndex"
	propContent    = "content"
)

var descriptionPattern = regexp.MustCompile(`dimensions=(\d+); model=(.*)$`)

// Config locates the Weaviate server and class.
type Config struct {
	Host   string
	Scheme string
	Class  string
	APIKey string
}

// Store is a Weaviate-backed vector store.
type Store struct {
	client     *weaviate.Client
	class      string
	location   string
	dimensions int
	model      string
	created    bool
}

// NewStore connects to Weaviate and ensures the class exists. An existing
// class recorded with another dimensionality or model is rejected.
func NewStore(ctx context.Context, cfg Config, dimensions int, model string) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: store dimensions must be positive, got %d", domain.ErrInvalidSetting, dimensions)
	}

	s, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	s.dimensions = dimensions
	s.model = model

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Inspect reports the class's recorded dimensions, model and object count.
// A missing class is reported as not existing.
func Inspect(ctx context.Context, cfg Config) (*domain.StoreStatus, error) {
	s, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	status := &domain.StoreStatus{
		Backend:  domain.StoreBackendWeaviate,
		Location: s.location,
	}

	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(s.class).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: weaviate schema: %v", domain.ErrRemoteService, err)
	}
	if !exists {
		return status, nil
	}
	status.Exists = true

	class, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: weaviate get class: %v", domain.ErrRemoteService, err)
	}
	if m := descriptionPattern.FindStringSubmatch(class.Description); m != nil {
		status.Dimensions, _ = strconv.Atoi(m[1])
		status.Model = m[2]
	}

	if status.Entries, err = s.Count(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

func connect(cfg Config) (*Store, error) {
	wcfg := weaviate.Config{Host: cfg.Host, Scheme: cfg.Scheme}
	if cfg.APIKey != "" {
		wcfg.Headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	}
	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: weaviate client: %v", domain.ErrConfiguration, err)
	}

	return &Store{
		client:   client,
		class:    cfg.Class,
		location: fmt.Sprintf("%s://%s/%s", cfg.Scheme, cfg.Host, cfg.Class),
	}, nil
}

// Location returns the server URL and class name.
func (s *Store) Location() string {
	return s.location
}

// Dimensions returns the accepted vector size.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Close is a no-op; the client holds no persistent connection.
func (s *Store) Close() error {
	return nil
}

// Add inserts entries with one batch request.
func (s *Store) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	if err := similarity.CheckVectors(entries, s.dimensions); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	objects := make([]*models.Object, len(entries))
	for i, e := range entries {
		c := e.Chunk
		objects[i] = &models.Object{
			Class: s.class,
			Properties: map[string]interface{}{
				propChunkID:    c.ID,
				propDocumentID: c.DocumentID,
				propSourcePath: c.Metadata.SourcePath,
				propPage:       c.Metadata.Page,
				propTitle:      c.Metadata.Title,
				propStartIndex: c.StartIndex,
				propContent:    c.Text,
			},
			Vector: models.C11yVector(e.Vector),
		}
	}

	responses, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: weaviate batch: %v", domain.ErrRemoteService, err)
	}
	for _, res := range responses {
		if res.Result != nil && res.Result.Errors != nil && len(res.Result.Errors.Error) > 0 {
			return fmt.Errorf("%w: weaviate batch: %s", domain.ErrRemoteService, res.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Query runs a nearVector search. Score is 1 - cosine distance.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if err := similarity.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	fields := []graphql.Field{
		{Name: propChunkID},
		{Name: propDocumentID},
		{Name: propSourcePath},
		{Name: propPage},
		{Name: propTitle},
		{Name: propStartIndex},
		{Name: propContent},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithNearVector(nearVector).
		WithLimit(k).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: weaviate query: %v", domain.ErrRemoteService, err)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%w: weaviate graphql: %s", domain.ErrRemoteService, res.Errors[0].Message)
	}

	get, _ := res.Data["Get"].(map[string]interface{})
	rows, _ := get[s.class].([]interface{})

	results := make([]domain.ScoredChunk, 0, len(rows))
	for _, row := range rows {
		props, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		results = append(results, domain.ScoredChunk{
			Chunk: chunkFromProps(props),
			Score: scoreFromProps(props),
		})
	}
	return results, nil
}

// Count returns the number of objects in the class.
func (s *Store) Count(ctx context.Context) (int, error) {
	res, err := s.client.GraphQL().Aggregate().
		WithClassName(s.class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: weaviate aggregate: %v", domain.ErrRemoteService, err)
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("%w: weaviate graphql: %s", domain.ErrRemoteService, res.Errors[0].Message)
	}

	agg, _ := res.Data["Aggregate"].(map[string]interface{})
	groups, _ := agg[s.class].([]interface{})
	if len(groups) == 0 {
		return 0, nil
	}
	group, _ := groups[0].(map[string]interface{})
	meta, _ := group["meta"].(map[string]interface{})
	return toInt(meta["count"]), nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(s.class).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: weaviate schema: %v", domain.ErrRemoteService, err)
	}

	if !exists {
		class := &models.Class{
			Class:       s.class,
			Description: s.description(),
			Vectorizer:  "none",
			Properties: []*models.Property{
				{Name: propChunkID, DataType: []string{"text"}},
				{Name: propDocumentID, DataType: []string{"text"}},
				{Name: propSourcePath, DataType: []string{"text"}},
				{Name: propPage, DataType: []string{"int"}},
				{Name: propTitle, DataType: []string{"text"}},
				{Name: propStartIndex, DataType: []string{"int"}},
				{Name: propContent, DataType: []string{"text"}},
			},
		}
		if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
			return fmt.Errorf("%w: weaviate create class: %v", domain.ErrRemoteService, err)
		}
		s.created = true
		return nil
	}

	class, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: weaviate get class: %v", domain.ErrRemoteService, err)
	}
	return s.checkDescription(class.Description)
}

// Created reports whether opening the store created the class.
func (s *Store) Created() bool {
	return s.created
}

func (s *Store) description() string {
	return fmt.Sprintf("ragent chunks; dimensions=%d; model=%s", s.dimensions, s.model)
}

// checkDescription compares the recorded dimensions and model.
// Classes not created by ragent carry no record and are accepted.
func (s *Store) checkDescription(description string) error {
	m := descriptionPattern.FindStringSubmatch(description)
	if m == nil {
		return nil
	}

	dims, _ := strconv.Atoi(m[1])
	if dims != s.dimensions {
		return fmt.Errorf("%w: class %s holds %d-dimensional vectors, embedder produces %d",
			domain.ErrDimensionMismatch, s.class, dims, s.dimensions)
	}
	if m[2] != "" && s.model != "" && m[2] != s.model {
		return fmt.Errorf("%w: class %s was built with %q, configured model is %q",
			domain.ErrModelMismatch, s.class, m[2], s.model)
	}
	return nil
}

func chunkFromProps(props map[string]interface{}) domain.Chunk {
	str := func(key string) string {
		v, _ := props[key].(string)
		return v
	}
	return domain.Chunk{
		ID:         str(propChunkID),
		DocumentID: str(propDocumentID),
		Text:       str(propContent),
		StartIndex: toInt(props[propStartIndex]),
		Metadata: domain.Metadata{
			SourcePath: str(propSourcePath),
			Page:       toInt(props[propPage]),
			Title:      str(propTitle),
		},
	}
}

func scoreFromProps(props map[string]interface{}) float64 {
	additional, _ := props["_additional"].(map[string]interface{})
	switch d := additional["distance"].(type) {
	case float64:
		return 1 - d
	case string:
		f, err := strconv.ParseFloat(d, 64)
		if err == nil {
			return 1 - f
		}
	}
	return 0
}

// toInt converts a JSON number to int.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
