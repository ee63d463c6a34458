package service

import (
	"context"
	"sync"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

type mockStore struct {
	mu        sync.Mutex
	tables    map[string][]model.Column
	inserted  map[string][][]any
	names     []string
	runs      []*model.UploadRun
	createErr error
	insertErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		tables:   map[string][]model.Column{},
		inserted: map[string][][]any{},
	}
}

func (m *mockStore) HasTable(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tables[name]
	return ok, nil
}

func (m *mockStore) CreateTable(_ context.Context, table string, columns []model.Column) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.tables[table] = columns
	return nil
}

func (m *mockStore) InsertRows(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.names = columns
	m.inserted[table] = append(m.inserted[table], rows...)
	return int64(len(rows)), nil
}

func (m *mockStore) RecordRun(_ context.Context, run *model.UploadRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

type mockNotifier struct {
	runs []*model.UploadRun
	err  error
}

func (n *mockNotifier) Notify(_ context.Context, run *model.UploadRun) error {
	n.runs = append(n.runs, run)
	return n.err
}

type mockExecutor struct {
	queries []string
	results map[string]*model.QueryResult
	errs    map[string]error
}

func (e *mockExecutor) Execute(_ context.Context, query string) (*model.QueryResult, error) {
	e.queries = append(e.queries, query)
	if err := e.errs[query]; err != nil {
		return nil, err
	}
	if res := e.results[query]; res != nil {
		return res, nil
	}
	return &model.QueryResult{}, nil
}
