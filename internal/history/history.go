// Package history keeps a local, full-text-searchable record of the pages
// the viewer has opened, backed by SQLite FTS5.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Entry is one viewed page.
type Entry struct {
	ID       int64     `json:"id"`
	Topic    string    `json:"topic"`
	Section  string    `json:"section"`
	Title    string    `json:"title"`
	ViewedAt time.Time `json:"viewedAt"`
}

// SearchResponse carries one page of full-text results.
type SearchResponse struct {
	Total   uint64  `json:"total"`
	Results []Entry `json:"results"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a viewed page. Content is indexed for full-text search but
// never returned by queries.
func (s *Store) Record(ctx context.Context, topic, section, title, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (topic, section, title, content, viewed_at) VALUES (?, ?, ?, ?, ?)`,
		topic, section, title, content, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record page view %q: %w", topic, err)
	}
	return nil
}

// Search runs a full-text query over recorded pages, most relevant first.
func (s *Store) Search(ctx context.Context, queryString string, limit, offset int) (SearchResponse, error) {
	queryString = sanitizeQuery(queryString)
	if queryString == "" {
		return SearchResponse{Results: []Entry{}}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.topic, p.section, p.title, p.viewed_at, COUNT(*) OVER() AS total
		 FROM pages_fts f
		 JOIN pages p ON p.id = f.rowid
		 WHERE pages_fts MATCH ?
		 ORDER BY f.rank
		 LIMIT ? OFFSET ?`,
		queryString, limit, offset,
	)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("history search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	resp := SearchResponse{Results: []Entry{}}
	for rows.Next() {
		var e Entry
		var viewedAt int64
		var total uint64
		if err := rows.Scan(&e.ID, &e.Topic, &e.Section, &e.Title, &viewedAt, &total); err != nil {
			return SearchResponse{}, fmt.Errorf("scan history row: %w", err)
		}
		e.ViewedAt = time.Unix(viewedAt, 0)
		resp.Total = total
		resp.Results = append(resp.Results, e)
	}
	if err := rows.Err(); err != nil {
		return SearchResponse{}, fmt.Errorf("iterate history rows: %w", err)
	}
	return resp, nil
}

// Recent returns the most recently viewed pages, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, section, title, viewed_at
		 FROM pages ORDER BY viewed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var viewedAt int64
		if err := rows.Scan(&e.ID, &e.Topic, &e.Section, &e.Title, &viewedAt); err != nil {
			return nil, fmt.Errorf("scan recent row: %w", err)
		}
		e.ViewedAt = time.Unix(viewedAt, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent rows: %w", err)
	}
	return entries, nil
}

// sanitizeQuery rewrites free-form input into a safe FTS5 prefix query:
// non-word characters become spaces, bare AND/OR/NOT operators are dropped,
// and each remaining term is quoted with a prefix wildcard.
func sanitizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var terms []string
	for _, t := range strings.Fields(b.String()) {
		upper := strings.ToUpper(t)
		if upper == "AND" || upper == "OR" || upper == "NOT" {
			continue
		}
		terms = append(terms, `"`+t+`"`+"*")
	}
	return strings.Join(terms, " ")
}
