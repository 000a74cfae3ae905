package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"tycoonhub/pkg/models"
)

// SQLiteStore keeps the catalog in the games table. Put replaces the table
// contents in one transaction; Get returns rows in insertion order so the
// scraper's ordering policy survives a round trip.
//
// It doubles as the query backend for the HTTP API (List/Count/GetByID).
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

const gameColumns = `id, title, description, platforms, genres, release_date, price, rating, features, tags`

func (s *SQLiteStore) Get(ctx context.Context) ([]models.Game, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer rows.Close()

	out := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Put(ctx context.Context, games []models.Game) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		platforms, genres, features, tags, err := marshalLists(g)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			g.ID, g.Title, g.Description, platforms, genres,
			g.ReleaseDate, g.Price, g.Rating, features, tags,
		); err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type ListQuery struct {
	Q      string   // keyword search in title/description
	Genres []string // any-match
	Type   string   // "free" | "paid" | ""
	Limit  int
	Offset int
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Game, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = ?
	`, id)

	g, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *SQLiteStore) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := s.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) List(ctx context.Context, q ListQuery) ([]models.Game, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := s.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. The genre filter
// is any-match with LIKE searches inside the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + gameColumns + ` FROM games`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM games`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	switch strings.ToLower(strings.TrimSpace(q.Type)) {
	case "free":
		where = append(where, "price = 0")
	case "paid":
		where = append(where, "price > 0")
	}

	if len(q.Genres) > 0 {
		var genreOr []string
		for _, g := range q.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreOr = append(genreOr, "LOWER(genres) LIKE ?")
			args = append(args, `%`+strings.ToLower(g)+`%`)
		}
		if len(genreOr) > 0 {
			where = append(where, "("+strings.Join(genreOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY rowid"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (models.Game, error) {
	var (
		g           models.Game
		description sql.NullString
		platforms   string
		genres      string
		releaseDate sql.NullString
		features    string
		tags        string
	)

	if err := row.Scan(
		&g.ID, &g.Title, &description, &platforms, &genres,
		&releaseDate, &g.Price, &g.Rating, &features, &tags,
	); err != nil {
		if err == sql.ErrNoRows {
			return g, err
		}
		return g, fmt.Errorf("scan game: %w", err)
	}

	g.Description = description.String
	g.ReleaseDate = releaseDate.String
	g.Platforms = unmarshalList(platforms)
	g.Genres = unmarshalList(genres)
	g.Features = unmarshalList(features)
	g.Tags = unmarshalList(tags)
	return g, nil
}

func marshalLists(g models.Game) (platforms, genres, features, tags string, err error) {
	for _, item := range []struct {
		name string
		list []string
		dst  *string
	}{
		{"platforms", g.Platforms, &platforms},
		{"genres", g.Genres, &genres},
		{"features", g.Features, &features},
		{"tags", g.Tags, &tags},
	} {
		list := item.list
		if list == nil {
			list = []string{}
		}
		b, merr := json.Marshal(list)
		if merr != nil {
			return "", "", "", "", fmt.Errorf("marshal %s for %s: %w", item.name, g.ID, merr)
		}
		*item.dst = string(b)
	}
	return platforms, genres, features, tags, nil
}

func unmarshalList(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}
