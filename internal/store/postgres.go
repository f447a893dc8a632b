package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mel-koku/koku-locations/internal/location"
)

// DefaultPageSize is the FetchAll page size.
const DefaultPageSize = 1000

const recordColumns = `id, name, city, prefecture, region, category,
	latitude, longitude, place_id, description, short_description,
	rating, image, city_original`

// Postgres is the lib/pq-backed Store implementation.
type Postgres struct {
	db       *sql.DB
	table    string
	pageSize int
	log      zerolog.Logger
}

// NewPostgres creates a store over an open connection. A pageSize of zero
// falls back to DefaultPageSize.
func NewPostgres(db *sql.DB, table string, pageSize int, log zerolog.Logger) *Postgres {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Postgres{db: db, table: table, pageSize: pageSize, log: log}
}

// FetchAll pages through the whole table ordered by name, terminating when a
// page comes back short. Any failed page aborts the read with a fatal error.
func (p *Postgres) FetchAll(ctx context.Context) ([]location.Record, error) {
	var records []location.Record

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name LIMIT $1 OFFSET $2`, recordColumns, p.table)

	for offset := 0; ; offset += p.pageSize {
		page, err := p.fetchPage(ctx, query, offset)
		if err != nil {
			return nil, &Error{Kind: KindRead, Err: err}
		}
		records = append(records, page...)

		p.log.Debug().Int("offset", offset).Int("rows", len(page)).Msg("fetched page")

		if len(page) < p.pageSize {
			break
		}
	}

	p.log.Info().Int("records", len(records)).Str("table", p.table).Msg("snapshot loaded")
	return records, nil
}

func (p *Postgres) fetchPage(ctx context.Context, query string, offset int) ([]location.Record, error) {
	rows, err := p.db.QueryContext(ctx, query, p.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("page query at offset %d: %w", offset, err)
	}
	defer rows.Close()

	var page []location.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan at offset %d: %w", offset, err)
		}
		page = append(page, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration at offset %d: %w", offset, err)
	}

	return page, nil
}

func scanRecord(rows *sql.Rows) (location.Record, error) {
	var rec location.Record
	var (
		city, prefecture, region, category sql.NullString
		placeID, description, shortDesc    sql.NullString
		image, cityOriginal                sql.NullString
		lat, lng, rating                   sql.NullFloat64
	)

	err := rows.Scan(&rec.ID, &rec.Name, &city, &prefecture, &region, &category,
		&lat, &lng, &placeID, &description, &shortDesc, &rating, &image, &cityOriginal)
	if err != nil {
		return rec, err
	}

	rec.City = nullStr(city)
	rec.Prefecture = nullStr(prefecture)
	rec.Region = nullStr(region)
	rec.Category = nullStr(category)
	rec.PlaceID = nullStr(placeID)
	rec.Description = nullStr(description)
	rec.ShortDescription = nullStr(shortDesc)
	rec.Image = nullStr(image)
	rec.CityOriginal = nullStr(cityOriginal)
	if rating.Valid {
		rec.Rating = &rating.Float64
	}
	if lat.Valid && lng.Valid {
		rec.Coordinates = &location.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}

	return rec, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Update applies a partial update to a single record. Column order is fixed
// by sorting the field names so generated SQL is deterministic.
func (p *Postgres) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = $%d", name, i+1)
		args = append(args, fields[name])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		p.table, strings.Join(sets, ", "), len(names)+1)

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &Error{Kind: KindRecord, ID: id, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Kind: KindRecord, ID: id, Err: sql.ErrNoRows}
	}

	return nil
}

// Delete removes a single record.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", p.table)

	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return &Error{Kind: KindRecord, ID: id, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Kind: KindRecord, ID: id, Err: sql.ErrNoRows}
	}

	p.log.Debug().Str("id", id).Msg("deleted record")
	return nil
}
