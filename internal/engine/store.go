package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/censusindia/wikimatch/internal/match"
)

// Table describes the shape of one wikipedia_* table: its code and name
// columns and which optional hierarchy columns it carries.
type Table struct {
	Name    string
	CodeCol string
	NameCol string

	HasDistrict    bool
	HasSubdistrict bool
	HasType        bool
	HasWebsite     bool
}

// Tables lists every enrichment table, in report order.
var Tables = []Table{
	{Name: "wikipedia_districts", CodeCol: "district_code", NameCol: "district_name", HasWebsite: true},
	{Name: "wikipedia_subdistricts", CodeCol: "subdistrict_code", NameCol: "subdistrict_name", HasDistrict: true},
	{Name: "wikipedia_ulbs", CodeCol: "ulb_code", NameCol: "ulb_name", HasDistrict: true, HasType: true},
	{Name: "wikipedia_villages", CodeCol: "village_code", NameCol: "village_name", HasDistrict: true, HasSubdistrict: true},
}

// TableForKind maps an entity kind name to its table.
func TableForKind(kind string) (Table, error) {
	switch kind {
	case "district":
		return Tables[0], nil
	case "subdistrict":
		return Tables[1], nil
	case "ulb":
		return Tables[2], nil
	case "village":
		return Tables[3], nil
	}
	return Table{}, fmt.Errorf("no table for kind %q", kind)
}

// Store reads and updates rows of one enrichment table.
type Store struct {
	DB    *sql.DB
	Table Table
}

// selectCols builds the column list for record fetches. Missing hierarchy
// columns are selected as empty strings so every table scans the same way.
func (s *Store) selectCols() string {
	t := s.Table
	cols := []string{t.CodeCol, t.NameCol, "state_name"}
	if t.HasDistrict {
		cols = append(cols, "COALESCE(district_name, '')")
	} else {
		cols = append(cols, "''")
	}
	if t.HasSubdistrict {
		cols = append(cols, "COALESCE(subdistrict_name, '')")
	} else {
		cols = append(cols, "''")
	}
	if t.HasType {
		cols = append(cols, "COALESCE(ulb_type, '')")
	} else {
		cols = append(cols, "''")
	}
	cols = append(cols, "latitude", "longitude")
	return strings.Join(cols, ", ")
}

func (s *Store) scanRecords(rows *sql.Rows) ([]match.Record, error) {
	var records []match.Record
	for rows.Next() {
		var rec match.Record
		var lat, lon sql.NullFloat64
		err := rows.Scan(&rec.Code, &rec.Name, &rec.State,
			&rec.District, &rec.Subdistrict, &rec.TypeHint, &lat, &lon)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.Table.Name, err)
		}
		if lat.Valid {
			rec.Latitude = &lat.Float64
		}
		if lon.Valid {
			rec.Longitude = &lon.Float64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FetchByStatus returns records in any of the given statuses, ordered by
// state then name so progress output reads naturally. A positive limit caps
// the batch; skipStates excludes whole states (case-insensitive).
func (s *Store) FetchByStatus(ctx context.Context, statuses []match.Status, limit int, skipStates []string) ([]match.Record, error) {
	var args []interface{}
	var in []string
	for _, st := range statuses {
		args = append(args, string(st))
		in = append(in, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE status IN (%s)",
		s.selectCols(), s.Table.Name, strings.Join(in, ", "))
	for _, state := range skipStates {
		args = append(args, strings.ToLower(state))
		query += fmt.Sprintf(" AND LOWER(state_name) != $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY state_name, %s", s.Table.NameCol)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", s.Table.Name, err)
	}
	defer rows.Close()
	return s.scanRecords(rows)
}

// FetchPending returns PENDING records.
func (s *Store) FetchPending(ctx context.Context, limit int, skipStates []string) ([]match.Record, error) {
	return s.FetchByStatus(ctx, []match.Status{match.StatusPending}, limit, skipStates)
}

// FetchUnlinked returns records without a Wikidata item, optionally limited
// to one state.
func (s *Store) FetchUnlinked(ctx context.Context, state string) ([]match.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE wikidata_id IS NULL",
		s.selectCols(), s.Table.Name)
	var args []interface{}
	if state != "" {
		args = append(args, state)
		query += " AND state_name = $1"
	}
	query += fmt.Sprintf(" ORDER BY state_name, %s", s.Table.NameCol)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", s.Table.Name, err)
	}
	defer rows.Close()
	return s.scanRecords(rows)
}

// States returns the distinct state names present in the table.
func (s *Store) States(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT state_name FROM %s ORDER BY state_name", s.Table.Name)
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list states in %s: %w", s.Table.Name, err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// Apply persists a match outcome. FOUND writes the page and coordinates;
// every status refreshes last_checked. Known coordinates are never cleared.
func (s *Store) Apply(ctx context.Context, code string, out match.Outcome) error {
	if out.Status == match.StatusFound && out.Page != nil {
		query := fmt.Sprintf(`
			UPDATE %s
			SET wiki_title = $1, wiki_url = $2, wiki_summary = $3,
			    latitude = COALESCE($4, latitude),
			    longitude = COALESCE($5, longitude),
			    status = $6, last_checked = now()
			WHERE %s = $7`, s.Table.Name, s.Table.CodeCol)
		_, err := s.DB.ExecContext(ctx, query,
			out.Page.Title, out.Page.URL, out.Page.Summary,
			out.Latitude, out.Longitude, string(out.Status), code)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", s.Table.Name, err)
		}
		return nil
	}

	query := fmt.Sprintf(
		"UPDATE %s SET status = $1, last_checked = now() WHERE %s = $2",
		s.Table.Name, s.Table.CodeCol)
	if _, err := s.DB.ExecContext(ctx, query, string(out.Status), code); err != nil {
		return fmt.Errorf("failed to update %s: %w", s.Table.Name, err)
	}
	return nil
}

// LinkWikidata stores a Wikidata item against a record, filling coordinates
// only where they are missing.
func (s *Store) LinkWikidata(ctx context.Context, code string, e *match.Entry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET wikidata_id = $1,
		    latitude = COALESCE(latitude, $2),
		    longitude = COALESCE(longitude, $3),
		    last_checked = now()
		WHERE %s = $4`, s.Table.Name, s.Table.CodeCol)
	_, err := s.DB.ExecContext(ctx, query, e.QID, e.Latitude, e.Longitude, code)
	if err != nil {
		return fmt.Errorf("failed to link %s: %w", s.Table.Name, err)
	}
	return nil
}

// SetWikidataID stores just the item identifier.
func (s *Store) SetWikidataID(ctx context.Context, code, qid string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET wikidata_id = $1, last_checked = now() WHERE %s = $2",
		s.Table.Name, s.Table.CodeCol)
	if _, err := s.DB.ExecContext(ctx, query, qid, code); err != nil {
		return fmt.Errorf("failed to update %s: %w", s.Table.Name, err)
	}
	return nil
}

// SetWebsite stores the official website URL for tables that carry one.
func (s *Store) SetWebsite(ctx context.Context, code, url string) error {
	if !s.Table.HasWebsite {
		return fmt.Errorf("%s has no website column", s.Table.Name)
	}
	query := fmt.Sprintf(
		"UPDATE %s SET website_url = $1 WHERE %s = $2",
		s.Table.Name, s.Table.CodeCol)
	if _, err := s.DB.ExecContext(ctx, query, url, code); err != nil {
		return fmt.Errorf("failed to update %s: %w", s.Table.Name, err)
	}
	return nil
}
