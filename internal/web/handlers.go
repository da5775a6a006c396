package web

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/censusindia/wikimatch/internal/engine"
)

// TableStats is the per-table slice of the stats response.
type TableStats struct {
	Table    string  `json:"table"`
	Total    int     `json:"total"`
	Found    int     `json:"found"`
	NotFound int     `json:"not_found"`
	Pending  int     `json:"pending"`
	Errored  int     `json:"error"`
	Coverage float64 `json:"coverage"`
}

// StateStats is the per-state slice of the stats response.
type StateStats struct {
	State    string  `json:"state"`
	Total    int     `json:"total"`
	Found    int     `json:"found"`
	Coverage float64 `json:"coverage"`
}

// StatsResponse is the full /api/stats payload.
type StatsResponse struct {
	GeneratedAt string       `json:"generated_at"`
	Tables      []TableStats `json:"tables"`
	States      []StateStats `json:"states"`
}

// RecordResponse is one row of the /api/records payload.
type RecordResponse struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Status    string  `json:"status"`
	WikiTitle *string `json:"wiki_title,omitempty"`
	WikiURL   *string `json:"wiki_url,omitempty"`
	Wikidata  *string `json:"wikidata_id,omitempty"`
}

// handleStats returns the current enrichment statistics as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := engine.BuildReport(r.Context(), s.db)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")}
	for _, t := range report.Tables {
		resp.Tables = append(resp.Tables, TableStats{
			Table: t.Table, Total: t.Total, Found: t.Found,
			NotFound: t.NotFound, Pending: t.Pending, Errored: t.Errored,
			Coverage: t.Coverage(),
		})
	}
	for _, st := range report.States {
		resp.States = append(resp.States, StateStats{
			State: st.State, Total: st.Total, Found: st.Found,
			Coverage: st.Coverage(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleRecords lists rows of one enrichment table, with optional ?status=
// and ?limit= filters.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	table, err := engine.TableForKind(mux.Vars(r)["kind"])
	if err != nil {
		http.Error(w, "Unknown kind", http.StatusNotFound)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, state_name, status, wiki_title, wiki_url, wikidata_id
		FROM %s`, table.CodeCol, table.NameCol, table.Name)
	var args []interface{}
	if status := r.URL.Query().Get("status"); status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY state_name, %s LIMIT $%d", table.NameCol, len(args))

	rows, err := s.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	records := []RecordResponse{}
	for rows.Next() {
		var rec RecordResponse
		var title, url, qid sql.NullString
		if err := rows.Scan(&rec.Code, &rec.Name, &rec.State, &rec.Status, &title, &url, &qid); err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if title.Valid {
			rec.WikiTitle = &title.String
		}
		if url.Valid {
			rec.WikiURL = &url.String
		}
		if qid.Valid {
			rec.Wikidata = &qid.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
