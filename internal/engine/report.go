package engine

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"time"
)

// Stats holds the status counts for one enrichment table.
type Stats struct {
	Table    string
	Total    int
	Found    int
	NotFound int
	Pending  int
	Errored  int
}

// Coverage is the FOUND share of the table, as a percentage.
func (s Stats) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Found) / float64(s.Total)
}

// StateStats is the per-state coverage across all tables.
type StateStats struct {
	State string
	Total int
	Found int
}

// Coverage is the FOUND share of the state, as a percentage.
func (s StateStats) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Found) / float64(s.Total)
}

// Report is a point-in-time snapshot of enrichment progress.
type Report struct {
	GeneratedAt time.Time
	Tables      []Stats
	States      []StateStats
}

// BuildReport queries every enrichment table for its status counts and the
// combined per-state coverage.
func BuildReport(ctx context.Context, database *sql.DB) (*Report, error) {
	rep := &Report{GeneratedAt: time.Now()}

	byState := map[string]*StateStats{}
	var stateOrder []string

	for _, t := range Tables {
		stats := Stats{Table: t.Name}
		rows, err := database.QueryContext(ctx,
			fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", t.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.Name, err)
		}
		for rows.Next() {
			var status string
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				rows.Close()
				return nil, err
			}
			stats.Total += n
			switch status {
			case "FOUND":
				stats.Found = n
			case "NOT_FOUND":
				stats.NotFound = n
			case "PENDING":
				stats.Pending = n
			case "ERROR":
				stats.Errored = n
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		rep.Tables = append(rep.Tables, stats)

		rows, err = database.QueryContext(ctx, fmt.Sprintf(`
			SELECT state_name, COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'FOUND')
			FROM %s GROUP BY state_name`, t.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s by state: %w", t.Name, err)
		}
		for rows.Next() {
			var state string
			var total, found int
			if err := rows.Scan(&state, &total, &found); err != nil {
				rows.Close()
				return nil, err
			}
			ss, ok := byState[state]
			if !ok {
				ss = &StateStats{State: state}
				byState[state] = ss
				stateOrder = append(stateOrder, state)
			}
			ss.Total += total
			ss.Found += found
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	for _, state := range stateOrder {
		rep.States = append(rep.States, *byState[state])
	}
	return rep, nil
}

// PrintText writes the report as a plain console summary.
func (r *Report) PrintText(w io.Writer) {
	fmt.Fprintf(w, "Wikipedia enrichment status (%s)\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "%-25s %9s %9s %10s %9s %8s %9s\n",
		"Table", "Total", "Found", "Not found", "Pending", "Error", "Coverage")
	for _, t := range r.Tables {
		fmt.Fprintf(w, "%-25s %9d %9d %10d %9d %8d %8.1f%%\n",
			t.Table, t.Total, t.Found, t.NotFound, t.Pending, t.Errored, t.Coverage())
	}
	fmt.Fprintf(w, "\n%-35s %9s %9s %9s\n", "State", "Total", "Found", "Coverage")
	for _, s := range r.States {
		fmt.Fprintf(w, "%-35s %9d %9d %8.1f%%\n", s.State, s.Total, s.Found, s.Coverage())
	}
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Wikipedia Enrichment Status</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child, th:first-child { text-align: left; }
.bar { background: #e8e8e8; width: 120px; height: 12px; display: inline-block; }
.bar span { background: #4caf50; height: 12px; display: block; }
.muted { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Wikipedia Enrichment Status</h1>
<p class="muted">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>

<table>
<tr><th>Table</th><th>Total</th><th>Found</th><th>Not found</th><th>Pending</th><th>Error</th><th>Coverage</th></tr>
{{range .Tables}}
<tr>
  <td>{{.Table}}</td><td>{{.Total}}</td><td>{{.Found}}</td>
  <td>{{.NotFound}}</td><td>{{.Pending}}</td><td>{{.Errored}}</td>
  <td>{{printf "%.1f%%" .Coverage}} <span class="bar"><span style="width:{{printf "%.0f" .Coverage}}%"></span></span></td>
</tr>
{{end}}
</table>

<table>
<tr><th>State</th><th>Total</th><th>Found</th><th>Coverage</th></tr>
{{range .States}}
<tr>
  <td>{{.State}}</td><td>{{.Total}}</td><td>{{.Found}}</td>
  <td>{{printf "%.1f%%" .Coverage}} <span class="bar"><span style="width:{{printf "%.0f" .Coverage}}%"></span></span></td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// RenderHTML writes the report as a standalone HTML dashboard.
func (r *Report) RenderHTML(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
