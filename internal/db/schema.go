package db

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"strings"
)

var wikiTables = []string{
	"wikipedia_districts",
	"wikipedia_subdistricts",
	"wikipedia_villages",
	"wikipedia_ulbs",
}

const statusCheck = "CHECK (status IN ('PENDING', 'FOUND', 'NOT_FOUND', 'ERROR'))"

// Setup drops and recreates the wikipedia_* tables, then pre-populates them
// from the census source tables. It is destructive and requires the user to
// type YES on the given reader before anything is dropped.
func Setup(database *sql.DB, in io.Reader) error {
	fmt.Println("WARNING: this will DROP and recreate the following tables:")
	for _, t := range wikiTables {
		fmt.Printf("   - %s\n", t)
	}
	fmt.Println("   ALL existing Wikipedia data will be PERMANENTLY DELETED!")
	fmt.Print("\nType 'YES' to confirm and continue, or anything else to cancel: ")

	reader := bufio.NewReader(in)
	line, _ := reader.ReadString('\n')
	if strings.TrimSpace(line) != "YES" {
		fmt.Println("Cancelled. No tables were dropped.")
		return nil
	}

	fmt.Println("\nDropping existing Wikipedia tables...")
	for _, t := range wikiTables {
		if _, err := database.Exec("DROP TABLE IF EXISTS " + t); err != nil {
			return fmt.Errorf("failed to drop %s: %w", t, err)
		}
	}

	if err := CreateTables(database); err != nil {
		return err
	}

	return Prepopulate(database)
}

// CreateTables creates the four wikipedia_* tables if they do not exist.
func CreateTables(database *sql.DB) error {
	fmt.Println("Creating Wikipedia tables...")

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wikipedia_districts (
			id SERIAL PRIMARY KEY,
			district_code VARCHAR(10) UNIQUE,
			state_name VARCHAR(100),
			district_name VARCHAR(100),
			latitude DECIMAL(10,8),
			longitude DECIMAL(11,8),
			wiki_title VARCHAR(255),
			wiki_url VARCHAR(500),
			wiki_summary TEXT,
			wikidata_id VARCHAR(20),
			website_url VARCHAR(500),
			status VARCHAR(10) DEFAULT 'PENDING' ` + statusCheck + `,
			last_checked TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS wikipedia_subdistricts (
			id SERIAL PRIMARY KEY,
			subdistrict_code VARCHAR(10) UNIQUE,
			state_name VARCHAR(100),
			district_name VARCHAR(100),
			subdistrict_name VARCHAR(100),
			latitude DECIMAL(10,8),
			longitude DECIMAL(11,8),
			wiki_title VARCHAR(255),
			wiki_url VARCHAR(500),
			wiki_summary TEXT,
			wikidata_id VARCHAR(20),
			status VARCHAR(10) DEFAULT 'PENDING' ` + statusCheck + `,
			last_checked TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS wikipedia_villages (
			id SERIAL PRIMARY KEY,
			village_code VARCHAR(20) UNIQUE,
			state_name VARCHAR(100),
			district_name VARCHAR(100),
			subdistrict_name VARCHAR(100),
			village_name VARCHAR(100),
			pincode VARCHAR(20),
			latitude DECIMAL(10,8),
			longitude DECIMAL(11,8),
			wiki_title VARCHAR(255),
			wiki_url VARCHAR(500),
			wiki_summary TEXT,
			wikidata_id VARCHAR(20),
			status VARCHAR(10) DEFAULT 'PENDING' ` + statusCheck + `,
			last_checked TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS wikipedia_ulbs (
			id SERIAL PRIMARY KEY,
			ulb_code VARCHAR(20) UNIQUE,
			state_name VARCHAR(100),
			district_name VARCHAR(100),
			ulb_name VARCHAR(100),
			ulb_type VARCHAR(50),
			latitude DECIMAL(10,8),
			longitude DECIMAL(11,8),
			wiki_title VARCHAR(255),
			wiki_url VARCHAR(500),
			wiki_summary TEXT,
			wikidata_id VARCHAR(20),
			status VARCHAR(10) DEFAULT 'PENDING' ` + statusCheck + `,
			last_checked TIMESTAMPTZ DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	fmt.Println("Tables created successfully.")
	return nil
}

// Prepopulate copies rows from the authoritative census tables into the
// wikipedia_* tables, deduplicated by code. Existing rows are left alone.
func Prepopulate(database *sql.DB) error {
	fmt.Println("Pre-populating data...")

	steps := []struct {
		label string
		query string
	}{
		{"Districts", `
			INSERT INTO wikipedia_districts (district_code, state_name, district_name)
			SELECT d.district_code, s.state_name, d.district_name
			FROM census_2011_districts d
			JOIN census_2011_states s ON d.state_code = s.state_code
			ON CONFLICT (district_code) DO NOTHING`},
		{"Subdistricts", `
			INSERT INTO wikipedia_subdistricts (subdistrict_code, state_name, district_name, subdistrict_name)
			SELECT sd.subdistrict_code, s.state_name, d.district_name, sd.subdistrict_name
			FROM census_2011_subdistricts sd
			JOIN census_2011_states s ON sd.state_code = s.state_code
			JOIN census_2011_districts d ON sd.district_code = d.district_code
			ON CONFLICT (subdistrict_code) DO NOTHING`},
		{"ULBs (Towns)", `
			INSERT INTO wikipedia_ulbs (ulb_code, state_name, district_name, ulb_name, ulb_type)
			SELECT u.ulb_code, s.state_name, NULL, u.ulb_name, u.ulb_type
			FROM census_2011_ulbs u
			JOIN census_2011_states s ON u.state_code = s.state_code
			ON CONFLICT (ulb_code) DO NOTHING`},
		{"Villages (large batch, might take time)", `
			INSERT INTO wikipedia_villages (village_code, state_name, district_name, subdistrict_name, village_name, pincode, latitude, longitude)
			SELECT v.village_code, s.state_name, d.district_name, sd.subdistrict_name, v.village_name, v.pincode, v.latitude, v.longitude
			FROM census_2011_villages v
			JOIN census_2011_states s ON v.state_code = s.state_code
			JOIN census_2011_districts d ON v.district_code = d.district_code
			JOIN census_2011_subdistricts sd ON v.subdistrict_code = sd.subdistrict_code
			ON CONFLICT (village_code) DO NOTHING`},
	}

	for i, step := range steps {
		fmt.Printf("  %d. %s...\n", i+1, step.label)
		if _, err := database.Exec(step.query); err != nil {
			return fmt.Errorf("failed to pre-populate %s: %w", step.label, err)
		}
	}

	fmt.Println("Pre-population complete.")
	return nil
}
