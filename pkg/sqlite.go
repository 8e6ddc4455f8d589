package gainmap

import (
	"fmt"

	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const pixelsSchema = `CREATE TABLE IF NOT EXISTS pixels (
	run   INTEGER NOT NULL,
	x     INTEGER NOT NULL,
	y     INTEGER NOT NULL,
	mean  REAL NOT NULL,
	sigma REAL NOT NULL,
	nraw  REAL NOT NULL,
	npeak REAL NOT NULL,
	chi2  REAL NOT NULL,
	ndf   INTEGER NOT NULL,
	PRIMARY KEY (run, x, y)
)`

type PixelRow struct {
	Run   int     `db:"run"`
	X     int     `db:"x"`
	Y     int     `db:"y"`
	Mean  float64 `db:"mean"`
	Sigma float64 `db:"sigma"`
	NRaw  float64 `db:"nraw"`
	NPeak float64 `db:"npeak"`
	Chi2  float64 `db:"chi2"`
	Ndf   int     `db:"ndf"`
}

func OpenMapDatabase(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	if _, err := db.Exec(pixelsSchema); err != nil {
		db.Close()
		return nil, &ErrCreateTable{TableName: "pixels", Err: err}
	}
	return db, nil
}

// ExportMap replaces the rows of a run with the records of m.
func ExportMap(db *sqlx.DB, runNumber int, m CalibrationMap) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pixels WHERE run = ?", runNumber); err != nil {
		return fmt.Errorf("error deleting run %d: %w", runNumber, err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO pixels (run, x, y, mean, sigma, nraw, npeak, chi2, ndf)
		VALUES (:run, :x, :y, :mean, :sigma, :nraw, :npeak, :chi2, :ndf)`)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range m {
		row := PixelRow{
			Run:   runNumber,
			X:     r.X,
			Y:     r.Y,
			Mean:  r.Mean,
			Sigma: r.Width,
			NRaw:  float64(r.RawOccupancy),
			NPeak: float64(r.PeakOccupancy),
			Chi2:  r.ChiSquare,
			Ndf:   r.Ndf,
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("error inserting pixel (%d, %d): %w", r.X, r.Y, err)
		}
	}
	return tx.Commit()
}

func LoadMap(db *sqlx.DB, runNumber int) ([]PixelRow, error) {
	rows := []PixelRow{}
	err := db.Select(&rows, "SELECT run, x, y, mean, sigma, nraw, npeak, chi2, ndf FROM pixels WHERE run = ? ORDER BY x, y", runNumber)
	if err != nil {
		return nil, fmt.Errorf("error reading map of run %d: %w", runNumber, err)
	}
	return rows, nil
}
