package gainmap

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type AdcCalibrationEntry struct {
	Channel   int     `db:"Channel"`
	Pedestal  float64 `db:"Pedestal"`
	PreScale  float64 `db:"PreScale"`
	PostScale float64 `db:"PostScale"`
}

// LoadRunConditions reads the readout channel constants valid for a run.
// Channels missing from the database keep the values of base.
func LoadRunConditions(db *sqlx.DB, runNumber int, base ChargeCalibration) (ChargeCalibration, error) {
	query := "SELECT Channel, Pedestal, PreScale, PostScale FROM AdcCalibration WHERE MinRun <= %d and MaxRun >= %d ORDER BY Channel"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading ADC calibration for run %d from database", runNumber)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		return base, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	calibration := base
	for rows.Next() {
		result := AdcCalibrationEntry{}
		if err := rows.StructScan(&result); err != nil {
			return base, fmt.Errorf("error scanning DB row: %w", err)
		}
		if result.Channel < 0 || result.Channel >= NADC {
			return base, fmt.Errorf("ADC channel %d out of range", result.Channel)
		}
		calibration.Pedestals[result.Channel] = result.Pedestal
		calibration.PreScale[result.Channel] = result.PreScale
		calibration.PostScale[result.Channel] = result.PostScale
	}
	if err := rows.Err(); err != nil {
		return base, fmt.Errorf("error reading DB rows: %w", err)
	}
	return calibration, nil
}
