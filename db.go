package oledgen

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Conversion is one catalog entry describing a converted image.
type Conversion struct {
	Name      string
	Path      string
	CRC       string
	Width     int
	Height    int
	DataLen   int
	Header    string
	CreatedAt time.Time
}

// Catalog records every conversion in a sqlite database so batch runs
// can skip inputs that have not changed and users can list what has
// been generated. Conversion itself never requires it.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at file.
func OpenCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open catalog")
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, path TEXT NOT NULL, crc TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, data_len INTEGER NOT NULL, header TEXT NOT NULL, created_at TIMESTAMP NOT NULL)"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot create catalog schema")
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record inserts or replaces the entry for the conversion's name.
func (c *Catalog) Record(v Conversion) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO conversion (name, path, crc, width, height, data_len, header, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		v.Name, v.Path, v.CRC, v.Width, v.Height, v.DataLen, v.Header, v.CreatedAt); err != nil {
		return errors.Wrapf(err, "cannot record conversion %q", v.Name)
	}
	return nil
}

// FindByCRC returns the entry for a source fingerprint, or nil if the
// input has never been converted.
func (c *Catalog) FindByCRC(crc string) (*Conversion, error) {
	v := Conversion{CRC: crc}
	switch err := c.db.QueryRow("SELECT name, path, width, height, data_len, header, created_at FROM conversion WHERE crc = ?", crc).Scan(&v.Name, &v.Path, &v.Width, &v.Height, &v.DataLen, &v.Header, &v.CreatedAt); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &v, nil
	default:
		return nil, err
	}
}

// List returns every catalog entry in name order.
func (c *Catalog) List() ([]Conversion, error) {
	rows, err := c.db.Query("SELECT name, path, crc, width, height, data_len, header, created_at FROM conversion ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []Conversion
	for rows.Next() {
		var v Conversion
		if err := rows.Scan(&v.Name, &v.Path, &v.CRC, &v.Width, &v.Height, &v.DataLen, &v.Header, &v.CreatedAt); err != nil {
			return nil, err
		}
		conversions = append(conversions, v)
	}

	return conversions, rows.Err()
}
