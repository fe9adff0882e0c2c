// Package catalog records scanned maps and textures in a SQLite database.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pg9182/srcasset/bsp"
	"github.com/pg9182/srcasset/internal/lumparchive"
	"github.com/pg9182/srcasset/vtf"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS maps (
	path     TEXT PRIMARY KEY,
	size     INTEGER NOT NULL,
	version  INTEGER NOT NULL,
	revision INTEGER NOT NULL,
	entities INTEGER NOT NULL,
	xxhash   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS textures (
	path    TEXT PRIMARY KEY,
	size    INTEGER NOT NULL,
	version TEXT NOT NULL,
	width   INTEGER NOT NULL,
	height  INTEGER NOT NULL,
	format  TEXT NOT NULL,
	flags   INTEGER NOT NULL,
	mips    INTEGER NOT NULL,
	frames  INTEGER NOT NULL,
	error   TEXT
);
`

// Catalog is an open catalog database.
type Catalog struct {
	db *sql.DB
}

// Map is a row of the maps table.
type Map struct {
	Path     string
	Size     int64
	Version  int32
	Revision int32
	Entities int
	XXHash   string
}

// Texture is a row of the textures table. Error is set if the mip table could
// not be computed.
type Texture struct {
	Path    string
	Size    int64
	Version string
	Width   int
	Height  int
	Format  string
	Flags   uint32
	Mips    int
	Frames  int
	Error   string
}

// Open opens or creates the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// AddMap records b, replacing any existing entry for path. The entity count is
// zero if the entities lump cannot be parsed.
func (c *Catalog) AddMap(path string, b *bsp.BSP) (Map, error) {
	m := Map{
		Path:     path,
		Size:     int64(b.Size()),
		Version:  b.Header.Version,
		Revision: b.Header.MapRevision,
	}
	if ents, err := b.Entities(); err == nil {
		m.Entities = len(ents)
	}
	ent, err := b.Lump(bsp.LumpEntities)
	if err != nil {
		return m, err
	}
	m.XXHash = lumparchive.Digest(ent)

	if _, err := c.db.Exec(`INSERT OR REPLACE INTO maps (path, size, version, revision, entities, xxhash) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Path, m.Size, m.Version, m.Revision, m.Entities, m.XXHash); err != nil {
		return m, fmt.Errorf("insert map %q: %w", path, err)
	}
	return m, nil
}

// AddTexture records v, replacing any existing entry for path.
func (c *Catalog) AddTexture(path string, v *vtf.VTF) (Texture, error) {
	x := Texture{
		Path:    path,
		Size:    int64(v.Size()),
		Version: v.Header.Version().String(),
		Width:   int(v.Header.Width),
		Height:  int(v.Header.Height),
		Format:  v.Header.HighResFormat.String(),
		Flags:   v.Header.Flags,
		Frames:  int(v.Header.Frames),
	}
	if mips, err := v.Mips(); err != nil {
		x.Error = err.Error()
	} else {
		x.Mips = len(mips)
	}

	var errCol sql.NullString
	if x.Error != "" {
		errCol = sql.NullString{String: x.Error, Valid: true}
	}
	if _, err := c.db.Exec(`INSERT OR REPLACE INTO textures (path, size, version, width, height, format, flags, mips, frames, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		x.Path, x.Size, x.Version, x.Width, x.Height, x.Format, int64(x.Flags), x.Mips, x.Frames, errCol); err != nil {
		return x, fmt.Errorf("insert texture %q: %w", path, err)
	}
	return x, nil
}

// Maps lists the maps whose path matches the LIKE pattern, sorted by path. An
// empty pattern matches everything.
func (c *Catalog) Maps(pattern string) ([]Map, error) {
	if pattern == "" {
		pattern = "%"
	}
	rows, err := c.db.Query(`SELECT path, size, version, revision, entities, xxhash FROM maps WHERE path LIKE ? ORDER BY path`, pattern)
	if err != nil {
		return nil, fmt.Errorf("query maps: %w", err)
	}
	defer rows.Close()

	var ms []Map
	for rows.Next() {
		var m Map
		if err := rows.Scan(&m.Path, &m.Size, &m.Version, &m.Revision, &m.Entities, &m.XXHash); err != nil {
			return nil, fmt.Errorf("scan map: %w", err)
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

// Textures lists the textures whose path matches the LIKE pattern, sorted by
// path. An empty pattern matches everything.
func (c *Catalog) Textures(pattern string) ([]Texture, error) {
	if pattern == "" {
		pattern = "%"
	}
	rows, err := c.db.Query(`SELECT path, size, version, width, height, format, flags, mips, frames, error FROM textures WHERE path LIKE ? ORDER BY path`, pattern)
	if err != nil {
		return nil, fmt.Errorf("query textures: %w", err)
	}
	defer rows.Close()

	var xs []Texture
	for rows.Next() {
		var (
			x      Texture
			flags  int64
			errCol sql.NullString
		)
		if err := rows.Scan(&x.Path, &x.Size, &x.Version, &x.Width, &x.Height, &x.Format, &flags, &x.Mips, &x.Frames, &errCol); err != nil {
			return nil, fmt.Errorf("scan texture: %w", err)
		}
		x.Flags, x.Error = uint32(flags), errCol.String
		xs = append(xs, x)
	}
	return xs, rows.Err()
}

// Remove deletes the entries for path from both tables. It is not an error if
// there are none.
func (c *Catalog) Remove(path string) error {
	_, err1 := c.db.Exec(`DELETE FROM maps WHERE path = ?`, path)
	_, err2 := c.db.Exec(`DELETE FROM textures WHERE path = ?`, path)
	return errors.Join(err1, err2)
}
