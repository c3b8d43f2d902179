// Package sqlite provides a dao.Store backed by SQLite database files on
// disk.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/frbs/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	ruleBases *RuleBasesDB
}

// NewDatastore opens (creating if needed) the registry database in
// storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "rulebases.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.ruleBases = &RuleBasesDB{db: st.db}
	if err := st.ruleBases.init(); err != nil {
		st.db.Close()
		return nil, err
	}

	return st, nil
}

func (s *store) RuleBases() dao.RuleBaseRepository {
	return s.ruleBases
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

const sqliteConstraint = 19

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// extended result codes keep the primary code in the low byte
		if sqliteErr.Code()&0xff == sqliteConstraint {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
