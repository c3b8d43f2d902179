package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// RuleBasesDB is the rule base repository of a SQLite store.
type RuleBasesDB struct {
	db *sql.DB
}

func (repo *RuleBasesDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS rulebases (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		model TEXT NOT NULL,
		owner TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *RuleBasesDB) Create(ctx context.Context, rb dao.RuleBase) (dao.RuleBase, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.RuleBase{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO rulebases (id, name, source, model, owner, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.RuleBase{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), rb.Name, rb.Source, encodeModel(rb.Model), rb.Owner, now.Unix(), now.Unix())
	if err != nil {
		return dao.RuleBase{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RuleBasesDB) GetAll(ctx context.Context) ([]dao.RuleBase, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, source, model, owner, created, modified FROM rulebases ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.RuleBase

	for rows.Next() {
		rb, err := scanRuleBase(rows)
		if err != nil {
			return all, err
		}
		all = append(all, rb)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RuleBasesDB) Update(ctx context.Context, id uuid.UUID, rb dao.RuleBase) (dao.RuleBase, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE rulebases SET id=?, name=?, source=?, model=?, owner=?, modified=? WHERE id=?;`,
		rb.ID.String(),
		rb.Name,
		rb.Source,
		encodeModel(rb.Model),
		rb.Owner,
		time.Now().Unix(),
		id.String(),
	)
	if err != nil {
		return dao.RuleBase{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.RuleBase{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.RuleBase{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, rb.ID)
}

func (repo *RuleBasesDB) GetByID(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, model, owner, created, modified FROM rulebases WHERE id = ?;`,
		id.String(),
	)
	return scanRuleBase(row)
}

func (repo *RuleBasesDB) GetByName(ctx context.Context, name string) (dao.RuleBase, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, model, owner, created, modified FROM rulebases WHERE name = ?;`,
		name,
	)
	return scanRuleBase(row)
}

func (repo *RuleBasesDB) Delete(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM rulebases WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *RuleBasesDB) Close() error {
	return repo.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRuleBase(s scanner) (dao.RuleBase, error) {
	var rb dao.RuleBase
	var id string
	var model string
	var created int64
	var modified int64

	err := s.Scan(
		&id,
		&rb.Name,
		&rb.Source,
		&model,
		&rb.Owner,
		&created,
		&modified,
	)
	if err != nil {
		return rb, wrapDBError(err)
	}

	rb.ID, err = uuid.Parse(id)
	if err != nil {
		return rb, fmt.Errorf("stored UUID %q is invalid", id)
	}
	rb.Model, err = decodeModel(model)
	if err != nil {
		return rb, fmt.Errorf("stored model for %q is invalid: %w", rb.Name, err)
	}
	rb.Created = time.Unix(created, 0)
	rb.Modified = time.Unix(modified, 0)

	return rb, nil
}

func encodeModel(m fuzzy.Model) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(m))
}

func decodeModel(s string) (fuzzy.Model, error) {
	var m fuzzy.Model

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return m, err
	}

	_, err = rezi.DecBinary(data, &m)
	return m, err
}
