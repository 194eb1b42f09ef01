// Package store holds all SQL against the Postgres schema. Methods that must
// participate in a caller-managed transaction take a sqlx.ExtContext, which
// both *sqlx.DB and *sqlx.Tx satisfy.
package store

import "github.com/jmoiron/sqlx"

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}
