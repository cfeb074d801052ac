// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and the SQL-backed
election store.

# Connections

Open accepts a database type and URL:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:election.db")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables and seeds the election row:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables.

# Tables

  - election: single row holding status, window, current round and running totals
  - voter: registry flags, delegate, last choice, delegation count
  - candidate: id, name, cumulative vote count
  - ballot: one row per (round, voter)
  - round_tally: candidate tallies frozen when a round closes

Timestamps are stored as Unix milliseconds so the same schema works on
PostgreSQL and SQLite.

# Store

Store implements election.Store on top of database/sql transactions:

	store := db.NewStore(conn)
	machine, err := election.New(store, adminID, election.SystemClock{}, logger)
*/
package db
