package postgres

import "embed"

// Migrations holds the golang-migrate SQL files for this schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files.
const MigrationsDir = "migrations"
