package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "001_configs",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS user_configs (
					user_id BIGINT PRIMARY KEY,
					strategy TEXT NOT NULL,
					model TEXT NOT NULL DEFAULT '',
					custom_prompt TEXT NOT NULL DEFAULT ''
				);`, `
				CREATE TABLE IF NOT EXISTS group_configs (
					group_id BIGINT PRIMARY KEY,
					strategy TEXT NOT NULL,
					model TEXT NOT NULL DEFAULT '',
					custom_prompt TEXT NOT NULL DEFAULT ''
				);`,
			},
			Down: []string{
				`DROP TABLE group_configs;`,
				`DROP TABLE user_configs;`,
			},
		},
		{
			Id: "002_students",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS students (
					student_id BIGINT PRIMARY KEY,
					name TEXT NOT NULL,
					platform_id BIGINT NOT NULL DEFAULT 0
				);`, `
				CREATE TABLE IF NOT EXISTS grades (
					id BIGSERIAL PRIMARY KEY,
					student_id BIGINT NOT NULL REFERENCES students (student_id),
					exam_name TEXT NOT NULL,
					score INT NOT NULL
				);`,
			},
			Down: []string{
				`DROP TABLE grades;`,
				`DROP TABLE students;`,
			},
		},
	},
}

func NewPostgres(url string) (*sql.DB, error) {
	db := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	if n > 0 {
		slog.Info("applied migrations", "count", n)
	}

	return db, nil
}
