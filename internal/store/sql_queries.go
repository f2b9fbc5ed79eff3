package store

// Static SQL for the framework-owned tables. SQLite accepts $N positional
// placeholders natively, so these statements run unchanged on both backends.
const (
	createUser = `
		INSERT INTO users (login, password_hash)
		VALUES ($1, $2)
		RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `
		SELECT user_id, login, password_hash, created_at
		FROM users
		WHERE login = $1;`

	createToken = `
		INSERT INTO tokens (value, owner_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING token_id;`

	findTokenByValue = `
		SELECT token_id, value, owner_id, issued_at, expires_at
		FROM tokens
		WHERE value = $1;`

	deleteTokenByValue = `
		DELETE FROM tokens
		WHERE value = $1;`

	deleteExpiredTokens = `
		DELETE FROM tokens
		WHERE expires_at <= $1;`
)

// SQLite DDL for the framework tables. The Postgres equivalents live in the
// embedded goose migrations.
const (
	createUsersTableSQLite = `
		CREATE TABLE IF NOT EXISTS users (
			user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
			login         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`

	createTokensTableSQLite = `
		CREATE TABLE IF NOT EXISTS tokens (
			token_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			value      TEXT NOT NULL UNIQUE,
			owner_id   TEXT NOT NULL,
			issued_at  TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		);`
)
