package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/models"
)

// EnsureEntityTables creates one table per registered entity descriptor,
// mirroring a declarative "create all" step: CREATE TABLE IF NOT EXISTS with
// a server-assigned integer primary key and one column per declared field.
// It runs once at startup, before the transport starts accepting traffic.
func (db *DB) EnsureEntityTables(ctx context.Context, entities ...models.Entity) error {
	log := logger.FromContext(ctx)

	for _, entity := range entities {
		ddl, err := buildEntityDDL(db.dialect, entity)
		if err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx, ddl); err != nil {
			log.Err(err).Str("entity", entity.Name).Msg("error creating entity table")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		log.Debug().Str("entity", entity.Name).Msg("entity table ready")
	}

	return nil
}

func buildEntityDDL(dialect Dialect, entity models.Entity) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", entity.Name)

	if dialect == DialectPostgres {
		fmt.Fprintf(&b, "\t%s BIGSERIAL PRIMARY KEY", entity.PrimaryKey)
	} else {
		fmt.Fprintf(&b, "\t%s INTEGER PRIMARY KEY AUTOINCREMENT", entity.PrimaryKey)
	}

	for _, field := range entity.Fields {
		columnType, err := columnType(dialect, field.Type)
		if err != nil {
			return "", fmt.Errorf("entity %q, field %q: %w", entity.Name, field.Name, err)
		}
		fmt.Fprintf(&b, ",\n\t%s %s", field.Name, columnType)
	}

	b.WriteString("\n);")

	return b.String(), nil
}

func columnType(dialect Dialect, t models.FieldType) (string, error) {
	switch t {
	case models.Integer:
		if dialect == DialectPostgres {
			return "BIGINT", nil
		}
		return "INTEGER", nil
	case models.Float:
		if dialect == DialectPostgres {
			return "DOUBLE PRECISION", nil
		}
		return "REAL", nil
	case models.Text:
		return "TEXT", nil
	case models.Boolean:
		return "BOOLEAN", nil
	case models.Timestamp:
		if dialect == DialectPostgres {
			return "TIMESTAMPTZ", nil
		}
		return "TIMESTAMP", nil
	}

	return "", fmt.Errorf("%w: %q", models.ErrUnknownFieldType, t)
}
