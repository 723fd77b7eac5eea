package adapters

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func Test_Adapters_SatisfyDBAdapter(t *testing.T) {
	var _ DBAdapter = NewPGXAdapter(&pgxpool.Pool{})
	var _ DBAdapter = NewSQLAdapter(&sql.DB{})
	var _ DBAdapter = NewSQLXAdapter(&sqlx.DB{})
	var _ DBRows = (*sql.Rows)(nil)
	var _ DBRows = pgxRows{}
	var _ DBResult = pgxResult{}

	assert.NotNil(t, NewSQLXAdapter(sqlx.NewDb(&sql.DB{}, "postgres")).conn)
}
