package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    bool
		wantErr bool
	}{
		{
			name: "row exists",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("abc").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "no rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("abc").WillReturnError(sql.ErrNoRows)
			},
			want: false,
		},
		{
			name: "query failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("abc").WillReturnError(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer conn.Close()
			dbx := sqlx.NewDb(conn, "sqlmock")

			tt.setup(mock)

			got, err := Exists(context.Background(), dbx, `SELECT EXISTS(SELECT 1 FROM credit_cards WHERE id = $1)`, "abc")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23514"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}
