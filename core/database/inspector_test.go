package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "VARCHAR(64)", "NO", "PRI", nil, "").
		AddRow("Name", "TEXT", "YES", "", nil, "").
		AddRow("Latitude", "DOUBLE", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `devices`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "devices")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	// Field and type strings are normalized to lowercase
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "varchar(64)", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "double", colMap["latitude"])

	assert.True(t, HasColumn(columns, "latitude"))
	assert.True(t, HasColumn(columns, "Latitude"))
	assert.False(t, HasColumn(columns, "folderid"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_Error(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `missing`").WillReturnError(assert.AnError)

	columns, err := GetTableColumns(db, "missing")
	assert.Error(t, err)
	assert.Nil(t, columns)
}
