package endpoints

import (
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/server"
)

// NewMockTestServer creates a server instance with a mocked database for
// unit testing. Returns the server, sqlmock instance, and any error.
func NewMockTestServer() (*server.Server, sqlmock.Sqlmock, error) {
	mockDB, err := NewMockDB()
	if err != nil {
		return nil, nil, err
	}

	store := analyzer.NewGormStore(mockDB.GormDB)
	a := analyzer.New(store, nil)
	cfg := &config.Config{
		SyncTimeoutSeconds:      300,
		APIResourceListLimitMax: 1000,
	}

	s := server.NewServer(store, a, mockDB.GormDB, cfg, "127.0.0.1", "0")
	RegisterAll(s)

	return s, mockDB.Mock, nil
}

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB() (*MockDB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &MockDB{
		DB:     db,
		Mock:   mock,
		GormDB: gormDB,
	}, nil
}

// Close closes the mock database
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectAccountQuery sets up expectation for an account lookup
func (m *MockDB) ExpectAccountQuery(accountID, accountName, roleArn, rolesJSON string) {
	rows := sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}).
		AddRow(accountID, accountName, roleArn, rolesJSON)
	m.Mock.ExpectQuery(`SELECT .* FROM "accounts"`).WillReturnRows(rows)
}

// ExpectAccountNotFound sets up expectation for an absent account
func (m *MockDB) ExpectAccountNotFound() {
	m.Mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}))
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}
