package handlers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/notify"
)

// one registration per test process
var testMetrics = metrics.NewCollector("handlers_test")

// newMockDB opens a GORM connection backed by sqlmock so handler SQL
// can be asserted without a live MySQL.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening gorm: %v", err)
	}
	return gdb, mock
}

func newTestNotifier(db *gorm.DB) *notify.Notifier {
	return notify.NewNotifier(db, &config.Config{}, zap.NewNop())
}
