package testutil

import (
	"fmt"
	"path/filepath"
	"plottwisters/internal/db"
	"plottwisters/internal/models"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB returns a migrated SQLite database in the test's temp dir.
// It keeps a single open connection so concurrent transactions queue up
// instead of failing with SQLITE_BUSY.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	gdb, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return gdb
}

// CreateTestUser inserts a user with the given name and role "user".
func CreateTestUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "x",
		Role:     models.RoleUser,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestEnding inserts an alternate ending with score 0 for movieID.
func CreateTestEnding(t *testing.T, gdb *gorm.DB, author *models.User, movieID int) *models.AlternateEnding {
	t.Helper()

	ending := &models.AlternateEnding{
		TmdbMovieID: movieID,
		Title:       "What if the ship never sank",
		Content:     "Everyone makes it to New York.",
		AuthorID:    author.ID,
	}
	if err := gdb.Create(ending).Error; err != nil {
		t.Fatalf("Failed to create ending: %v", err)
	}
	return ending
}

// EndingScore reads the stored score of an ending.
func EndingScore(t *testing.T, gdb *gorm.DB, endingID string) int {
	t.Helper()

	var ending models.AlternateEnding
	if err := gdb.First(&ending, "id = ?", endingID).Error; err != nil {
		t.Fatalf("Failed to load ending %s: %v", endingID, err)
	}
	return ending.Score
}

// AfterNextVoteLookup runs fn once, inside the caller's transaction, right after the
// next SELECT on the votes table. It stands in for a second request by the same user
// landing between the read and the guarded write.
func AfterNextVoteLookup(t *testing.T, gdb *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()

	fired := false
	err := gdb.Callback().Query().After("gorm:query").Register("testutil:after_vote_lookup", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "votes" {
			return
		}
		fired = true

		inner := tx.Session(&gorm.Session{NewDB: true})
		// the lookup may have ended in ErrRecordNotFound, which must not block fn
		inner.Error = nil
		fn(inner)
	})
	if err != nil {
		t.Fatalf("Failed to register vote lookup callback: %v", err)
	}
}
