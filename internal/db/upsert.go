package db

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// Entity is the declarative schema descriptor every synced type provides: the
// table it lives in, the unique key identifying a row across syncs, and the
// set of columns a re-observation is allowed to refresh. One generic engine
// consumes these descriptors instead of per-entity SQL strings.
type Entity interface {
	TableName() string
	ConflictKey() []string
	MutableColumns() []string
}

// Upsert inserts e or, when a row with the same conflict key already exists,
// refreshes its mutable columns in place. Running it twice with identical
// input leaves exactly one row; a changed mutable field updates that row
// rather than adding another.
func Upsert[T Entity](db *DB, e *T) error {
	desc := *e
	err := db.Clauses(clause.OnConflict{
		Columns:   conflictColumns(desc.ConflictKey()),
		DoUpdates: clause.AssignmentColumns(desc.MutableColumns()),
	}).Create(e).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", desc.TableName(), err)
	}
	return nil
}

// All returns every row of T in insertion order.
func All[T Entity](db *DB) ([]T, error) {
	var desc T
	var rows []T
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select %s: %w", desc.TableName(), err)
	}
	return rows, nil
}

// ByParent returns the rows of T whose parent column equals id, in insertion
// order. The column name always comes from a compile-time constant at the
// call site, never from input.
func ByParent[T Entity](db *DB, column string, id int64) ([]T, error) {
	var desc T
	var rows []T
	if err := db.Where(column+" = ?", id).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select %s by %s: %w", desc.TableName(), column, err)
	}
	return rows, nil
}

func conflictColumns(names []string) []clause.Column {
	cols := make([]clause.Column, len(names))
	for i, n := range names {
		cols[i] = clause.Column{Name: n}
	}
	return cols
}
