package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opaldb/opal/access"
	"github.com/opaldb/opal/parquetio"
	"github.com/opaldb/opal/tablestore"
)

type (
	Opal struct {
		TableStore *tablestore.MemTableStore
	}
)

func NewOpal() (*Opal, error) {
	ts := tablestore.NewMemTableStore()
	access.SetDefaultTableStore(ts)
	return &Opal{
		TableStore: ts,
	}, nil
}

// LoadDataDir loads every `*.parquet` snapshot in dir into the table store,
// each file becomes a table named after the file.
func (o *Opal) LoadDataDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading data dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".parquet") {
			continue
		}
		tableName := strings.TrimSuffix(entry.Name(), ".parquet")
		table, err := parquetio.LoadTableSnapshot(filepath.Join(dir, entry.Name()), tableName)
		if err != nil {
			return fmt.Errorf("error loading snapshot '%s': %w", entry.Name(), err)
		}
		if err := o.TableStore.PutTable(ctx, table, true); err != nil {
			return fmt.Errorf("error registering table '%s': %w", tableName, err)
		}
		logger.Info().Str("table", tableName).Uint64("rows", table.RowCount()).Msg("loaded table")
	}
	return nil
}

// SnapshotTables writes every registered table to dir as a parquet snapshot.
func (o *Opal) SnapshotTables(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating data dir: %w", err)
	}
	names, err := o.TableStore.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("error listing tables: %w", err)
	}
	for _, name := range names {
		table, err := o.TableStore.GetTable(ctx, name)
		if err != nil {
			return fmt.Errorf("error getting table '%s': %w", name, err)
		}
		if err := parquetio.WriteTableSnapshot(table, filepath.Join(dir, name+".parquet")); err != nil {
			return fmt.Errorf("error writing snapshot for '%s': %w", name, err)
		}
	}
	return nil
}
