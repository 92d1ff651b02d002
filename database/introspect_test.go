package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDescribeTables(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`information_schema\.columns`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "nullable", "is_pk"}).
			AddRow("name_index", "Nrnum", "bigint", false, true).
			AddRow("name_index", "EngName", "text", true, false).
			AddRow("stock_data", "Nrnum", "bigint", false, true).
			AddRow("stock_data", "Date", "date", false, true).
			AddRow("stock_data", "Price", "numeric", true, false),
	)

	tables, err := db.DescribeTables(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}

	stock := tables["stock_data"]
	if len(stock) != 3 {
		t.Fatalf("expected 3 stock_data columns, got %d", len(stock))
	}
	if stock[0].Field != "Nrnum" || !stock[0].PrimaryKey || stock[0].Nullable {
		t.Errorf("unexpected first column: %+v", stock[0])
	}
	if stock[2].Field != "Price" || !stock[2].Nullable || stock[2].PrimaryKey {
		t.Errorf("unexpected price column: %+v", stock[2])
	}

	names := tables["name_index"]
	if len(names) != 2 || names[1].Field != "EngName" {
		t.Errorf("unexpected name_index columns: %+v", names)
	}
}
