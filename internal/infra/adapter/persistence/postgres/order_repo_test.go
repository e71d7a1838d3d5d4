package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/infra/adapter/persistence/postgres"
)

func TestOrderRepo_Load(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM stock_order`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"tickers"}).
			AddRow([]byte(`["AAPL","MSFT"]`)))

	repo := postgres.NewOrderRepo(db)
	got, err := repo.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	want := []entity.Ticker{"AAPL", "MSFT"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderRepo_Load_NoSavedOrder(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM stock_order`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"tickers"}))

	repo := postgres.NewOrderRepo(db)
	got, err := repo.Load(context.Background(), 9)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty order, got %v", got)
	}
}

func TestOrderRepo_Save(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO stock_order`)).
		WithArgs(int64(1), []byte(`["MSFT","AAPL"]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewOrderRepo(db)
	if err := repo.Save(context.Background(), 1, []entity.Ticker{"MSFT", "AAPL"}); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
