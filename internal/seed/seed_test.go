package seed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
)

const catalogJSON = `{
	"results": [
		{"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon/1/"},
		{"name": "ivysaur", "url": "https://pokeapi.co/api/v2/pokemon/2/"},
		{"name": "venusaur", "url": "https://pokeapi.co/api/v2/pokemon/3/"}
	]
}`

func fakeCatalog(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSeeder_Run(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := fakeCatalog(t, http.StatusOK, catalogJSON)

	for i := 1; i <= 3; i++ {
		mock.ExpectExec(`INSERT INTO cards \(name, image_url\)`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	s := New(repo.NewCardRepo(db), srv.URL, 3)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSeeder_Run_PerItemFailureContinues(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := fakeCatalog(t, http.StatusOK, catalogJSON)

	// Second insert fails; the job logs and keeps going.
	mock.ExpectExec(`INSERT INTO cards \(name, image_url\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO cards \(name, image_url\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("boom"))
	mock.ExpectExec(`INSERT INTO cards \(name, image_url\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := New(repo.NewCardRepo(db), srv.URL, 3)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run should tolerate per-item failures: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSeeder_Run_CatalogDown(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := fakeCatalog(t, http.StatusInternalServerError, "nope")

	s := New(repo.NewCardRepo(db), srv.URL, 3)
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error when catalog fetch fails")
	}
}

func TestSeeder_RunIfEmpty_Skips(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cards`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(151))

	// No catalog server: RunIfEmpty must not reach the network.
	s := New(repo.NewCardRepo(db), "http://127.0.0.1:1", 3)
	if err := s.RunIfEmpty(context.Background()); err != nil {
		t.Fatalf("RunIfEmpty: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSpriteURL(t *testing.T) {
	got := spriteURL("https://pokeapi.co/api/v2/pokemon/25/")
	if got == nil || *got != "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png" {
		t.Errorf("unexpected sprite url: %v", got)
	}
	if spriteURL("not-a-url") != nil {
		t.Error("expected nil for malformed entry url")
	}
}
