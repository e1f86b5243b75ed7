package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/siteadmin/internal/models"
	"github.com/atinyakov/siteadmin/internal/repository"
	"github.com/atinyakov/siteadmin/internal/service"
)

func TestStartTokenCleaner_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM tokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	core, logs := observer.New(zapcore.InfoLevel)
	purger := service.NewAuthService(repository.NewPostgresAuthRepository(dbMock), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartTokenCleaner(ctx, purger, 10*time.Millisecond, zap.New(core))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
	if logs.FilterMessage("purged expired tokens").Len() == 0 {
		t.Errorf("expected purge to be logged, got %v", logs.All())
	}
}

func TestStartTokenCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM tokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("db fail"))

	core, logs := observer.New(zapcore.ErrorLevel)
	purger := service.NewAuthService(repository.NewPostgresAuthRepository(dbMock), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartTokenCleaner(ctx, purger, 10*time.Millisecond, zap.New(core))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if logs.FilterMessage("failed to purge expired tokens").Len() == 0 {
		t.Errorf("expected error log, got: %v", logs.All())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartTokenCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	purger := service.NewAuthService(repository.NewPostgresAuthRepository(dbMock), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	StartTokenCleaner(ctx, purger, 100*time.Millisecond, zap.NewNop())
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}

func TestStartTokenCleaner_Memory(t *testing.T) {
	repo := repository.NewMemoryAuthRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	old := models.Token{Value: "old", AdminID: "a", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := models.Token{Value: "fresh", AdminID: "a", CreatedAt: time.Now()}
	for _, tok := range []models.Token{old, fresh} {
		if err := repo.SaveToken(ctx, tok); err != nil {
			t.Fatalf("SaveToken: %v", err)
		}
	}

	StartTokenCleaner(ctx, service.NewAuthService(repo, time.Hour), 10*time.Millisecond, zap.NewNop())
	time.Sleep(100 * time.Millisecond)
	cancel()

	if _, err := repo.GetToken(context.Background(), "old"); err != repository.ErrNotFound {
		t.Errorf("expected old token to be purged, got err=%v", err)
	}
	if _, err := repo.GetToken(context.Background(), "fresh"); err != nil {
		t.Errorf("expected fresh token to survive, got %v", err)
	}
}
