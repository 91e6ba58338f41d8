package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgImage    = "postgres:17-alpine"
	pgUser     = "procurement"
	pgPassword = "procurement"
	pgDatabase = "procurement_test"
)

// Все таблицы схемы
var truncateOrder = []string{
	"notifications",
	"audit_logs",
	"prices",
	"items",
	"demands",
	"suppliers",
	"plans",
	"user_sessions",
	"users",
}

// StartPostgres поднимает PostgreSQL в контейнере, применяет миграции и
// регистрирует остановку контейнера в t.Cleanup. С -short тест пропускается.
// Драйвер postgres должен быть зарегистрирован вызывающим пакетом.
func StartPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("интеграционный тест пропущен в режиме -short")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// postgres перезапускается после init-скриптов, поэтому ждем второе сообщение
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("5432/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "не удалось запустить контейнер PostgreSQL")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("не удалось остановить контейнер: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)
	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, waitForPing(ctx, conn, 10, time.Second))
	require.NoError(t, applyMigrations(ctx, conn))
	return conn
}

func waitForPing(ctx context.Context, conn *sql.DB, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = conn.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return fmt.Errorf("БД недоступна после %d попыток: %w", attempts, err)
}

// applyMigrations выполняет *.up.sql из db/migration по возрастанию имени
func applyMigrations(ctx context.Context, conn *sql.DB) error {
	_, self, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(self), "..", "db", "migration")

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("миграции не найдены в %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("миграция %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// TruncateAll очищает все таблицы и сбрасывает последовательности
func TruncateAll(t *testing.T, conn *sql.DB) {
	t.Helper()
	_, err := conn.Exec("TRUNCATE TABLE " + strings.Join(truncateOrder, ", ") + " RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}
