package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/auth"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"

	_ "github.com/lib/pq"
)

// createadmin заводит первого пользователя системы.
//
//	go run ./cmd/createadmin -email admin@orgao.gov.br
//
// Пароль читается с терминала без эха; для CI его можно передать в CREATEADMIN_PASSWORD.
func main() {
	email := flag.String("email", "", "email администратора")
	role := flag.String("role", auth.RoleAdmin, "роль: admin, gestor или requisitante")
	flag.Parse()

	logger := logging.GetLogger()
	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logger.Warnf("файл .env не загружен: %v", err)
	}
	cfg := config.GetConfig()

	conn, err := sql.Open(cfg.Database.Driver, cfg.Database.Source)
	if err != nil {
		logger.Fatalf("error connecting to database: %v", err)
	}
	defer conn.Close()
	if err = conn.Ping(); err != nil {
		logger.Fatalf("error pinging database: %v", err)
	}

	password, err := readPassword()
	if err != nil {
		logger.Fatal(err)
	}

	store := db.NewStore(conn)
	authService := auth.NewService(store, cfg, audit.NewService(store, logger), logger)

	// формат email, длина пароля, роль и уникальность проверяются сервисом
	user, err := authService.CreateUser(context.Background(), 0, *email, password, *role)
	if err != nil {
		logger.Fatalf("не удалось создать пользователя: %v", err)
	}
	logger.Infof("пользователь создан: id=%d email=%s role=%s", user.ID, user.Email, user.Role)
}

func readPassword() (string, error) {
	if p := os.Getenv("CREATEADMIN_PASSWORD"); p != "" {
		return p, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("stdin не терминал: задайте CREATEADMIN_PASSWORD")
	}

	fmt.Print("Пароль: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("не удалось прочитать пароль: %w", err)
	}

	fmt.Print("Повторите пароль: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("не удалось прочитать пароль: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("пароли не совпадают")
	}
	return string(first), nil
}
