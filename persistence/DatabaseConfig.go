package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_URL=root:root@(127.0.0.1:3306)/atelier?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driverType := os.Getenv("DATABASE_DRIVER")
	if driverType == "" {
		driverType = "mysql"
	}
	driverArgs := os.ExpandEnv(os.Getenv("DATABASE_URL"))
	if driverArgs == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	return &DatabaseConfig{DriverType: driverType, DriverArgs: driverArgs}, nil
}

// PrepareMysqlDatabase create the schema in DriverArgs when absent.
func PrepareMysqlDatabase(driverArgs string) error {
	schemaBegin := strings.Index(driverArgs, "/")
	if schemaBegin < 0 {
		return errors.New("database name not found in connection args")
	}
	schemaEnd := strings.Index(driverArgs[schemaBegin:], "?")
	schema := ""
	if schemaEnd < 0 {
		schema = driverArgs[schemaBegin+1:]
	} else {
		schema = driverArgs[schemaBegin+1 : schemaBegin+schemaEnd]
	}
	if schema == "" {
		return errors.New("database name not found in connection args")
	}

	conn, err := sql.Open("mysql", driverArgs[0:schemaBegin+1])
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Exec("CREATE DATABASE IF NOT EXISTS `" + schema + "` CHARACTER SET utf8mb4")
	return err
}
