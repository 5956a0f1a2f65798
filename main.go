package main

import (
	"log"
	"net/http"

	"atelier/account"
	"atelier/app/files"
	"atelier/bizerror"
	"atelier/client/oss"
	"atelier/domain"
	"atelier/domain/drawing/drawingrest"
	"atelier/domain/namespace"
	"atelier/es"
	"atelier/event"
	"atelier/indices"
	"atelier/infra/tracing"
	"atelier/notification"
	"atelier/persistence"
	"atelier/servehttp"
	"atelier/session"
	"atelier/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&domain.Project{}, &domain.ProjectMember{},
		&domain.Drawing{}, &domain.RevisionRecord{},
		&event.EventRecord{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.Bootstrap(); err != nil {
		log.Fatalf("failed to bootstrap accounts %v\n", err)
	}

	if closer := tracing.Bootstrap(); closer != nil {
		defer closer.Close()
	}
	es.Bootstrap()
	oss.Bootstrap()
	notification.Bootstrap()
	indices.Bootstrap()

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "atelier")
	})

	sessions.RegisterSessionsRestAPI(engine)
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	namespace.RegisterProjectsRestAPI(engine, session.SimpleAuthFilter())
	drawingrest.RegisterDrawingsRestAPI(engine, session.SimpleAuthFilter())
	files.RegisterDrawingFilesAPI(engine, session.SimpleAuthFilter())
	indices.RegisterIndicesRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
