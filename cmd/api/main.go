package main

import (
	"fmt"
	"net/http"

	"github.com/servicepro/fieldsync-go/internal/config"
	appHTTP "github.com/servicepro/fieldsync-go/internal/handler/http"
	"github.com/servicepro/fieldsync-go/internal/pkg/database"
	"github.com/servicepro/fieldsync-go/internal/pkg/jwt"
	"github.com/servicepro/fieldsync-go/internal/pkg/sse"
	"github.com/servicepro/fieldsync-go/internal/repository/postgresql"
	checkinService "github.com/servicepro/fieldsync-go/internal/service/checkin"
	jobService "github.com/servicepro/fieldsync-go/internal/service/job"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	jobRepo := postgresql.NewJobRepository(db)
	checkInRepo := postgresql.NewCheckInRepository(db)
	transactor := postgresql.NewTransactor(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	jobSvc := jobService.NewJobService(jobRepo)
	checkInSvc := checkinService.NewCheckInService(transactor, checkInRepo, jobRepo, hub)

	jobHandler := appHTTP.NewJobHandler(jobSvc)
	checkInHandler := appHTTP.NewCheckInHandler(checkInSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, jwtService)

	router := appHTTP.NewRouter(
		jwtService,
		jobHandler,
		checkInHandler,
		eventsHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
