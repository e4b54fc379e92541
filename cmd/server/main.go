package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lanternhq/lantern/server"
	"github.com/lanternhq/lantern/server/middlewares"
	"github.com/lanternhq/lantern/server/service"
	. "github.com/lanternhq/lantern/utils"
	"github.com/lanternhq/lantern/utils/dotenv"
	. "github.com/lanternhq/lantern/utils/flag"
	. "github.com/lanternhq/lantern/utils/log"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("cannot connect to DB: ", err)
	}
	DatabaseSetupAndMigration(db)

	if !ByPassAuth {
		middlewares.Setup()
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))
	if !ByPassAuth {
		router.Use(middlewares.Viewer())
	}

	api := server.NewAPI(service.New(db))
	api.RegisterRoutes(router)

	Log.Info("api server starts up")
	router.Run(":8080")
}
