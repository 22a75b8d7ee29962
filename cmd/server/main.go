package main

import (
	"github.com/RangerAkash1/workflow-builder/backend/internal/server"
	"github.com/RangerAkash1/workflow-builder/backend/internal/util"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
