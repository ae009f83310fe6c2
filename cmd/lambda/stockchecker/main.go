package main

import (
	"context"
	"encoding/json"

	"stock-checker-api/internal/config"
	"stock-checker-api/pkg/lambda"
	"stock-checker-api/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	sc := config.GetServerlessConfig()
	container.Logger.WithFields(logrus.Fields{
		"function_name":    sc.FunctionName,
		"function_version": sc.FunctionVersion,
		"region":           sc.Region,
		"stage":            sc.Stage,
		"deployment_mode":  config.GetDeploymentMode(),
		"handler_mode":     cfg.Handler.Mode,
	}).Info("Cold start")
}

// handler accepts any JSON event, as a direct or Step Functions invocation delivers it
func handler(ctx context.Context, event json.RawMessage) (*lambda.Response, error) {
	return container.StockHandler.Handle(ctx, event), nil
}

// handlerFor picks the handler matching the configured event shape
func handlerFor(mode string) interface{} {
	if mode == "apigateway" {
		return container.StockHandler.HandleAPIGateway
	}
	return handler
}

func main() {
	awslambda.Start(handlerFor(container.Config.Handler.Mode))
}
