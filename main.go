package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/epathshala/exam-api/internal/config"
	"github.com/epathshala/exam-api/internal/container"
	"github.com/epathshala/exam-api/internal/router"
)

var chiLambda *chiadapter.ChiLambdaV2

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	_ = godotenv.Load()

	c := container.New()

	r := router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		ExamHandler:       c.ExamContainer.Handler,
		AIQuestionHandler: c.AIQuestionContainer.Handler,
	})

	if os.Getenv("RUN_LOCAL") == "true" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		config.Log.Infof("Listening on :%s", port)
		if err := http.ListenAndServe(":"+port, r); err != nil {
			config.Log.WithError(err).Fatal("server stopped")
		}
		return
	}

	chiLambda = chiadapter.NewV2(r.(*chi.Mux))
	lambda.Start(handler)
}
