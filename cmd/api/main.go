package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
	"github.com/andersonlima/go-ecommerce-events/internal/handlers"
	"github.com/andersonlima/go-ecommerce-events/pkg/logger"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = true

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterProductsRoutes(r, cfg)
	handlers.RegisterOrdersRoutes(r, cfg)

	// anything that does not match a known verb/path pair is a bad request
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusBadRequest, "Bad request")
	})
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusBadRequest, "Bad request")
	})

	return r
}

func main() {
	log := logger.New()
	defer log.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatal("failed to init aws clients", zap.Error(err))
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:      clients.DynamoDB,
		SNSClient:           clients.SNS,
		LambdaClient:        clients.Lambda,
		ProductsTable:       os.Getenv("PRODUCTS_TABLE"),
		OrdersTable:         os.Getenv("ORDERS_TABLE"),
		EventsFunctionName:  os.Getenv("EVENTS_FUNCTION_NAME"),
		OrderEventsTopicARN: os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		Logger:              log,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			log.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
