package handlers

import (
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
)

// HandlerConfig groups dependencies for the product and order handlers.
type HandlerConfig struct {
	DynamoDBClient      aws.DynamoDBAPI
	SNSClient           aws.SNSAPI
	LambdaClient        aws.LambdaAPI
	ProductsTable       string
	OrdersTable         string
	EventsFunctionName  string
	OrderEventsTopicARN string
	Logger              *zap.Logger
}

// requestID resolves the correlation id for an invocation: the Lambda
// request id when running behind the runtime, the caller-supplied header or
// a fresh uuid otherwise. Used purely for traceability.
func requestID(c *gin.Context) string {
	if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if rid := c.GetHeader("X-Request-Id"); rid != "" {
		return rid
	}
	return uuid.NewString()
}
