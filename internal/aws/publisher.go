package aws

import (
	"context"
	"encoding/json"
	"fmt"

	sdklambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// TopicPublisher wraps an SNS client and a topic ARN. Order event envelopes
// fan out through it to every subscriber.
type TopicPublisher struct {
	SNS      SNSAPI
	TopicARN string
}

// NewTopicPublisher returns a TopicPublisher bound to a topic ARN.
func NewTopicPublisher(snsClient SNSAPI, topicARN string) *TopicPublisher {
	return &TopicPublisher{
		SNS:      snsClient,
		TopicARN: topicARN,
	}
}

// PublishEnvelope serializes the envelope and publishes it to the topic.
// Returns the SNS message id for log correlation.
func (p *TopicPublisher) PublishEnvelope(ctx context.Context, envelope interface{}) (string, error) {
	body, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	out, err := p.SNS.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.TopicARN,
		Message:  awsString(string(body)),
	})
	if err != nil {
		return "", fmt.Errorf("publish envelope: %w", err)
	}
	if out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}

// FunctionInvoker delivers product event envelopes by invoking the relay
// function directly. InvocationType Event makes the call asynchronous: the
// caller learns whether the invoke was accepted, not whether it succeeded.
type FunctionInvoker struct {
	Lambda       LambdaAPI
	FunctionName string
}

// NewFunctionInvoker returns a FunctionInvoker bound to a function name.
func NewFunctionInvoker(lambdaClient LambdaAPI, functionName string) *FunctionInvoker {
	return &FunctionInvoker{
		Lambda:       lambdaClient,
		FunctionName: functionName,
	}
}

// InvokeEnvelope serializes the envelope and passes it as the invoke payload.
func (i *FunctionInvoker) InvokeEnvelope(ctx context.Context, envelope interface{}) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	_, err = i.Lambda.Invoke(ctx, &sdklambda.InvokeInput{
		FunctionName:   &i.FunctionName,
		Payload:        payload,
		InvocationType: lambdatypes.InvocationTypeEvent,
	})
	if err != nil {
		return fmt.Errorf("invoke events function: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
