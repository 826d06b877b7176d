//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

var session *Session

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	status, payload := handleItemRequest(session, []byte(body))
	respJSON, err := json.Marshal(payload)
	if err != nil {
		return errResp(500, "encode response: "+err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(errorResponse{Error: msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	cfg := DefaultConfig()
	if path := os.Getenv("CHISELED_CONFIG"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
	}
	cfg.Log.Pretty = false
	setupLogger(cfg.Log)

	var err error
	session, err = NewSession(cfg, NewTradeClient(cfg.Trade))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}

	// Catalogs are loaded once per cold start.
	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.Trade.Timeout()+5*time.Second)
	defer cancel()
	if err := session.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load trade catalogs")
	}

	lambda.Start(handler)
}
