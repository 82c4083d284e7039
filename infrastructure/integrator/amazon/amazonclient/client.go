package amazonclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	amazondomain "github.com/vfg2006/campaign-manager-api/infrastructure/integrator/amazon/domain"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	headerClientID = "Amazon-Advertising-API-ClientId"
	headerScope    = "Amazon-Advertising-API-Scope"

	ordersPath    = "/dsp/orders"
	lineItemsPath = "/dsp/lineItems"
)

type Client interface {
	CreateOrder(ctx context.Context, creds domain.PlatformCredentials, profileID string, req amazondomain.OrderRequest) (*amazondomain.OrderResponse, error)
	CreateLineItem(ctx context.Context, creds domain.PlatformCredentials, profileID string, req amazondomain.LineItemRequest) (amazondomain.LineItemResponse, error)
}

type AmazonClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &AmazonClient{
		BaseURL: cfg.Amazon.BaseURL,
		HTTPClient: &http.Client{
			Timeout: cfg.Amazon.RequestTimeout,
		},
	}
}

func (c *AmazonClient) CreateOrder(
	ctx context.Context,
	creds domain.PlatformCredentials,
	profileID string,
	req amazondomain.OrderRequest,
) (*amazondomain.OrderResponse, error) {
	body, status, err := c.post(ctx, creds, profileID, ordersPath, req)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		errResp := parseErrorResponse(body)
		return nil, &amazondomain.OrderCreationError{
			StatusCode: status,
			Code:       errResp.Code,
			Message:    errResp.Description(),
			RequestID:  errResp.RequestID,
		}
	}

	var response amazondomain.OrderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "amazon: erro ao decodificar resposta de order")
	}

	if response.OrderID == "" {
		return nil, errors.New("amazon: resposta de order sem orderId")
	}

	return &response, nil
}

func (c *AmazonClient) CreateLineItem(
	ctx context.Context,
	creds domain.PlatformCredentials,
	profileID string,
	req amazondomain.LineItemRequest,
) (amazondomain.LineItemResponse, error) {
	body, status, err := c.post(ctx, creds, profileID, lineItemsPath, req)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		errResp := parseErrorResponse(body)
		return nil, &amazondomain.AdsetCreationError{
			StatusCode: status,
			Code:       errResp.Code,
			Message:    errResp.Description(),
			RequestID:  errResp.RequestID,
		}
	}

	var response amazondomain.LineItemResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "amazon: erro ao decodificar resposta de line item")
	}

	return response, nil
}

func (c *AmazonClient) post(
	ctx context.Context,
	creds domain.PlatformCredentials,
	profileID, path string,
	payload any,
) ([]byte, int, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, errors.Wrap(err, "amazon: erro ao serializar payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, errors.Wrap(err, "amazon: erro ao criar a requisição")
	}

	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set(headerClientID, creds.ClientID)
	req.Header.Set(headerScope, profileID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Error("Erro ao fazer a requisição para a Amazon")
		return nil, 0, errors.Wrap(err, fmt.Sprintf("amazon: erro na requisição %s", path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "amazon: erro ao ler resposta")
	}

	return body, resp.StatusCode, nil
}

func parseErrorResponse(body []byte) *amazondomain.ErrorResponse {
	var errResp amazondomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || (errResp.Code == "" && errResp.Description() == "") {
		return &amazondomain.ErrorResponse{Message: string(body)}
	}
	return &errResp
}
