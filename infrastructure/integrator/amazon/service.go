package amazon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/amazon/amazonclient"
	amazondomain "github.com/vfg2006/campaign-manager-api/infrastructure/integrator/amazon/domain"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// TokenSource fornece credenciais válidas e permite forçar a renovação do token
type TokenSource interface {
	Credentials(ctx context.Context) (domain.PlatformCredentials, error)
	RefreshToken(ctx context.Context) error
}

type AmazonIntegrator struct {
	Client amazonclient.Client
	tokens TokenSource
}

func New(client amazonclient.Client, tokens TokenSource) *AmazonIntegrator {
	return &AmazonIntegrator{
		Client: client,
		tokens: tokens,
	}
}

func (s *AmazonIntegrator) Credentials(ctx context.Context) (domain.PlatformCredentials, error) {
	return s.tokens.Credentials(ctx)
}

// CreateAdset cria o line item na order da campanha. Um 401 provoca uma única renovação de token e nova tentativa.
func (s *AmazonIntegrator) CreateAdset(ctx context.Context, req domain.AdsetCreationRequest) (*domain.AdsetCreationResponse, error) {
	lineItem := amazondomain.LineItemRequest{
		OrderID:       req.OrderID,
		Name:          req.Adset.Name,
		ExternalID:    req.Adset.ID,
		LineItemType:  LineItemType(req.Type),
		StartDateTime: startOfDay(req.Adset.StartDate),
		EndDateTime:   endOfDay(req.Adset.EndDate),
		Budget:        amazondomain.LineItemBudget{BudgetAmount: float64(req.Adset.Budget)},
	}

	resp, err := s.Client.CreateLineItem(ctx, req.Credentials, req.ProfileID, lineItem)
	if isUnauthorized(err) {
		creds, refreshErr := s.refreshCredentials(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		resp, err = s.Client.CreateLineItem(ctx, creds, req.ProfileID, lineItem)
		err = stillUnauthorized(err)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": req.OrderID,
			"adset_id": req.Adset.ID,
			"error":    err.Error(),
		}).Error("amazon: falha ao criar line item")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": req.OrderID,
		"adset_id": req.Adset.ID,
	}).Debug("amazon: line item criado com sucesso")

	return &domain.AdsetCreationResponse{
		Data: []domain.AdsetResult{domain.AdsetResult(resp)},
	}, nil
}

// CreateOrder cria a order DSP que agrupa os line items da campanha
func (s *AmazonIntegrator) CreateOrder(ctx context.Context, req domain.OrderCreationRequest) (*domain.OrderCreationResponse, error) {
	fields, ok := req.Campaign.Fields.(domain.AmazonDSPFields)
	if !ok {
		return nil, fmt.Errorf("amazon: campanha %s não é do canal %s", req.Campaign.ID, domain.ChannelAmazonDSP)
	}

	order := amazondomain.OrderRequest{
		Name:       req.Campaign.Name,
		ExternalID: req.Campaign.ID,
		Flight: amazondomain.Flight{
			StartDateTime: startOfDay(req.Campaign.StartDate),
			EndDateTime:   endOfDay(req.Campaign.EndDate),
		},
		Budget: amazondomain.OrderBudget{Amount: float64(req.Campaign.Budget)},
		Optimization: amazondomain.Optimization{
			Goal:        fields.Goal,
			BidStrategy: fields.BidStrategy,
		},
	}

	if fields.FrequencyCap > 0 {
		order.FrequencyCaps = []amazondomain.FrequencyCap{{
			Type:           "CUSTOM",
			MaxImpressions: fields.FrequencyCap,
			TimeUnit:       fields.FrequencyCapPeriod,
		}}
	}

	resp, err := s.Client.CreateOrder(ctx, req.Credentials, req.ProfileID, order)
	if isUnauthorized(err) {
		creds, refreshErr := s.refreshCredentials(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		resp, err = s.Client.CreateOrder(ctx, creds, req.ProfileID, order)
		err = stillUnauthorized(err)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"campaign_id": req.Campaign.ID,
			"error":       err.Error(),
		}).Error("amazon: falha ao criar order")
		return nil, err
	}

	return &domain.OrderCreationResponse{OrderID: resp.OrderID}, nil
}

func (s *AmazonIntegrator) refreshCredentials(ctx context.Context) (domain.PlatformCredentials, error) {
	logrus.Warn("amazon: token recusado pela API, renovando")
	if err := s.tokens.RefreshToken(ctx); err != nil {
		return domain.PlatformCredentials{}, fmt.Errorf("erro ao renovar token expirado: %w", err)
	}
	return s.tokens.Credentials(ctx)
}

func isUnauthorized(err error) bool {
	var adsetErr *amazondomain.AdsetCreationError
	if errors.As(err, &adsetErr) {
		return adsetErr.StatusCode == http.StatusUnauthorized
	}
	var orderErr *amazondomain.OrderCreationError
	if errors.As(err, &orderErr) {
		return orderErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// stillUnauthorized marca o 401 que persiste mesmo com o token recém renovado
func stillUnauthorized(err error) error {
	if isUnauthorized(err) {
		return fmt.Errorf("%w: %w", amazondomain.ErrTokenRefreshed, err)
	}
	return err
}

// LineItemType traduz o tipo de campanha para o tipo de line item da DSP
func LineItemType(campaignType string) string {
	switch strings.ToLower(campaignType) {
	case "display":
		return "STANDARD_DISPLAY"
	case "video", "online video":
		return "VIDEO"
	case "audio":
		return "AUDIO"
	case "streaming tv", "ott":
		return "STREAMING_TV"
	default:
		return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(campaignType), " ", "_"))
	}
}

func startOfDay(date string) string {
	if date == "" {
		return ""
	}
	return date + "T00:00:00Z"
}

func endOfDay(date string) string {
	if date == "" {
		return ""
	}
	return date + "T23:59:59Z"
}
