package remoteapi

import (
	"context"
	"net/http"

	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// SendMailCampaign отправляет email-кампанию на исполнение удалённому API.
func (c *Client) SendMailCampaign(ctx context.Context, tokenStr string, campaign models.MailCampaign) (*models.CampaignReceipt, error) {
	var out models.CampaignReceipt
	if err := c.do(ctx, http.MethodPost, "/api/mail/send", tokenStr, campaign, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendWhatsAppCampaign отправляет WhatsApp-кампанию на исполнение удалённому API.
func (c *Client) SendWhatsAppCampaign(ctx context.Context, tokenStr string, campaign models.WhatsAppCampaign) (*models.CampaignReceipt, error) {
	var out models.CampaignReceipt
	if err := c.do(ctx, http.MethodPost, "/api/whatsapp/send", tokenStr, campaign, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateScrapeJob запускает задачу скрейпинга.
func (c *Client) CreateScrapeJob(ctx context.Context, tokenStr string, req models.ScrapeJobRequest) (*models.ScrapeJob, error) {
	var out models.ScrapeJob
	if err := c.do(ctx, http.MethodPost, "/api/scraper/jobs", tokenStr, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScrapeJob возвращает состояние задачи скрейпинга.
func (c *Client) ScrapeJob(ctx context.Context, tokenStr, id string) (*models.ScrapeJob, error) {
	var out models.ScrapeJob
	if err := c.do(ctx, http.MethodGet, "/api/scraper/jobs/"+id, tokenStr, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyticsSummary возвращает сводку по кампаниям пользователя.
func (c *Client) AnalyticsSummary(ctx context.Context, tokenStr string) (*models.AnalyticsSummary, error) {
	var out models.AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, "/api/analytics/summary", tokenStr, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminOverview возвращает сводку по всем пользователям. Доступно только администратору.
func (c *Client) AdminOverview(ctx context.Context, tokenStr string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/admin/overview", tokenStr, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
