package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/liubai-app/liubai/internal/config"
	"go.uber.org/zap"
)

const resendEndpoint = "https://api.resend.com/emails"

type ResendClient struct {
	apiKey   string
	from     string
	fromName string
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

func NewResendClient(cfg config.ResendConfig, log *zap.Logger) *ResendClient {
	return &ResendClient{
		apiKey:   cfg.APIKey,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		endpoint: resendEndpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

func (r *ResendClient) Enabled() bool {
	return r != nil && r.apiKey != "" && r.from != ""
}

// SendWeeklyReview mails a weekly review. It is a no-op when Resend is not configured.
func (r *ResendClient) SendWeeklyReview(ctx context.Context, to, name, weekOf, content string) error {
	if !r.Enabled() {
		r.log.Info("resend disabled, skip weekly review", zap.String("to", to))
		return nil
	}
	body, _ := json.Marshal(map[string]any{
		"from":    r.formattedFrom(),
		"to":      []string{to},
		"subject": fmt.Sprintf("留白 · 本周精力回顾（%s）", weekOf),
		"html":    buildWeeklyReviewHTML(name, weekOf, content),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend: status %d", resp.StatusCode)
	}
	return nil
}

func (r *ResendClient) formattedFrom() string {
	addr := strings.TrimSpace(r.from)
	if strings.Contains(addr, "<") && strings.Contains(addr, ">") {
		return addr
	}
	name := strings.TrimSpace(r.fromName)
	if name == "" {
		name = "留白"
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

func buildWeeklyReviewHTML(name, weekOf, content string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><body style="font-family:sans-serif;max-width:640px;margin:0 auto;padding:20px">`)
	sb.WriteString(fmt.Sprintf(`<h1 style="font-size:22px;margin:0 0 12px">本周精力回顾 · %s</h1>`, html.EscapeString(weekOf)))
	if n := strings.TrimSpace(name); n != "" {
		sb.WriteString(fmt.Sprintf(`<p style="color:#666">%s，你好：</p>`, html.EscapeString(n)))
	}
	for _, para := range strings.Split(strings.TrimSpace(content), "\n") {
		p := strings.TrimSpace(para)
		if p == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<p style="margin:0 0 10px;color:#333;line-height:1.7">%s</p>`, html.EscapeString(p)))
	}
	sb.WriteString(`<p style="margin-top:18px;color:#999;font-size:12px">知秋 · 留白</p>`)
	sb.WriteString(`</body></html>`)
	return sb.String()
}
