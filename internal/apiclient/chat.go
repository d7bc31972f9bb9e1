package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

// Messages возвращает сообщения в порядке сервера: сначала новые
func (c *Client) Messages(ctx context.Context, creds Credentials) ([]models.Message, error) {
	const op = "apiclient.Messages"

	var msgs []models.Message
	if err := c.doJSON(ctx, http.MethodGet, "/chat/messages", creds, nil, &msgs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, creds Credentials, text string) (*models.Message, error) {
	const op = "apiclient.SendMessage"
	req := models.NewMessage{Message: text}
	if err := Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var msg models.Message
	if err := c.doJSON(ctx, http.MethodPost, "/chat/message", creds, req, &msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &msg, nil
}
