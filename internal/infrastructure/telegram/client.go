package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

// Client - минимальный клиент Bot API: только методы, нужные сервису.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultAPIURL)
}

func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		// getUpdates держит long poll до 30с, таймаут с запасом
		client: &http.Client{Timeout: 40 * time.Second},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID int64 `json:"id"`
}

type Message struct {
	MessageID int64 `json:"message_id"`
	Chat      Chat  `json:"chat"`
}

type ChatInviteLink struct {
	InviteLink string `json:"invite_link"`
}

type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

type ChatMemberUpdated struct {
	Chat          Chat       `json:"chat"`
	NewChatMember ChatMember `json:"new_chat_member"`
}

type Update struct {
	UpdateID   int64              `json:"update_id"`
	ChatMember *ChatMemberUpdated `json:"chat_member"`
}

func (c *Client) CreateChatInviteLink(ctx context.Context, chatID int64, name string, memberLimit int, expireDate time.Time) (*ChatInviteLink, error) {
	var link ChatInviteLink
	err := c.call(ctx, "createChatInviteLink", map[string]interface{}{
		"chat_id":              chatID,
		"name":                 name,
		"member_limit":         memberLimit,
		"expire_date":          expireDate.Unix(),
		"creates_join_request": false,
	}, &link)
	if err != nil {
		return nil, err
	}
	if link.InviteLink == "" {
		return nil, fmt.Errorf("telegram did not return invite_link")
	}
	return &link, nil
}

func (c *Client) BanChatMember(ctx context.Context, chatID, userID int64) error {
	return c.call(ctx, "banChatMember", map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	}, nil)
}

func (c *Client) UnbanChatMember(ctx context.Context, chatID, userID int64) error {
	return c.call(ctx, "unbanChatMember", map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	}, nil)
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (*Message, error) {
	var msg Message
	err := c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.call(ctx, "deleteMessage", map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int, allowedUpdates []string) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", map[string]interface{}{
		"offset":          offset,
		"timeout":         timeoutSeconds,
		"allowed_updates": allowedUpdates,
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, payload map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var data apiResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return fmt.Errorf("telegram %s invalid JSON: %s", method, string(respBody))
	}
	if !data.OK {
		return fmt.Errorf("telegram %s failed: %s", method, data.Description)
	}

	if out != nil {
		if err := json.Unmarshal(data.Result, out); err != nil {
			return fmt.Errorf("telegram %s bad result: %w", method, err)
		}
	}

	return nil
}
