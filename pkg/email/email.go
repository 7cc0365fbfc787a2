// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const apiURL = "https://api.resend.com/emails"

// Client delivers email through the Resend HTTP API.
type Client struct {
	apiKey  string
	from    string
	replyTo string
	http    *http.Client
}

type payload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type apiResponse struct {
	ID string `json:"id"`
}

func NewClient(apiKey, from, replyTo string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	return &Client{
		apiKey:  apiKey,
		from:    from,
		replyTo: replyTo,
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Send delivers an email with HTML and plain-text bodies and returns the
// provider message id.
func (c *Client) Send(to []string, subject, html, text string) (string, error) {
	return c.deliver(payload{
		From:    c.from,
		To:      to,
		Subject: subject,
		Html:    html,
		Text:    text,
		ReplyTo: c.replyTo,
	})
}

// SendText delivers a plain-text only email.
func (c *Client) SendText(to []string, subject, text string) (string, error) {
	return c.deliver(payload{
		From:    c.from,
		To:      to,
		Subject: subject,
		Text:    text,
		ReplyTo: c.replyTo,
	})
}

func (c *Client) deliver(p payload) (string, error) {
	jsonData, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return "", fmt.Errorf("resend API error: %s", string(respBody))
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("error parsing response: %v", err)
	}
	return parsed.ID, nil
}
