// pkg/email/service.go
package email

var GlobalClient *Client

func InitClient(apiKey, from, replyTo string) error {
	client, err := NewClient(apiKey, from, replyTo)
	if err != nil {
		return err
	}
	GlobalClient = client
	return nil
}
