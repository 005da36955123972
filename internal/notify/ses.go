package notify

import (
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

const charset = "UTF-8"

// SESNotifier sends plain-text email through AWS SES.
type SESNotifier struct {
	svc    *ses.SES
	sender string
}

func NewSESNotifier(region, sender string) (*SESNotifier, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &SESNotifier{svc: ses.New(sess), sender: sender}, nil
}

func (n *SESNotifier) Send(msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	to := make([]*string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr == "" {
			continue
		}
		to = append(to, aws.String(addr))
	}
	if len(to) == 0 {
		return nil
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{ToAddresses: to},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(charset), Data: aws.String(msg.Subject)},
			Body: &ses.Body{
				Text: &ses.Content{Charset: aws.String(charset), Data: aws.String(msg.Body)},
			},
		},
		Source: aws.String(n.sender),
	}

	if _, err := n.svc.SendEmail(input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

// LogNotifier is used when SES is not configured; it only logs the send.
type LogNotifier struct{}

func (LogNotifier) Send(msg Message) error {
	log.Printf("[NOTIFY] skipped email to=%v subject=%q (notifier not configured)", msg.To, msg.Subject)
	return nil
}
